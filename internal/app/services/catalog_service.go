package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

// catalogStore is the persistence surface the catalog service needs
type catalogStore interface {
	CreateSchoolYear(ctx context.Context, schoolYear *models.SchoolYear) error
	CreateSemester(ctx context.Context, semester *models.Semester) error
	CreateGradeLevel(ctx context.Context, gradeLevel *models.GradeLevel) error
	CreateSection(ctx context.Context, section *models.Section) error
	CreateSubject(ctx context.Context, subject *models.Subject) error
	GetEntityName(ctx context.Context, level models.CatalogLevel, id int64) (string, error)
	Rename(ctx context.Context, level models.CatalogLevel, id int64, newName string) error
	Delete(ctx context.Context, level models.CatalogLevel, id int64) error
	Exists(ctx context.Context, level models.CatalogLevel, id int64) (bool, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	ListSchoolYears(ctx context.Context) ([]*models.SchoolYear, error)
	ListTree(ctx context.Context) ([]*models.SchoolYear, error)
}

// membershipStore handles instructor and student assignment rows
type membershipStore interface {
	Assign(ctx context.Context, role models.Role, subjectID, userID int64) error
	Remove(ctx context.Context, role models.Role, subjectID, userID int64) error
	IsMember(ctx context.Context, role models.Role, subjectID, userID int64) (bool, error)
	ListMembers(ctx context.Context, role models.Role, subjectID int64) ([]*models.User, error)
}

// userResolver resolves users for role checks and display names
type userResolver interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	HasRole(ctx context.Context, userID int64, role models.Role) (bool, error)
}

// levelLabels are the human-readable level names used in audit descriptions
var levelLabels = map[models.CatalogLevel]string{
	models.LevelYear:       "school year",
	models.LevelSemester:   "semester",
	models.LevelGradeLevel: "grade level",
	models.LevelSection:    "section",
	models.LevelSubject:    "subject",
}

// CatalogService maintains the five-level hierarchy and subject memberships
type CatalogService struct {
	catalog    catalogStore
	membership membershipStore
	users      userResolver
	activity   ActivityRecorder
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(catalog catalogStore, membership membershipStore, users userResolver, activity ActivityRecorder) *CatalogService {
	return &CatalogService{
		catalog:    catalog,
		membership: membership,
		users:      users,
		activity:   activity,
	}
}

// CreateSchoolYear creates a new school year root node
func (s *CatalogService) CreateSchoolYear(ctx context.Context, actorID *int64, year string) (*models.SchoolYear, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return nil, apperrors.NewValidationError("year label must not be blank")
	}

	schoolYear := &models.SchoolYear{Year: year}
	if err := s.catalog.CreateSchoolYear(ctx, schoolYear); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new school year: %s", year))

	return schoolYear, nil
}

// CreateSemester creates a semester under an existing school year
func (s *CatalogService) CreateSemester(ctx context.Context, actorID *int64, schoolYearID int64, name string) (*models.Semester, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("semester name must not be blank")
	}

	exists, err := s.catalog.Exists(ctx, models.LevelYear, schoolYearID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSchoolYearNotFound
	}

	semester := &models.Semester{Name: name, SchoolYearID: schoolYearID}
	if err := s.catalog.CreateSemester(ctx, semester); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new semester: %s", name))

	return semester, nil
}

// CreateGradeLevel creates a grade level under an existing semester
func (s *CatalogService) CreateGradeLevel(ctx context.Context, actorID *int64, semesterID int64, name string) (*models.GradeLevel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("grade level name must not be blank")
	}

	exists, err := s.catalog.Exists(ctx, models.LevelSemester, semesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSemesterNotFound
	}

	gradeLevel := &models.GradeLevel{Name: name, SemesterID: semesterID}
	if err := s.catalog.CreateGradeLevel(ctx, gradeLevel); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new grade level: %s", name))

	return gradeLevel, nil
}

// CreateSection creates a section under an existing grade level
func (s *CatalogService) CreateSection(ctx context.Context, actorID *int64, gradeLevelID int64, name string) (*models.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("section name must not be blank")
	}

	exists, err := s.catalog.Exists(ctx, models.LevelGradeLevel, gradeLevelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrGradeLevelNotFound
	}

	section := &models.Section{Name: name, GradeLevelID: gradeLevelID}
	if err := s.catalog.CreateSection(ctx, section); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new section: %s", name))

	return section, nil
}

// AddSubject creates a subject under an existing section
func (s *CatalogService) AddSubject(ctx context.Context, actorID *int64, sectionID int64, name, code string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("subject name must not be blank")
	}

	exists, err := s.catalog.Exists(ctx, models.LevelSection, sectionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSectionNotFound
	}

	subject := &models.Subject{Name: name, Code: strings.TrimSpace(code), SectionID: sectionID}
	if err := s.catalog.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new subject: %s", name))

	return subject, nil
}

// RenameEntity renames a node at any hierarchy level
func (s *CatalogService) RenameEntity(ctx context.Context, actorID *int64, level models.CatalogLevel, id int64, newName string) error {
	if !level.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown catalog level: %s", level))
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.NewValidationError("name must not be blank")
	}

	oldName, err := s.catalog.GetEntityName(ctx, level, id)
	if err != nil {
		return err
	}

	if err := s.catalog.Rename(ctx, level, id, newName); err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, models.ActionUpdate,
		fmt.Sprintf("Renamed %s '%s' to '%s'", levelLabels[level], oldName, newName))

	return nil
}

// DeleteEntity removes a node at any hierarchy level. Descendants are
// removed by the store's cascade constraints.
func (s *CatalogService) DeleteEntity(ctx context.Context, actorID *int64, level models.CatalogLevel, id int64) error {
	if !level.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown catalog level: %s", level))
	}

	// Capture the name before the row disappears
	name, err := s.catalog.GetEntityName(ctx, level, id)
	if err != nil {
		return err
	}

	if err := s.catalog.Delete(ctx, level, id); err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, models.ActionDelete,
		fmt.Sprintf("Deleted %s: %s", levelLabels[level], name))

	return nil
}

// ListSchoolYears retrieves all school years without children
func (s *CatalogService) ListSchoolYears(ctx context.Context) ([]*models.SchoolYear, error) {
	return s.catalog.ListSchoolYears(ctx)
}

// GetTree retrieves the whole hierarchy with nested children
func (s *CatalogService) GetTree(ctx context.Context) ([]*models.SchoolYear, error) {
	return s.catalog.ListTree(ctx)
}

// memberRole maps a membership kind to the user role it requires
func memberRole(instructor bool) models.Role {
	if instructor {
		return models.RoleTeacher
	}
	return models.RoleStudent
}

// assignMember implements both instructor and student assignment
func (s *CatalogService) assignMember(ctx context.Context, actorID *int64, subjectID, userID int64, instructor bool) error {
	role := memberRole(instructor)

	subject, err := s.catalog.GetSubject(ctx, subjectID)
	if err != nil {
		return err
	}

	hasRole, err := s.users.HasRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if !hasRole {
		return apperrors.ErrUserNotFound
	}

	if err := s.membership.Assign(ctx, role, subjectID, userID); err != nil {
		return err
	}

	display := "Unknown"
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		display = user.DisplayName()
	}

	label := "student"
	if instructor {
		label = "instructor"
	}
	s.activity.Record(ctx, actorID, models.ActionUpdate,
		fmt.Sprintf("Assigned %s %s to subject %s", label, display, subject.Name))

	return nil
}

// removeMember implements both instructor and student removal
func (s *CatalogService) removeMember(ctx context.Context, actorID *int64, subjectID, userID int64, instructor bool) error {
	role := memberRole(instructor)

	subject, err := s.catalog.GetSubject(ctx, subjectID)
	if err != nil {
		return err
	}

	if err := s.membership.Remove(ctx, role, subjectID, userID); err != nil {
		return err
	}

	display := "Unknown"
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		display = user.DisplayName()
	}

	label := "student"
	if instructor {
		label = "instructor"
	}
	s.activity.Record(ctx, actorID, models.ActionUpdate,
		fmt.Sprintf("Removed %s %s from subject %s", label, display, subject.Name))

	return nil
}

// AssignInstructor attaches a teacher to a subject
func (s *CatalogService) AssignInstructor(ctx context.Context, actorID *int64, subjectID, instructorID int64) error {
	return s.assignMember(ctx, actorID, subjectID, instructorID, true)
}

// RemoveInstructor detaches a teacher from a subject; no-op if absent
func (s *CatalogService) RemoveInstructor(ctx context.Context, actorID *int64, subjectID, instructorID int64) error {
	return s.removeMember(ctx, actorID, subjectID, instructorID, true)
}

// AssignStudent enrolls a student in a subject
func (s *CatalogService) AssignStudent(ctx context.Context, actorID *int64, subjectID, studentID int64) error {
	return s.assignMember(ctx, actorID, subjectID, studentID, false)
}

// RemoveStudent unenrolls a student from a subject; no-op if absent
func (s *CatalogService) RemoveStudent(ctx context.Context, actorID *int64, subjectID, studentID int64) error {
	return s.removeMember(ctx, actorID, subjectID, studentID, false)
}

// ListInstructorsForSubject retrieves the subject's instructors with profiles
func (s *CatalogService) ListInstructorsForSubject(ctx context.Context, subjectID int64) ([]*models.User, error) {
	if _, err := s.catalog.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.membership.ListMembers(ctx, models.RoleTeacher, subjectID)
}

// ListStudentsForSubject retrieves the subject's students with profiles
func (s *CatalogService) ListStudentsForSubject(ctx context.Context, subjectID int64) ([]*models.User, error) {
	if _, err := s.catalog.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.membership.ListMembers(ctx, models.RoleStudent, subjectID)
}
