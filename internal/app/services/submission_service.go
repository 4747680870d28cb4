package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/helpers"
)

// submissionStore is the persistence surface for folders, tasks and attempts
type submissionStore interface {
	CreateFolder(ctx context.Context, folder *models.SubjectFolder) error
	GetFolder(ctx context.Context, id int64) (*models.SubjectFolder, error)
	ListFolders(ctx context.Context, subjectID int64) ([]*models.SubjectFolder, error)
	DeleteFolder(ctx context.Context, id int64) error
	CreateTask(ctx context.Context, task *models.SubjectSubmission) error
	GetTask(ctx context.Context, id int64) (*models.SubjectSubmission, error)
	ListTasksByFolder(ctx context.Context, folderID int64, visibleOnly bool) ([]*models.SubjectSubmission, error)
	SubjectIDForTask(ctx context.Context, taskID int64) (int64, error)
	CreateAttempt(ctx context.Context, taskID, studentID int64, files []*models.SubmissionFile) (*models.StudentSubmission, error)
	GetAttempt(ctx context.Context, id int64) (*models.StudentSubmission, error)
	ListAttempts(ctx context.Context, taskID int64, studentID *int64) ([]*models.StudentSubmission, error)
	Grade(ctx context.Context, attemptID int64, grade float64, feedback string) error
}

// subjectCatalog is the slice of the catalog needed by the submission workflow
type subjectCatalog interface {
	Exists(ctx context.Context, level models.CatalogLevel, id int64) (bool, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
}

// SubmissionService implements the folder/task/attempt workflow
type SubmissionService struct {
	store      submissionStore
	catalog    subjectCatalog
	membership membershipStore
	users      userResolver
	activity   ActivityRecorder
}

// NewSubmissionService creates a new submission service instance
func NewSubmissionService(store submissionStore, catalog subjectCatalog, membership membershipStore, users userResolver, activity ActivityRecorder) *SubmissionService {
	return &SubmissionService{
		store:      store,
		catalog:    catalog,
		membership: membership,
		users:      users,
		activity:   activity,
	}
}

// CreateFolder creates a folder under an existing subject
func (s *SubmissionService) CreateFolder(ctx context.Context, actorID *int64, subjectID int64, name string) (*models.SubjectFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("folder name must not be blank")
	}

	exists, err := s.catalog.Exists(ctx, models.LevelSubject, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSubjectNotFound
	}

	folder := &models.SubjectFolder{Name: name, SubjectID: subjectID}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new folder: %s", name))

	return folder, nil
}

// ListFolders retrieves all folders of a subject
func (s *SubmissionService) ListFolders(ctx context.Context, subjectID int64) ([]*models.SubjectFolder, error) {
	exists, err := s.catalog.Exists(ctx, models.LevelSubject, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSubjectNotFound
	}

	return s.store.ListFolders(ctx, subjectID)
}

// DeleteFolder removes a folder and everything under it
func (s *SubmissionService) DeleteFolder(ctx context.Context, actorID *int64, folderID int64) error {
	folder, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteFolder(ctx, folderID); err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, models.ActionDelete,
		fmt.Sprintf("Deleted folder: %s", folder.Name))

	return nil
}

// CreateTask creates a gradable submission task under an existing folder
func (s *SubmissionService) CreateTask(ctx context.Context, actorID *int64, req *dto.CreateTaskRequest) (*models.SubjectSubmission, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("task name must not be blank")
	}
	if req.MaxAttempts < 1 {
		return nil, apperrors.NewValidationError("maxAttempts must be at least 1")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, apperrors.NewValidationError("dueDate must be in YYYY-MM-DD format")
	}
	if req.DueTime != nil {
		if _, err := time.Parse("15:04:05", *req.DueTime); err != nil {
			return nil, apperrors.NewValidationError("dueTime must be in HH:MM:SS format")
		}
	}

	if _, err := s.store.GetFolder(ctx, req.FolderID); err != nil {
		return nil, err
	}

	task := &models.SubjectSubmission{
		FolderID:    req.FolderID,
		Name:        name,
		Description: req.Description,
		DueDate:     dueDate,
		DueTime:     req.DueTime,
		MaxAttempts: req.MaxAttempts,
		IsVisible:   req.IsVisible,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Created new submission: %s", name))

	return task, nil
}

// GetTask retrieves a single task
func (s *SubmissionService) GetTask(ctx context.Context, taskID int64) (*models.SubjectSubmission, error) {
	return s.store.GetTask(ctx, taskID)
}

// ListTasks retrieves the tasks of a folder. Students only see visible tasks.
func (s *SubmissionService) ListTasks(ctx context.Context, folderID int64, studentView bool) ([]*models.SubjectSubmission, error) {
	if _, err := s.store.GetFolder(ctx, folderID); err != nil {
		return nil, err
	}
	return s.store.ListTasksByFolder(ctx, folderID, studentView)
}

// SubmitAttempt records one student attempt. The student must be enrolled in
// the task's subject and under the task's attempt cap; submission past the
// due date is allowed as long as attempts remain.
func (s *SubmissionService) SubmitAttempt(ctx context.Context, studentID int64, taskID int64, req *dto.SubmitAttemptRequest) (*models.StudentSubmission, error) {
	if len(req.Files) == 0 {
		return nil, apperrors.NewValidationError("at least one file is required")
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsVisible {
		return nil, apperrors.ErrTaskNotFound
	}

	subjectID, err := s.store.SubjectIDForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.membership.IsMember(ctx, models.RoleStudent, subjectID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	files := make([]*models.SubmissionFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, &models.SubmissionFile{
			FileName: f.FileName,
			FileType: f.FileType,
			FileURL:  f.FileURL,
		})
	}

	attempt, err := s.store.CreateAttempt(ctx, taskID, studentID, files)
	if err != nil {
		return nil, err
	}

	display := "Unknown"
	if user, err := s.users.GetByID(ctx, studentID); err == nil {
		display = user.DisplayName()
	}
	s.activity.Record(ctx, &studentID, models.ActionSubmission,
		fmt.Sprintf("%s submitted attempt %d for %s", display, attempt.AttemptNumber, task.Name))

	return attempt, nil
}

// ListAttemptsForTask retrieves every attempt against a task, for instructors
func (s *SubmissionService) ListAttemptsForTask(ctx context.Context, taskID int64) ([]*models.StudentSubmission, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.ListAttempts(ctx, taskID, nil)
}

// ListOwnAttempts retrieves a student's own attempts against a task
func (s *SubmissionService) ListOwnAttempts(ctx context.Context, taskID, studentID int64) ([]*models.StudentSubmission, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.ListAttempts(ctx, taskID, &studentID)
}

// GradeAttempt sets the grade and feedback on one attempt
func (s *SubmissionService) GradeAttempt(ctx context.Context, actorID *int64, attemptID int64, req *dto.GradeAttemptRequest) (*models.StudentSubmission, error) {
	if req.Grade == nil || *req.Grade < 0 || *req.Grade > 100 {
		return nil, apperrors.NewValidationError("grade must be between 0 and 100")
	}

	attempt, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Grade(ctx, attemptID, *req.Grade, req.Feedback); err != nil {
		return nil, err
	}

	task, err := s.store.GetTask(ctx, attempt.SubmissionID)
	if err != nil {
		return nil, err
	}

	display := "Unknown"
	if user, err := s.users.GetByID(ctx, attempt.StudentID); err == nil {
		display = user.DisplayName()
	}
	s.activity.Record(ctx, actorID, models.ActionUpdate,
		fmt.Sprintf("Graded attempt %d of %s for %s", attempt.AttemptNumber, task.Name, display))

	return s.store.GetAttempt(ctx, attemptID)
}

// DeriveStatus computes the status of a task for one student from the
// student's attempts. The latest attempt wins: graded beats submitted, a
// missing attempt past the effective deadline is overdue.
func DeriveStatus(task *models.SubjectSubmission, attempts []*models.StudentSubmission, now time.Time) models.SubmissionStatus {
	var latest *models.StudentSubmission
	for _, a := range attempts {
		if latest == nil || a.AttemptNumber > latest.AttemptNumber {
			latest = a
		}
	}

	if latest != nil {
		if latest.IsGraded() {
			return models.StatusGraded
		}
		return models.StatusSubmitted
	}

	deadline := helpers.CombineDueDateTime(task.DueDate, task.DueTime)
	if now.After(deadline) {
		return models.StatusOverdue
	}
	return models.StatusNotSubmitted
}

// TaskStatusForStudent builds the enriched view of one task for a student
func (s *SubmissionService) TaskStatusForStudent(ctx context.Context, taskID, studentID int64) (*dto.TaskStatusResponse, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.store.ListAttempts(ctx, taskID, &studentID)
	if err != nil {
		return nil, err
	}

	return buildTaskStatus(task, attempts, time.Now()), nil
}

// TaskStatusesForStudent builds the enriched view of every visible task in a
// folder for a student.
func (s *SubmissionService) TaskStatusesForStudent(ctx context.Context, folderID, studentID int64) ([]*dto.TaskStatusResponse, error) {
	tasks, err := s.ListTasks(ctx, folderID, true)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statuses := make([]*dto.TaskStatusResponse, 0, len(tasks))
	for _, task := range tasks {
		attempts, err := s.store.ListAttempts(ctx, task.ID, &studentID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, buildTaskStatus(task, attempts, now))
	}

	return statuses, nil
}

func buildTaskStatus(task *models.SubjectSubmission, attempts []*models.StudentSubmission, now time.Time) *dto.TaskStatusResponse {
	var latest *models.StudentSubmission
	for _, a := range attempts {
		if latest == nil || a.AttemptNumber > latest.AttemptNumber {
			latest = a
		}
	}

	return &dto.TaskStatusResponse{
		ID:            task.ID,
		FolderID:      task.FolderID,
		Name:          task.Name,
		Description:   task.Description,
		DueDate:       task.DueDate,
		DueTime:       task.DueTime,
		MaxAttempts:   task.MaxAttempts,
		Status:        DeriveStatus(task, attempts, now),
		CanSubmit:     len(attempts) < task.MaxAttempts,
		AttemptCount:  len(attempts),
		LatestAttempt: latest,
	}
}
