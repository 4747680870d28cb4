package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

// levelTables maps each hierarchy level to its table and name column.
// The school year's label column is "year"; every other level uses "name".
var levelTables = map[models.CatalogLevel]struct {
	table      string
	nameColumn string
	notFound   error
}{
	models.LevelYear:       {"school_years", "year", apperrors.ErrSchoolYearNotFound},
	models.LevelSemester:   {"semesters", "name", apperrors.ErrSemesterNotFound},
	models.LevelGradeLevel: {"grade_levels", "name", apperrors.ErrGradeLevelNotFound},
	models.LevelSection:    {"sections", "name", apperrors.ErrSectionNotFound},
	models.LevelSubject:    {"subjects", "name", apperrors.ErrSubjectNotFound},
}

// CatalogRepository handles database operations for the five-level
// school year hierarchy.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

// CreateSchoolYear creates a new school year
func (r *CatalogRepository) CreateSchoolYear(ctx context.Context, schoolYear *models.SchoolYear) error {
	query := `
		INSERT INTO school_years (year)
		VALUES ($1)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, schoolYear.Year).Scan(&schoolYear.ID)
	if err != nil {
		return fmt.Errorf("error creating school year: %w", err)
	}

	return nil
}

// CreateSemester creates a semester under a school year
func (r *CatalogRepository) CreateSemester(ctx context.Context, semester *models.Semester) error {
	query := `
		INSERT INTO semesters (name, school_year_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, semester.Name, semester.SchoolYearID).Scan(&semester.ID)
	if err != nil {
		return fmt.Errorf("error creating semester: %w", err)
	}

	return nil
}

// CreateGradeLevel creates a grade level under a semester
func (r *CatalogRepository) CreateGradeLevel(ctx context.Context, gradeLevel *models.GradeLevel) error {
	query := `
		INSERT INTO grade_levels (name, semester_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, gradeLevel.Name, gradeLevel.SemesterID).Scan(&gradeLevel.ID)
	if err != nil {
		return fmt.Errorf("error creating grade level: %w", err)
	}

	return nil
}

// CreateSection creates a section under a grade level
func (r *CatalogRepository) CreateSection(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (name, grade_level_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, section.Name, section.GradeLevelID).Scan(&section.ID)
	if err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

// CreateSubject creates a subject under a section
func (r *CatalogRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (name, code, section_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, subject.Name, subject.Code, subject.SectionID).Scan(&subject.ID)
	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetEntityName returns the current display name of a node at the given level
func (r *CatalogRepository) GetEntityName(ctx context.Context, level models.CatalogLevel, id int64) (string, error) {
	meta, ok := levelTables[level]
	if !ok {
		return "", fmt.Errorf("unknown catalog level: %s", level)
	}

	var name string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, meta.nameColumn, meta.table)
	err := r.db.QueryRow(ctx, query, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", meta.notFound
		}
		return "", fmt.Errorf("error retrieving %s name: %w", level, err)
	}

	return name, nil
}

// Rename updates the display name of a node at the given level
func (r *CatalogRepository) Rename(ctx context.Context, level models.CatalogLevel, id int64, newName string) error {
	meta, ok := levelTables[level]
	if !ok {
		return fmt.Errorf("unknown catalog level: %s", level)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, meta.table, meta.nameColumn)
	cmdTag, err := r.db.Exec(ctx, query, newName, id)
	if err != nil {
		return fmt.Errorf("error renaming %s: %w", level, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return meta.notFound
	}

	return nil
}

// Delete removes a node at the given level. Descendant rows are removed
// by the store's ON DELETE CASCADE constraints.
func (r *CatalogRepository) Delete(ctx context.Context, level models.CatalogLevel, id int64) error {
	meta, ok := levelTables[level]
	if !ok {
		return fmt.Errorf("unknown catalog level: %s", level)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, meta.table)
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", level, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return meta.notFound
	}

	return nil
}

// Exists checks that a node exists at the given level
func (r *CatalogRepository) Exists(ctx context.Context, level models.CatalogLevel, id int64) (bool, error) {
	meta, ok := levelTables[level]
	if !ok {
		return false, fmt.Errorf("unknown catalog level: %s", level)
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, meta.table)
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking %s existence: %w", level, err)
	}

	return exists, nil
}

// GetSubject retrieves a subject by ID
func (r *CatalogRepository) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	query := `
		SELECT id, name, code, section_id
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Code,
		&subject.SectionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// ListSchoolYears retrieves all school years ordered by label
func (r *CatalogRepository) ListSchoolYears(ctx context.Context) ([]*models.SchoolYear, error) {
	query := `
		SELECT id, year
		FROM school_years
		ORDER BY year
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing school years: %w", err)
	}
	defer rows.Close()

	var years []*models.SchoolYear
	for rows.Next() {
		var year models.SchoolYear
		if err := rows.Scan(&year.ID, &year.Year); err != nil {
			return nil, err
		}
		years = append(years, &year)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}

// ListTree loads the whole hierarchy as normalized flat rows and assembles
// it with parent-id indices, rather than nested per-parent queries.
func (r *CatalogRepository) ListTree(ctx context.Context) ([]*models.SchoolYear, error) {
	years, err := r.ListSchoolYears(ctx)
	if err != nil {
		return nil, err
	}

	yearIndex := make(map[int64]*models.SchoolYear, len(years))
	for _, y := range years {
		yearIndex[y.ID] = y
	}

	semesterIndex := make(map[int64]*models.Semester)
	rows, err := r.db.Query(ctx, `SELECT id, name, school_year_id FROM semesters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Semester
		if err := rows.Scan(&s.ID, &s.Name, &s.SchoolYearID); err != nil {
			return nil, err
		}
		semesterIndex[s.ID] = &s
		if parent, ok := yearIndex[s.SchoolYearID]; ok {
			parent.Semesters = append(parent.Semesters, &s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	gradeLevelIndex := make(map[int64]*models.GradeLevel)
	rows, err = r.db.Query(ctx, `SELECT id, name, semester_id FROM grade_levels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing grade levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g models.GradeLevel
		if err := rows.Scan(&g.ID, &g.Name, &g.SemesterID); err != nil {
			return nil, err
		}
		gradeLevelIndex[g.ID] = &g
		if parent, ok := semesterIndex[g.SemesterID]; ok {
			parent.GradeLevels = append(parent.GradeLevels, &g)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sectionIndex := make(map[int64]*models.Section)
	rows, err = r.db.Query(ctx, `SELECT id, name, grade_level_id FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Name, &s.GradeLevelID); err != nil {
			return nil, err
		}
		sectionIndex[s.ID] = &s
		if parent, ok := gradeLevelIndex[s.GradeLevelID]; ok {
			parent.Sections = append(parent.Sections, &s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `SELECT id, name, code, section_id FROM subjects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.SectionID); err != nil {
			return nil, err
		}
		if parent, ok := sectionIndex[s.SectionID]; ok {
			parent.Subjects = append(parent.Subjects, &s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}
