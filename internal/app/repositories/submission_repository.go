package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/db"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

// SubmissionRepository handles folders, submission tasks, student
// attempts and their files.
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
	}
}

// CreateFolder creates a folder under a subject
func (r *SubmissionRepository) CreateFolder(ctx context.Context, folder *models.SubjectFolder) error {
	query := `
		INSERT INTO subject_folders (name, subject_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, folder.Name, folder.SubjectID).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating folder: %w", err)
	}

	return nil
}

// GetFolder retrieves a folder by ID
func (r *SubmissionRepository) GetFolder(ctx context.Context, id int64) (*models.SubjectFolder, error) {
	query := `
		SELECT id, name, subject_id, created_at
		FROM subject_folders
		WHERE id = $1
	`

	var folder models.SubjectFolder
	err := r.db.QueryRow(ctx, query, id).Scan(&folder.ID, &folder.Name, &folder.SubjectID, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFolderNotFound
		}
		return nil, fmt.Errorf("error retrieving folder: %w", err)
	}

	return &folder, nil
}

// ListFolders retrieves all folders of a subject
func (r *SubmissionRepository) ListFolders(ctx context.Context, subjectID int64) ([]*models.SubjectFolder, error) {
	query := `
		SELECT id, name, subject_id, created_at
		FROM subject_folders
		WHERE subject_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.SubjectFolder
	for rows.Next() {
		var folder models.SubjectFolder
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.SubjectID, &folder.CreatedAt); err != nil {
			return nil, err
		}
		folders = append(folders, &folder)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return folders, nil
}

// DeleteFolder removes a folder. Tasks and attempts cascade at the store level.
func (r *SubmissionRepository) DeleteFolder(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subject_folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting folder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFolderNotFound
	}

	return nil
}

// CreateTask creates a gradable submission task under a folder
func (r *SubmissionRepository) CreateTask(ctx context.Context, task *models.SubjectSubmission) error {
	query := `
		INSERT INTO subject_submissions (folder_id, name, description, due_date, due_time, max_attempts, is_visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		task.FolderID, task.Name, task.Description, task.DueDate,
		task.DueTime, task.MaxAttempts, task.IsVisible).
		Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating submission task: %w", err)
	}

	return nil
}

const taskSelectColumns = `id, folder_id, name, description, due_date, due_time, max_attempts, is_visible, created_at`

func scanTask(row pgx.Row) (*models.SubjectSubmission, error) {
	var task models.SubjectSubmission
	err := row.Scan(
		&task.ID, &task.FolderID, &task.Name, &task.Description,
		&task.DueDate, &task.DueTime, &task.MaxAttempts, &task.IsVisible, &task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a submission task by ID
func (r *SubmissionRepository) GetTask(ctx context.Context, id int64) (*models.SubjectSubmission, error) {
	query := `SELECT ` + taskSelectColumns + ` FROM subject_submissions WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("error retrieving submission task: %w", err)
	}

	return task, nil
}

// ListTasksByFolder retrieves tasks in a folder, optionally only visible ones
func (r *SubmissionRepository) ListTasksByFolder(ctx context.Context, folderID int64, visibleOnly bool) ([]*models.SubjectSubmission, error) {
	query := `SELECT ` + taskSelectColumns + ` FROM subject_submissions WHERE folder_id = $1`
	if visibleOnly {
		query += ` AND is_visible`
	}
	query += ` ORDER BY due_date, id`

	rows, err := r.db.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("error listing submission tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.SubjectSubmission
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// SubjectIDForTask resolves the subject owning a task through its folder
func (r *SubmissionRepository) SubjectIDForTask(ctx context.Context, taskID int64) (int64, error) {
	var subjectID int64
	err := r.db.QueryRow(ctx, `
		SELECT f.subject_id
		FROM subject_submissions s
		JOIN subject_folders f ON f.id = s.folder_id
		WHERE s.id = $1`, taskID).Scan(&subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTaskNotFound
		}
		return 0, fmt.Errorf("error resolving subject for task: %w", err)
	}

	return subjectID, nil
}

// CreateAttempt appends a new attempt for (task, student) with its files.
// The whole sequence runs in a transaction: the task row is locked with
// FOR UPDATE so the count-then-insert cannot race past max_attempts.
func (r *SubmissionRepository) CreateAttempt(ctx context.Context, taskID, studentID int64, files []*models.SubmissionFile) (*models.StudentSubmission, error) {
	var attempt *models.StudentSubmission

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var maxAttempts int
		err := tx.QueryRow(ctx, `
			SELECT max_attempts FROM subject_submissions WHERE id = $1 FOR UPDATE`,
			taskID).Scan(&maxAttempts)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrTaskNotFound
			}
			return fmt.Errorf("error locking submission task: %w", err)
		}

		var attemptCount int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM student_submissions WHERE submission_id = $1 AND student_id = $2`,
			taskID, studentID).Scan(&attemptCount)
		if err != nil {
			return fmt.Errorf("error counting attempts: %w", err)
		}

		if attemptCount >= maxAttempts {
			return apperrors.NewAttemptLimitError(
				fmt.Sprintf("maximum of %d attempts reached", maxAttempts))
		}

		created := &models.StudentSubmission{
			SubmissionID:  taskID,
			StudentID:     studentID,
			AttemptNumber: attemptCount + 1,
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO student_submissions (submission_id, student_id, attempt_number)
			VALUES ($1, $2, $3)
			RETURNING id, submitted_at`,
			created.SubmissionID, created.StudentID, created.AttemptNumber).
			Scan(&created.ID, &created.SubmittedAt)
		if err != nil {
			return fmt.Errorf("error inserting attempt: %w", err)
		}

		for _, file := range files {
			file.ParentSubmissionID = created.ID
			err = tx.QueryRow(ctx, `
				INSERT INTO submission_files (parent_submission_id, file_name, file_type, file_url)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				file.ParentSubmissionID, file.FileName, file.FileType, file.FileURL).
				Scan(&file.ID)
			if err != nil {
				return fmt.Errorf("error inserting submission file: %w", err)
			}
		}
		created.Files = files

		attempt = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return attempt, nil
}

const attemptSelectColumns = `id, submission_id, student_id, attempt_number, submitted_at, grade, feedback, graded_at`

func scanAttempt(row pgx.Row) (*models.StudentSubmission, error) {
	var attempt models.StudentSubmission
	err := row.Scan(
		&attempt.ID, &attempt.SubmissionID, &attempt.StudentID, &attempt.AttemptNumber,
		&attempt.SubmittedAt, &attempt.Grade, &attempt.Feedback, &attempt.GradedAt,
	)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// GetAttempt retrieves one attempt by ID
func (r *SubmissionRepository) GetAttempt(ctx context.Context, id int64) (*models.StudentSubmission, error) {
	query := `SELECT ` + attemptSelectColumns + ` FROM student_submissions WHERE id = $1`

	attempt, err := scanAttempt(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("error retrieving attempt: %w", err)
	}

	return attempt, nil
}

// ListAttempts retrieves attempts for a task, oldest first. When studentID
// is non-nil only that student's attempts are returned.
func (r *SubmissionRepository) ListAttempts(ctx context.Context, taskID int64, studentID *int64) ([]*models.StudentSubmission, error) {
	query := `SELECT ` + attemptSelectColumns + ` FROM student_submissions WHERE submission_id = $1`
	args := []interface{}{taskID}
	if studentID != nil {
		query += ` AND student_id = $2`
		args = append(args, *studentID)
	}
	query += ` ORDER BY attempt_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.StudentSubmission
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(attempts) > 0 {
		if err := r.attachFiles(ctx, attempts); err != nil {
			return nil, err
		}
	}

	return attempts, nil
}

// attachFiles loads submission files for a batch of attempts
func (r *SubmissionRepository) attachFiles(ctx context.Context, attempts []*models.StudentSubmission) error {
	index := make(map[int64]*models.StudentSubmission, len(attempts))
	ids := make([]int64, 0, len(attempts))
	for _, a := range attempts {
		index[a.ID] = a
		ids = append(ids, a.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, parent_submission_id, file_name, file_type, file_url
		FROM submission_files
		WHERE parent_submission_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("error listing submission files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var file models.SubmissionFile
		if err := rows.Scan(&file.ID, &file.ParentSubmissionID, &file.FileName, &file.FileType, &file.FileURL); err != nil {
			return err
		}
		if attempt, ok := index[file.ParentSubmissionID]; ok {
			attempt.Files = append(attempt.Files, &file)
		}
	}

	return rows.Err()
}

// Grade sets grade, feedback and graded_at on an attempt
func (r *SubmissionRepository) Grade(ctx context.Context, attemptID int64, grade float64, feedback string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE student_submissions
		SET grade = $1, feedback = $2, graded_at = NOW()
		WHERE id = $3`,
		grade, feedback, attemptID)
	if err != nil {
		return fmt.Errorf("error grading attempt: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAttemptNotFound
	}

	return nil
}
