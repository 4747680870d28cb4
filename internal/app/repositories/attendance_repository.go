package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/apperrors"
	"github.com/presentapp/present/internal/pkg/dberrors"
)

// AttendanceRepository handles attendance sessions and per-student marks
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// CreateSession opens a session for a subject on a date
func (r *AttendanceRepository) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	query := `
		INSERT INTO attendance_sessions (subject_id, session_date)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, session.SubjectID, session.Date).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error creating attendance session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID
func (r *AttendanceRepository) GetSession(ctx context.Context, id int64) (*models.AttendanceSession, error) {
	query := `
		SELECT id, subject_id, session_date, created_at
		FROM attendance_sessions
		WHERE id = $1
	`

	var session models.AttendanceSession
	err := r.db.QueryRow(ctx, query, id).Scan(&session.ID, &session.SubjectID, &session.Date, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance session: %w", err)
	}

	return &session, nil
}

// ListSessions retrieves all sessions of a subject, newest first
func (r *AttendanceRepository) ListSessions(ctx context.Context, subjectID int64) ([]*models.AttendanceSession, error) {
	query := `
		SELECT id, subject_id, session_date, created_at
		FROM attendance_sessions
		WHERE subject_id = $1
		ORDER BY session_date DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.AttendanceSession
	for rows.Next() {
		var session models.AttendanceSession
		if err := rows.Scan(&session.ID, &session.SubjectID, &session.Date, &session.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Mark records a student's status within a session. One row per
// (session, student); re-marking overwrites atomically.
func (r *AttendanceRepository) Mark(ctx context.Context, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (session_id, student_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, student_id) DO UPDATE SET
			status = EXCLUDED.status,
			marked_at = NOW()
		RETURNING id, marked_at
	`

	err := r.db.QueryRow(ctx, query, record.SessionID, record.StudentID, record.Status).
		Scan(&record.ID, &record.MarkedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSessionNotFound
		}
		return fmt.Errorf("error marking attendance: %w", err)
	}

	return nil
}

// ListSessionRecords retrieves all marks of a session with student identity
func (r *AttendanceRepository) ListSessionRecords(ctx context.Context, sessionID int64) ([]*models.AttendanceRecord, error) {
	query := `
		SELECT r.id, r.session_id, r.student_id, r.status, r.marked_at,
			u.id, u.username, u.email, u.password_hash, u.role, u.created_at,
			p.user_id, p.first_name, p.middle_name, p.last_name, p.department,
			p.employee_id, p.phone, p.address, p.date_of_birth, p.profile_picture
		FROM attendance_records r
		JOIN users u ON u.id = r.student_id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE r.session_id = $1
		ORDER BY p.last_name NULLS LAST, p.first_name NULLS LAST, u.username
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance records: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		var record models.AttendanceRecord
		var user models.User
		var profile models.Profile
		var profileUserID *int64
		var firstName, lastName *string

		err := rows.Scan(
			&record.ID, &record.SessionID, &record.StudentID, &record.Status, &record.MarkedAt,
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
			&profileUserID, &firstName, &profile.MiddleName, &lastName,
			&profile.Department, &profile.EmployeeID, &profile.Phone, &profile.Address,
			&profile.DateOfBirth, &profile.ProfilePicture,
		)
		if err != nil {
			return nil, err
		}

		if profileUserID != nil {
			profile.UserID = *profileUserID
			if firstName != nil {
				profile.FirstName = *firstName
			}
			if lastName != nil {
				profile.LastName = *lastName
			}
			user.Profile = &profile
		}
		record.Student = &user
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
