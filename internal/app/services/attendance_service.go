package services

import (
	"context"
	"fmt"
	"time"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/app/models/dto"
	"github.com/presentapp/present/internal/pkg/apperrors"
)

// attendanceStore is the persistence surface for roll-call sessions
type attendanceStore interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession) error
	GetSession(ctx context.Context, id int64) (*models.AttendanceSession, error)
	ListSessions(ctx context.Context, subjectID int64) ([]*models.AttendanceSession, error)
	Mark(ctx context.Context, record *models.AttendanceRecord) error
	ListSessionRecords(ctx context.Context, sessionID int64) ([]*models.AttendanceRecord, error)
}

// AttendanceService manages roll-call sessions and per-student marks
type AttendanceService struct {
	store      attendanceStore
	catalog    subjectCatalog
	membership membershipStore
	activity   ActivityRecorder
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(store attendanceStore, catalog subjectCatalog, membership membershipStore, activity ActivityRecorder) *AttendanceService {
	return &AttendanceService{
		store:      store,
		catalog:    catalog,
		membership: membership,
		activity:   activity,
	}
}

// CreateSession opens a roll-call for a subject on a given date
func (s *AttendanceService) CreateSession(ctx context.Context, actorID *int64, req *dto.CreateSessionRequest) (*models.AttendanceSession, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}

	subject, err := s.catalog.GetSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}

	session := &models.AttendanceSession{SubjectID: req.SubjectID, Date: date}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actorID, models.ActionCreate,
		fmt.Sprintf("Opened attendance session for %s on %s", subject.Name, req.Date))

	return session, nil
}

// ListSessions retrieves the sessions of a subject
func (s *AttendanceService) ListSessions(ctx context.Context, subjectID int64) ([]*models.AttendanceSession, error) {
	if _, err := s.catalog.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.store.ListSessions(ctx, subjectID)
}

// Mark records one student's status in a session. Re-marking the same
// student overwrites the previous status.
func (s *AttendanceService) Mark(ctx context.Context, actorID *int64, sessionID int64, req *dto.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	status := models.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown attendance status: %s", req.Status))
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.membership.IsMember(ctx, models.RoleStudent, session.SubjectID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	record := &models.AttendanceRecord{
		SessionID: sessionID,
		StudentID: req.StudentID,
		Status:    status,
	}
	if err := s.store.Mark(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// SessionRecords retrieves all marks of a session with student profiles
func (s *AttendanceService) SessionRecords(ctx context.Context, sessionID int64) ([]*models.AttendanceRecord, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListSessionRecords(ctx, sessionID)
}
