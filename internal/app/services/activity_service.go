package services

import (
	"context"

	"github.com/presentapp/present/internal/app/models"
	"github.com/presentapp/present/internal/pkg/logger"
)

// ActivityRecorder is the side channel mutating operations report to.
// Implementations must be fire-and-forget: a failed write never surfaces
// to the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID *int64, actionType models.ActionType, description string)
}

// activityStore is the persistence surface the activity service needs
type activityStore interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, actionType *models.ActionType, offset uint64, limit int) ([]*models.ActivityLog, int64, error)
}

// ActivityService handles the append-only audit trail
type ActivityService struct {
	store activityStore
}

// NewActivityService creates a new activity service instance
func NewActivityService(store activityStore) *ActivityService {
	return &ActivityService{
		store: store,
	}
}

// Record appends one audit entry. Persistence failures are logged to the
// operational channel and swallowed so the primary operation never aborts
// because the audit trail is unavailable.
func (s *ActivityService) Record(ctx context.Context, actorID *int64, actionType models.ActionType, description string) {
	entry := &models.ActivityLog{
		UserID:      actorID,
		ActionType:  actionType,
		Description: description,
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		logger.Error().Err(err).
			Str("actionType", string(actionType)).
			Str("description", description).
			Msg("Failed to record activity log entry")
	}
}

// List retrieves audit entries, most recent first
func (s *ActivityService) List(ctx context.Context, actionType *models.ActionType, offset uint64, limit int) ([]*models.ActivityLog, int64, error) {
	if actionType != nil && !actionType.Valid() {
		// Unknown filter values match nothing rather than erroring
		return []*models.ActivityLog{}, 0, nil
	}

	return s.store.List(ctx, actionType, offset, limit)
}
