package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presentapp/present/internal/app/models"
)

// ActivityLogRepository handles the append-only audit trail
type ActivityLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends one audit row
func (r *ActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action_type, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, entry.UserID, entry.ActionType, entry.Description).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting activity log: %w", err)
	}

	return nil
}

// List retrieves audit entries, most recent first, optionally filtered by
// action type. The actor display name is resolved in the query: profile
// full name, else username, else "System" for a null actor.
func (r *ActivityLogRepository) List(ctx context.Context, actionType *models.ActionType, offset uint64, limit int) ([]*models.ActivityLog, int64, error) {
	baseSelect := r.sb.Select(
		"a.id", "a.user_id", "a.action_type", "a.description", "a.created_at",
		"COALESCE(NULLIF(TRIM(COALESCE(p.first_name, '') || ' ' || COALESCE(p.last_name, '')), ''), u.username, 'System') AS actor_name",
	).
		From("activity_logs a").
		LeftJoin("users u ON u.id = a.user_id").
		LeftJoin("profiles p ON p.user_id = u.id")

	countSelect := r.sb.Select("COUNT(*)").From("activity_logs a")

	if actionType != nil {
		baseSelect = baseSelect.Where(squirrel.Eq{"a.action_type": *actionType})
		countSelect = countSelect.Where(squirrel.Eq{"a.action_type": *actionType})
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count activity logs query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	baseSelect = baseSelect.OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(limit)).
		Offset(offset)

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list activity logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ActionType, &entry.Description, &entry.CreatedAt, &entry.ActorName); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, totalItems, nil
}
