package models

import "time"

// ActivityLog is an append-only audit entry. A nil UserID denotes a
// system action.
type ActivityLog struct {
	ID          int64      `json:"id" db:"id"`
	UserID      *int64     `json:"userId,omitempty" db:"user_id"`
	ActionType  ActionType `json:"actionType" db:"action_type"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	ActorName string `json:"actorName,omitempty"` // Resolved at read time, no db tag
}
