package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDueTime is applied when a task has a due date but no due time.
const DefaultDueTime = "23:59:59"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// CombineDueDateTime combines a due date with an optional "HH:MM:SS" due time.
// A nil or unparseable due time falls back to end of day.
func CombineDueDateTime(dueDate time.Time, dueTime *string) time.Time {
	clock := DefaultDueTime
	if dueTime != nil && *dueTime != "" {
		clock = *dueTime
	}

	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, _ = time.Parse("15:04:05", DefaultDueTime)
	}

	return time.Date(
		dueDate.Year(), dueDate.Month(), dueDate.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		dueDate.Location(),
	)
}
