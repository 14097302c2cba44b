package repository

import (
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

// SyncProgressRepository persists the overall and per-month progress rows.
// These rows are the only state that survives between invocations of the
// drive loop.
type SyncProgressRepository interface {
	// GetOverall returns the user's overall row, or nil when none exists.
	GetOverall(userID string) (*caldomain.OverallSyncProgress, error)
	// SaveOverall upserts the overall row.
	SaveOverall(progress *caldomain.OverallSyncProgress) error
	// TryMarkRunning flips the overall row to running with a fresh run id,
	// but only if it is not already running. Returns false when another run
	// holds the row (conditional update, not a distributed lock).
	TryMarkRunning(userID, runID string, startedAt time.Time) (bool, error)
	// ListMonths returns every month row for the user, across calendars.
	ListMonths(userID string) ([]*caldomain.MonthSyncProgress, error)
	// GetMonth returns one month row, or nil when none exists.
	GetMonth(userID, calendarID string, year, month int) (*caldomain.MonthSyncProgress, error)
	// SaveMonth upserts a month row, refreshing updated_at.
	SaveMonth(progress *caldomain.MonthSyncProgress) error
}
