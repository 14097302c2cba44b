package domain

import "time"

// Overall sync status values. "running" always carries the run id of the
// one active drive loop; a second start while running is refused.
const (
	SyncStatusNotStarted = "not_started"
	SyncStatusRunning    = "running"
	SyncStatusPaused     = "paused"
	SyncStatusCompleted  = "completed"
	SyncStatusError      = "error"
)

// Month sync status values. "partial" is terminal-but-revisitable and is
// reserved for the current real-world month, which may still receive new
// events. Every other month that reaches "completed" is immutable history.
const (
	MonthStatusNotStarted = "not_started"
	MonthStatusInProgress = "in_progress"
	MonthStatusPartial    = "partial"
	MonthStatusCompleted  = "completed"
	MonthStatusError      = "error"
)

// OverallSyncProgress is the single per-user row owned by the sync
// controller. It is the source of truth for whether a drive loop is active.
type OverallSyncProgress struct {
	UserID       string     `json:"user_id" gorm:"primaryKey"`
	Status       string     `json:"status" gorm:"not null;default:not_started"`
	CurrentRunID string     `json:"current_run_id"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage string     `json:"error_message"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MonthSyncProgress tracks one (user, calendar, year, month) work item.
// Rows are created lazily the first time the scheduler selects that month.
type MonthSyncProgress struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"uniqueIndex:idx_user_cal_month;not null"`
	CalendarID   string     `json:"calendar_id" gorm:"uniqueIndex:idx_user_cal_month;not null"`
	Year         int        `json:"year" gorm:"uniqueIndex:idx_user_cal_month;not null"`
	Month        int        `json:"month" gorm:"uniqueIndex:idx_user_cal_month;not null"`
	SyncStatus   string     `json:"sync_status" gorm:"not null;default:not_started"`
	EventsSynced int        `json:"events_synced"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ErrorMessage string     `json:"error_message"`
}

// SyncWorkItem is the single unit of work the scheduler hands the worker.
type SyncWorkItem struct {
	CalendarID string `json:"calendar_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

// MonthSyncResult is the worker's structured return value. The worker never
// lets an error escape its boundary; the controller reads Status instead.
type MonthSyncResult struct {
	Status       string `json:"status"`
	EventsSynced int    `json:"events_synced"`
	ErrorMessage string `json:"error_message,omitempty"`
}
