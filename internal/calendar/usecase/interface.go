package usecase

import (
	"context"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

// CalendarSyncUsecase is the surface the HTTP layer calls. Every operation
// is idempotent or safely repeatable; long-running work is detached and
// observed through the progress rows, not the synchronous response.
type CalendarSyncUsecase interface {
	// GetAuthURL returns the provider consent URL for the user.
	GetAuthURL(userID string) string
	// ExchangeCode completes the OAuth code exchange and persists the credential.
	ExchangeCode(ctx context.Context, userID, code string) error
	// ConnectionStatus probes whether the stored credential is valid and
	// carries the calendar scope.
	ConnectionStatus(ctx context.Context, userID string) (*ConnectionStatus, error)
	// ListCalendars returns the user's provider calendar list.
	ListCalendars(ctx context.Context, userID string) ([]*caldomain.CalendarInfo, error)
	// StartSync begins the drive loop for one calendar (default primary) and
	// returns immediately. A no-op when a run is already active.
	StartSync(ctx context.Context, userID, calendarID string) (*StartSyncResult, error)
	// PauseSync asks the active drive loop to stop before its next work item.
	PauseSync(userID string) error
	// Progress reports the overall row plus all month rows for operators.
	Progress(userID string) (*ProgressReport, error)
}

// EventSource is the paginated provider fetch the worker consumes. Events
// come back already normalized to the storage row shape.
type EventSource interface {
	ListEventsPage(ctx context.Context, userID, calendarID string, timeMin, timeMax time.Time, pageToken string) ([]*caldomain.CalendarEvent, string, error)
	EarliestEventStart(ctx context.Context, userID, calendarID string) (time.Time, bool, error)
}

// Matcher links synced events to CRM records after a month completes.
// Best-effort: failures are logged and never change the month's status.
type Matcher interface {
	MatchEventsInRange(ctx context.Context, timeMin, timeMax time.Time, calendarID string) (int, error)
}

// ConsoleSink receives fire-and-forget progress narration keyed by
// (user, run). It must never affect control flow.
type ConsoleSink interface {
	Narrate(userID, runID, message string)
}

type StartSyncResult struct {
	RunID          string `json:"run_id"`
	Status         string `json:"status"`
	AlreadyRunning bool   `json:"already_running"`
}

type ConnectionStatus struct {
	Connected   bool   `json:"connected"`
	NeedsReauth bool   `json:"needs_reauth"`
	Reason      string `json:"reason,omitempty"`
}

type ProgressReport struct {
	Overall *caldomain.OverallSyncProgress `json:"overall"`
	Months  []*caldomain.MonthSyncProgress `json:"months"`
}
