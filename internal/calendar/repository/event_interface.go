package repository

import (
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

// CalendarEventRepository persists normalized calendar events.
type CalendarEventRepository interface {
	// UpsertBatch inserts or overwrites events keyed by
	// (calendar_id, provider_event_id). Idempotent: re-covering the same
	// ground after a restart produces no duplicates.
	UpsertBatch(events []*caldomain.CalendarEvent) error
	// ListInRange returns events whose start falls in [timeMin, timeMax).
	ListInRange(calendarID string, timeMin, timeMax time.Time) ([]*caldomain.CalendarEvent, error)
	// CountForCalendar reports how many events are stored for a calendar.
	CountForCalendar(calendarID string) (int64, error)
}
