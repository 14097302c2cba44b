package domain

import "time"

// CalendarEvent is the normalized local projection of a provider event,
// keyed by (calendar_id, provider_event_id). The provider is the system of
// record, so local writes are always last-write-wins overwrites.
type CalendarEvent struct {
	CalendarID      string    `json:"calendar_id" gorm:"primaryKey"`
	ProviderEventID string    `json:"provider_event_id" gorm:"primaryKey"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" gorm:"index"`
	EndTime         time.Time `json:"end_time"`
	AllDay          bool      `json:"all_day"`
	Location        string    `json:"location"`
	AttendeeEmails  []string  `json:"attendee_emails" gorm:"serializer:json"`
	OrganizerEmail  string    `json:"organizer_email"`
	Status          string    `json:"status"`
	SyncSource      string    `json:"sync_source"`
	LastSyncedAt    time.Time `json:"last_synced_at"`
}

// CalendarInfo is a provider calendar-list entry surfaced to staff so they
// can choose which calendar to sync.
type CalendarInfo struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Primary bool   `json:"primary"`
}
