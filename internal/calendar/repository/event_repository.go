package repository

import (
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// calendarEventRepository implements CalendarEventRepository
type calendarEventRepository struct {
	db        *gorm.DB
	chunkSize int
}

// NewCalendarEventRepository creates a new instance of calendarEventRepository
func NewCalendarEventRepository(db *gorm.DB, chunkSize int) CalendarEventRepository {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	return &calendarEventRepository{
		db:        db,
		chunkSize: chunkSize,
	}
}

func (r *calendarEventRepository) UpsertBatch(events []*caldomain.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "calendar_id"}, {Name: "provider_event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "start_time", "end_time", "all_day",
			"location", "attendee_emails", "organizer_email", "status",
			"sync_source", "last_synced_at",
		}),
	}).CreateInBatches(events, r.chunkSize).Error
}

func (r *calendarEventRepository) ListInRange(calendarID string, timeMin, timeMax time.Time) ([]*caldomain.CalendarEvent, error) {
	var events []*caldomain.CalendarEvent
	err := r.db.Where("calendar_id = ? AND start_time >= ? AND start_time < ?", calendarID, timeMin, timeMax).
		Order("start_time asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *calendarEventRepository) CountForCalendar(calendarID string) (int64, error) {
	var count int64
	err := r.db.Model(&caldomain.CalendarEvent{}).
		Where("calendar_id = ?", calendarID).
		Count(&count).Error
	return count, err
}
