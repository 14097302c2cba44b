package matcher

import (
	"context"
	"strings"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Contact is the minimal slice of the CRM contact schema the matcher needs.
type Contact struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email" gorm:"index"`
	School    string    `json:"school"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventContactMatch links a synced calendar event to a CRM contact whose
// email appears among the event's participants.
type EventContactMatch struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	CalendarID      string    `json:"calendar_id" gorm:"uniqueIndex:idx_event_contact;not null"`
	ProviderEventID string    `json:"provider_event_id" gorm:"uniqueIndex:idx_event_contact;not null"`
	ContactID       string    `json:"contact_id" gorm:"uniqueIndex:idx_event_contact;not null"`
	MatchedEmail    string    `json:"matched_email"`
	CreatedAt       time.Time `json:"created_at"`
}

// Service matches synced events against CRM contacts by participant email.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// MatchEventsInRange scans events whose start falls in [timeMin, timeMax)
// and records a match row for every (event, contact) pair sharing an email.
// Re-running over the same range is idempotent.
func (s *Service) MatchEventsInRange(ctx context.Context, timeMin, timeMax time.Time, calendarID string) (int, error) {
	var events []caldomain.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("calendar_id = ? AND start_time >= ? AND start_time < ?", calendarID, timeMin, timeMax).
		Find(&events).Error
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	matched := 0
	for _, event := range events {
		emails := make([]string, 0, len(event.AttendeeEmails)+1)
		emails = append(emails, event.AttendeeEmails...)
		if event.OrganizerEmail != "" {
			emails = append(emails, event.OrganizerEmail)
		}

		seen := make(map[string]struct{}, len(emails))
		for _, email := range emails {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" {
				continue
			}
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}

			var contacts []Contact
			if err := s.db.WithContext(ctx).Where("lower(email) = ?", email).Find(&contacts).Error; err != nil {
				return matched, err
			}
			for _, contact := range contacts {
				match := &EventContactMatch{
					ID:              uuid.New().String(),
					CalendarID:      event.CalendarID,
					ProviderEventID: event.ProviderEventID,
					ContactID:       contact.ID,
					MatchedEmail:    email,
					CreatedAt:       time.Now(),
				}
				result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "calendar_id"}, {Name: "provider_event_id"}, {Name: "contact_id"}},
					DoNothing: true,
				}).Create(match)
				if result.Error != nil {
					return matched, result.Error
				}
				if result.RowsAffected > 0 {
					matched++
				}
			}
		}
	}

	return matched, nil
}
