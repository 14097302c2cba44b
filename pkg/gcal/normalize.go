package gcal

import (
	"strings"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"google.golang.org/api/calendar/v3"
)

// PlaceholderTitle is stored for events without a summary so display code
// never has to deal with a null title.
const PlaceholderTitle = "(No title)"

const syncSource = "google_calendar"

// NormalizeEvent converts a provider event into the local storage row.
// Pure: same input, same output (modulo the syncedAt stamp the caller
// supplies).
func NormalizeEvent(item *calendar.Event, calendarID string, syncedAt time.Time) *caldomain.CalendarEvent {
	// An event with no explicit start time field is an all-day event; the
	// provider then populates the date-only field instead.
	allDay := item.Start == nil || item.Start.DateTime == ""

	title := strings.TrimSpace(item.Summary)
	if title == "" {
		title = PlaceholderTitle
	}

	status := item.Status
	if status == "" {
		status = "confirmed"
	}

	var organizerEmail string
	if item.Organizer != nil {
		organizerEmail = item.Organizer.Email
	}

	attendees := make([]string, 0, len(item.Attendees))
	for _, attendee := range item.Attendees {
		if attendee == nil || attendee.Email == "" {
			continue
		}
		attendees = append(attendees, attendee.Email)
	}

	return &caldomain.CalendarEvent{
		CalendarID:      calendarID,
		ProviderEventID: item.Id,
		Title:           title,
		Description:     item.Description,
		StartTime:       eventStartTime(item),
		EndTime:         eventEndTime(item),
		AllDay:          allDay,
		Location:        item.Location,
		AttendeeEmails:  attendees,
		OrganizerEmail:  organizerEmail,
		Status:          status,
		SyncSource:      syncSource,
		LastSyncedAt:    syncedAt,
	}
}

func eventStartTime(item *calendar.Event) time.Time {
	if item.Start == nil {
		return time.Time{}
	}
	return parseEventTime(item.Start)
}

func eventEndTime(item *calendar.Event) time.Time {
	if item.End == nil {
		return time.Time{}
	}
	return parseEventTime(item.End)
}

func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
		return time.Time{}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
