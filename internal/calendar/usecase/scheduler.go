package usecase

import (
	"context"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

// nextWorkItem decides the single next month to sync, or nil when caught
// up. Deterministic given the same progress rows. Priority order:
//
//  1. repair: the chronologically earliest month left in error or
//     in_progress (the latter means a prior run died mid-fetch);
//  2. gap fill: the month after the most recent completed/partial month,
//     as long as it is not in the future;
//  3. cold start: no rows yet, seed from the earliest provider event
//     (current month when none is discoverable);
//  4. staleness refresh: the current month's partial row, once its
//     updated_at is older than the refresh interval.
//
// Repair outranks forward progress, and forward progress outranks
// re-polling the live month, so a backlog is always backfilled first.
func (u *calendarSyncUsecase) nextWorkItem(ctx context.Context, userID, calendarID string) (*caldomain.SyncWorkItem, error) {
	months, err := u.progressRepo.ListMonths(userID)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	curYear, curMonth := now.Year(), int(now.Month())

	// Repair across all of the user's calendars, earliest month first.
	var repair *caldomain.MonthSyncProgress
	for _, m := range months {
		if m.SyncStatus != caldomain.MonthStatusError && m.SyncStatus != caldomain.MonthStatusInProgress {
			continue
		}
		if repair == nil || monthBefore(m.Year, m.Month, repair.Year, repair.Month) {
			repair = m
		}
	}
	if repair != nil {
		return &caldomain.SyncWorkItem{CalendarID: repair.CalendarID, Year: repair.Year, Month: repair.Month}, nil
	}

	// Forward fill is per the calendar this run targets.
	var latest *caldomain.MonthSyncProgress
	calendarHasRows := false
	for _, m := range months {
		if m.CalendarID != calendarID {
			continue
		}
		calendarHasRows = true
		if m.SyncStatus != caldomain.MonthStatusCompleted && m.SyncStatus != caldomain.MonthStatusPartial {
			continue
		}
		if latest == nil || monthBefore(latest.Year, latest.Month, m.Year, m.Month) {
			latest = m
		}
	}

	if latest == nil {
		if calendarHasRows {
			// Rows exist but none ever finished a pass; nothing to anchor a gap
			// fill on, and repair found nothing, so the calendar is caught up.
			return nil, nil
		}
		// Cold start: seed from the earliest known event when discoverable.
		start, ok, err := u.events.EarliestEventStart(ctx, userID, calendarID)
		if err != nil {
			return nil, err
		}
		if ok {
			start = start.UTC()
			return &caldomain.SyncWorkItem{CalendarID: calendarID, Year: start.Year(), Month: int(start.Month())}, nil
		}
		return &caldomain.SyncWorkItem{CalendarID: calendarID, Year: curYear, Month: curMonth}, nil
	}

	nextYear, nextMonth := monthAfter(latest.Year, latest.Month)
	if !monthBefore(curYear, curMonth, nextYear, nextMonth) {
		// Still at or behind the current real-world month: due for a first sync.
		return &caldomain.SyncWorkItem{CalendarID: calendarID, Year: nextYear, Month: nextMonth}, nil
	}

	// History is closed out. The only remaining candidate is the current
	// month's partial row, and only once it has gone stale.
	for _, m := range months {
		if m.CalendarID != calendarID || m.Year != curYear || m.Month != curMonth {
			continue
		}
		if m.SyncStatus == caldomain.MonthStatusPartial && now.Sub(m.UpdatedAt) > u.cfg.SyncRefreshInterval {
			return &caldomain.SyncWorkItem{CalendarID: calendarID, Year: curYear, Month: curMonth}, nil
		}
	}

	return nil, nil
}

// monthBefore reports whether (y1,m1) is strictly earlier than (y2,m2).
func monthBefore(y1, m1, y2, m2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}

func monthAfter(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}
