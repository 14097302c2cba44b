package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"github.com/google/uuid"
)

// syncMonth fetches every page of one month, flushing the write buffer in
// small batches so progress is durable even mid-page, then finalizes the
// month row. The current real-world month lands in "partial" instead of
// "completed" because it may still receive new events. Errors never escape:
// the result carries them back to the controller.
func (u *calendarSyncUsecase) syncMonth(ctx context.Context, userID, runID string, item *caldomain.SyncWorkItem) *caldomain.MonthSyncResult {
	row, err := u.progressRepo.GetMonth(userID, item.CalendarID, item.Year, item.Month)
	if err != nil {
		return &caldomain.MonthSyncResult{Status: caldomain.MonthStatusError, ErrorMessage: err.Error()}
	}
	if row == nil {
		row = &caldomain.MonthSyncProgress{
			ID:         uuid.New().String(),
			UserID:     userID,
			CalendarID: item.CalendarID,
			Year:       item.Year,
			Month:      item.Month,
		}
	}

	startedAt := u.now()
	row.SyncStatus = caldomain.MonthStatusInProgress
	row.EventsSynced = 0
	row.StartedAt = &startedAt
	row.ErrorMessage = ""
	if err := u.progressRepo.SaveMonth(row); err != nil {
		return &caldomain.MonthSyncResult{Status: caldomain.MonthStatusError, ErrorMessage: err.Error()}
	}

	timeMin := time.Date(item.Year, time.Month(item.Month), 1, 0, 0, 0, 0, time.UTC)
	timeMax := timeMin.AddDate(0, 1, 0)

	u.console.Narrate(userID, runID, fmt.Sprintf("fetching %04d-%02d of %s", item.Year, item.Month, item.CalendarID))

	var buffer []*caldomain.CalendarEvent
	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := u.eventRepo.UpsertBatch(buffer); err != nil {
			return err
		}
		row.EventsSynced += len(buffer)
		buffer = nil
		// Touching the row bounds how much work a kill can lose.
		return u.progressRepo.SaveMonth(row)
	}

	pageToken := ""
	for {
		events, nextToken, err := u.events.ListEventsPage(ctx, userID, item.CalendarID, timeMin, timeMax, pageToken)
		if err != nil {
			return u.failMonth(row, fmt.Errorf("event fetch failed: %v", err))
		}
		for _, event := range events {
			buffer = append(buffer, event)
			if len(buffer) >= u.cfg.SyncFlushSize {
				if err := flush(); err != nil {
					return u.failMonth(row, fmt.Errorf("event flush failed: %v", err))
				}
			}
		}
		if nextToken == "" {
			break
		}
		pageToken = nextToken
		// Stay under provider rate limits between pages.
		u.sleep(u.cfg.SyncPageDelay)
	}

	if err := flush(); err != nil {
		return u.failMonth(row, fmt.Errorf("event flush failed: %v", err))
	}

	finishedAt := u.now()
	nowUTC := finishedAt.UTC()
	if item.Year == nowUTC.Year() && item.Month == int(nowUTC.Month()) {
		row.SyncStatus = caldomain.MonthStatusPartial
	} else {
		row.SyncStatus = caldomain.MonthStatusCompleted
		row.CompletedAt = &finishedAt
	}
	if err := u.progressRepo.SaveMonth(row); err != nil {
		return u.failMonth(row, fmt.Errorf("failed to finalize month progress: %v", err))
	}

	if row.EventsSynced > 0 && u.matcher != nil {
		// Best-effort post-step, decoupled from sync success.
		if matched, err := u.matcher.MatchEventsInRange(ctx, timeMin, timeMax, item.CalendarID); err != nil {
			log.Printf("[CalendarSync] [WARN] matching for %04d-%02d of %s failed: %v", item.Year, item.Month, item.CalendarID, err)
		} else if matched > 0 {
			u.console.Narrate(userID, runID, fmt.Sprintf("matched %d events to CRM contacts", matched))
		}
	}

	return &caldomain.MonthSyncResult{
		Status:       caldomain.MonthStatusCompleted,
		EventsSynced: row.EventsSynced,
	}
}

// failMonth records the failure on the month row; events already flushed
// stay put, upserts make the retry re-cover the same ground without
// duplication.
func (u *calendarSyncUsecase) failMonth(row *caldomain.MonthSyncProgress, cause error) *caldomain.MonthSyncResult {
	row.SyncStatus = caldomain.MonthStatusError
	row.ErrorMessage = cause.Error()
	if err := u.progressRepo.SaveMonth(row); err != nil {
		log.Printf("[CalendarSync] failed to record month error for %s %04d-%02d: %v", row.CalendarID, row.Year, row.Month, err)
	}
	return &caldomain.MonthSyncResult{
		Status:       caldomain.MonthStatusError,
		EventsSynced: row.EventsSynced,
		ErrorMessage: cause.Error(),
	}
}
