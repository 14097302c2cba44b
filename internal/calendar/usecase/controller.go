package usecase

import (
	"context"
	"fmt"
	"log"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"github.com/google/uuid"
)

const defaultCalendarID = "primary"

func (u *calendarSyncUsecase) StartSync(ctx context.Context, userID, calendarID string) (*StartSyncResult, error) {
	if calendarID == "" {
		calendarID = defaultCalendarID
	}

	if _, _, err := u.requireTokens(userID); err != nil {
		return nil, err
	}

	overall, err := u.progressRepo.GetOverall(userID)
	if err != nil {
		return nil, err
	}
	if overall != nil && overall.Status == caldomain.SyncStatusRunning {
		// Duplicate trigger: acknowledge the active run, no side effects.
		return &StartSyncResult{
			RunID:          overall.CurrentRunID,
			Status:         caldomain.SyncStatusRunning,
			AlreadyRunning: true,
		}, nil
	}

	runID := uuid.New().String()
	started, err := u.progressRepo.TryMarkRunning(userID, runID, u.now())
	if err != nil {
		return nil, err
	}
	if !started {
		// Lost the conditional update to a concurrent trigger.
		overall, err = u.progressRepo.GetOverall(userID)
		if err != nil {
			return nil, err
		}
		result := &StartSyncResult{Status: caldomain.SyncStatusRunning, AlreadyRunning: true}
		if overall != nil {
			result.RunID = overall.CurrentRunID
		}
		return result, nil
	}

	// The loop runs detached from the caller's request; progress is observed
	// through the progress rows.
	go u.driveLoop(context.Background(), userID, calendarID, runID)

	return &StartSyncResult{RunID: runID, Status: caldomain.SyncStatusRunning}, nil
}

func (u *calendarSyncUsecase) PauseSync(userID string) error {
	overall, err := u.progressRepo.GetOverall(userID)
	if err != nil {
		return err
	}
	if overall == nil {
		overall = &caldomain.OverallSyncProgress{UserID: userID}
	}
	overall.Status = caldomain.SyncStatusPaused
	return u.progressRepo.SaveOverall(overall)
}

// driveLoop repeatedly asks the scheduler for the next month and hands it
// to the worker, until no work remains, the pause flag is raised, the time
// budget runs out, or a month fails. Every exit path writes a terminal or
// pausing status so the persisted state always tells the full story.
func (u *calendarSyncUsecase) driveLoop(ctx context.Context, userID, calendarID, runID string) {
	start := u.now()
	u.console.Narrate(userID, runID, fmt.Sprintf("sync started for calendar %s", calendarID))

	for {
		if u.now().Sub(start) > u.cfg.SyncTimeBudget {
			// Cooperative yield, not a failure: stop cleanly before the host's
			// hard execution ceiling can kill us mid-write.
			u.pauseWithMessage(userID, runID, fmt.Sprintf(
				"time budget of %s exceeded; sync paused and will resume on next start", u.cfg.SyncTimeBudget))
			return
		}

		overall, err := u.progressRepo.GetOverall(userID)
		if err != nil {
			u.pauseWithMessage(userID, runID, fmt.Sprintf("failed to read sync progress: %v", err))
			return
		}
		if overall == nil || overall.Status == caldomain.SyncStatusPaused {
			u.console.Narrate(userID, runID, "pause requested, stopping")
			return
		}

		item, err := u.nextWorkItem(ctx, userID, calendarID)
		if err != nil {
			u.pauseWithMessage(userID, runID, fmt.Sprintf("failed to select next work item: %v", err))
			return
		}
		if item == nil {
			u.markCompleted(userID, runID)
			return
		}

		result := u.syncMonth(ctx, userID, runID, item)
		if result.Status == caldomain.MonthStatusError {
			// Errors are surfaced, not retried inline; the next start re-selects
			// the failed month first.
			u.pauseWithMessage(userID, runID, fmt.Sprintf(
				"sync of %s %04d-%02d failed: %s", item.CalendarID, item.Year, item.Month, result.ErrorMessage))
			return
		}
		u.console.Narrate(userID, runID, fmt.Sprintf(
			"synced %04d-%02d of %s (%d events)", item.Year, item.Month, item.CalendarID, result.EventsSynced))
	}
}

func (u *calendarSyncUsecase) pauseWithMessage(userID, runID, message string) {
	u.console.Narrate(userID, runID, message)
	overall, err := u.progressRepo.GetOverall(userID)
	if err != nil || overall == nil {
		log.Printf("[CalendarSync] could not load overall progress to pause user %s: %v", userID, err)
		overall = &caldomain.OverallSyncProgress{UserID: userID, CurrentRunID: runID}
	}
	overall.Status = caldomain.SyncStatusPaused
	overall.ErrorMessage = message
	if err := u.progressRepo.SaveOverall(overall); err != nil {
		log.Printf("[CalendarSync] failed to persist paused status for user %s: %v", userID, err)
	}
}

func (u *calendarSyncUsecase) markCompleted(userID, runID string) {
	u.console.Narrate(userID, runID, "no remaining work, sync completed")
	overall, err := u.progressRepo.GetOverall(userID)
	if err != nil || overall == nil {
		log.Printf("[CalendarSync] could not load overall progress to complete user %s: %v", userID, err)
		overall = &caldomain.OverallSyncProgress{UserID: userID, CurrentRunID: runID}
	}
	now := u.now()
	overall.Status = caldomain.SyncStatusCompleted
	overall.CompletedAt = &now
	overall.ErrorMessage = ""
	if err := u.progressRepo.SaveOverall(overall); err != nil {
		log.Printf("[CalendarSync] failed to persist completed status for user %s: %v", userID, err)
	}
}
