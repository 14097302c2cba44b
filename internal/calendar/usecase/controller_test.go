package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

func TestStartSyncRefusesSecondConcurrentRun(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, _, _, _ := newTestUsecase(now)

	startedAt := now
	if err := progress.SaveOverall(&caldomain.OverallSyncProgress{
		UserID:       testUser,
		Status:       caldomain.SyncStatusRunning,
		CurrentRunID: "run-active",
		StartedAt:    &startedAt,
	}); err != nil {
		t.Fatalf("seed overall failed: %v", err)
	}

	result, err := uc.StartSync(context.Background(), testUser, testCalendar)
	if err != nil {
		t.Fatalf("StartSync failed: %v", err)
	}
	if !result.AlreadyRunning {
		t.Fatalf("expected already-running no-op, got %+v", result)
	}
	if result.RunID != "run-active" {
		t.Fatalf("expected the active run id back, got %q", result.RunID)
	}

	overall, _ := progress.GetOverall(testUser)
	if overall.CurrentRunID != "run-active" {
		t.Fatalf("duplicate trigger must not replace the run id, got %q", overall.CurrentRunID)
	}
}

func TestStartSyncRunsToCompletion(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, source, _, _ := newTestUsecase(now)
	source.hasEvents = false // cold start lands on the current month, no pages

	result, err := uc.StartSync(context.Background(), testUser, "")
	if err != nil {
		t.Fatalf("StartSync failed: %v", err)
	}
	if result.AlreadyRunning || result.RunID == "" {
		t.Fatalf("expected a fresh run, got %+v", result)
	}

	// The loop is detached; wait for it to settle.
	deadline := time.Now().Add(2 * time.Second)
	for {
		overall, err := progress.GetOverall(testUser)
		if err != nil {
			t.Fatalf("GetOverall failed: %v", err)
		}
		if overall != nil && overall.Status == caldomain.SyncStatusCompleted {
			if overall.CompletedAt == nil {
				t.Fatalf("completed run must carry completed_at")
			}
			if overall.ErrorMessage != "" {
				t.Fatalf("completed run must clear error_message, got %q", overall.ErrorMessage)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sync did not complete in time, overall: %+v", overall)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The current month ends partial, never completed.
	row, _ := progress.GetMonth(testUser, testCalendar, 2024, 6)
	if row == nil || row.SyncStatus != caldomain.MonthStatusPartial {
		t.Fatalf("expected current month partial after full run, got %+v", row)
	}
}

func TestDriveLoopObservesPauseFlag(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, source, _, _ := newTestUsecase(now)

	if err := progress.SaveOverall(&caldomain.OverallSyncProgress{
		UserID: testUser,
		Status: caldomain.SyncStatusPaused,
	}); err != nil {
		t.Fatalf("seed overall failed: %v", err)
	}

	uc.driveLoop(context.Background(), testUser, testCalendar, "run-1")

	overall, _ := progress.GetOverall(testUser)
	if overall.Status != caldomain.SyncStatusPaused {
		t.Fatalf("paused status must be left untouched, got %s", overall.Status)
	}
	if source.listCalls != 0 {
		t.Fatalf("no work item may start after pause, saw %d fetches", source.listCalls)
	}
}

func TestDriveLoopSelfPausesWhenBudgetExceeded(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, source, _, _ := newTestUsecase(now)
	uc.cfg.SyncTimeBudget = 10 * time.Second

	// Each clock read advances six seconds, so the budget trips after the
	// first work item instead of the backlog finishing in one run.
	current := now
	uc.now = func() time.Time {
		current = current.Add(6 * time.Second)
		return current
	}
	progress.nowFn = func() time.Time { return current }

	source.earliest = time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)
	source.hasEvents = true

	if err := progress.SaveOverall(&caldomain.OverallSyncProgress{
		UserID:       testUser,
		Status:       caldomain.SyncStatusRunning,
		CurrentRunID: "run-1",
	}); err != nil {
		t.Fatalf("seed overall failed: %v", err)
	}

	uc.driveLoop(context.Background(), testUser, testCalendar, "run-1")

	overall, _ := progress.GetOverall(testUser)
	if overall.Status != caldomain.SyncStatusPaused {
		t.Fatalf("expected paused (not running, not error), got %s", overall.Status)
	}
	if overall.ErrorMessage == "" || !strings.Contains(overall.ErrorMessage, "time budget") {
		t.Fatalf("expected a timeout explanation, got %q", overall.ErrorMessage)
	}
}

func TestDriveLoopPausesOnWorkerError(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, source, _, _ := newTestUsecase(now)

	source.failFetch = true
	source.hasEvents = true
	source.earliest = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := progress.SaveOverall(&caldomain.OverallSyncProgress{
		UserID:       testUser,
		Status:       caldomain.SyncStatusRunning,
		CurrentRunID: "run-1",
	}); err != nil {
		t.Fatalf("seed overall failed: %v", err)
	}

	uc.driveLoop(context.Background(), testUser, testCalendar, "run-1")

	overall, _ := progress.GetOverall(testUser)
	if overall.Status != caldomain.SyncStatusPaused {
		t.Fatalf("worker error must pause the run, got %s", overall.Status)
	}
	if overall.ErrorMessage == "" {
		t.Fatalf("expected an explanatory message on pause")
	}

	// The failed month stays in error so the next run repairs it first.
	row, _ := progress.GetMonth(testUser, testCalendar, 2024, 5)
	if row == nil || row.SyncStatus != caldomain.MonthStatusError {
		t.Fatalf("expected month in error for repair, got %+v", row)
	}
	item, err := uc.nextWorkItem(context.Background(), testUser, testCalendar)
	if err != nil {
		t.Fatalf("nextWorkItem failed: %v", err)
	}
	if item == nil || item.Year != 2024 || item.Month != 5 {
		t.Fatalf("expected failed month re-selected first, got %+v", item)
	}
}

func TestPauseSyncSetsPausedStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	uc, progress, _, _, _, _ := newTestUsecase(now)

	if err := uc.PauseSync(testUser); err != nil {
		t.Fatalf("PauseSync failed: %v", err)
	}

	overall, _ := progress.GetOverall(testUser)
	if overall == nil || overall.Status != caldomain.SyncStatusPaused {
		t.Fatalf("expected paused overall row, got %+v", overall)
	}
}
