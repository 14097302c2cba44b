package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/config"
)

// fakeProgressRepo keeps progress rows in memory.
type fakeProgressRepo struct {
	mu      sync.Mutex
	overall map[string]*caldomain.OverallSyncProgress
	months  map[string]*caldomain.MonthSyncProgress
	nowFn   func() time.Time
}

func newFakeProgressRepo(now func() time.Time) *fakeProgressRepo {
	return &fakeProgressRepo{
		overall: make(map[string]*caldomain.OverallSyncProgress),
		months:  make(map[string]*caldomain.MonthSyncProgress),
		nowFn:   now,
	}
}

func monthKey(userID, calendarID string, year, month int) string {
	return fmt.Sprintf("%s|%s|%04d-%02d", userID, calendarID, year, month)
}

func (r *fakeProgressRepo) GetOverall(userID string) (*caldomain.OverallSyncProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.overall[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProgressRepo) SaveOverall(progress *caldomain.OverallSyncProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *progress
	copied.UpdatedAt = r.nowFn()
	r.overall[progress.UserID] = &copied
	return nil
}

func (r *fakeProgressRepo) TryMarkRunning(userID, runID string, startedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.overall[userID]
	if !ok {
		p = &caldomain.OverallSyncProgress{UserID: userID, Status: caldomain.SyncStatusNotStarted}
		r.overall[userID] = p
	}
	if p.Status == caldomain.SyncStatusRunning {
		return false, nil
	}
	p.Status = caldomain.SyncStatusRunning
	p.CurrentRunID = runID
	p.StartedAt = &startedAt
	p.CompletedAt = nil
	p.ErrorMessage = ""
	p.UpdatedAt = r.nowFn()
	return true, nil
}

func (r *fakeProgressRepo) ListMonths(userID string) ([]*caldomain.MonthSyncProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var months []*caldomain.MonthSyncProgress
	for _, m := range r.months {
		if m.UserID == userID {
			copied := *m
			months = append(months, &copied)
		}
	}
	return months, nil
}

func (r *fakeProgressRepo) GetMonth(userID, calendarID string, year, month int) (*caldomain.MonthSyncProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.months[monthKey(userID, calendarID, year, month)]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeProgressRepo) SaveMonth(progress *caldomain.MonthSyncProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *progress
	copied.UpdatedAt = r.nowFn()
	r.months[monthKey(progress.UserID, progress.CalendarID, progress.Year, progress.Month)] = &copied
	return nil
}

func (r *fakeProgressRepo) seedMonth(m *caldomain.MonthSyncProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.months[monthKey(m.UserID, m.CalendarID, m.Year, m.Month)] = m
}

// fakeEventRepo stores events keyed by the natural key so re-syncs dedupe
// exactly like the real upsert.
type fakeEventRepo struct {
	mu      sync.Mutex
	events  map[string]*caldomain.CalendarEvent
	failNow bool
	flushes int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*caldomain.CalendarEvent)}
}

func (r *fakeEventRepo) UpsertBatch(events []*caldomain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNow {
		return fmt.Errorf("upsert failed")
	}
	r.flushes++
	for _, e := range events {
		r.events[e.CalendarID+"|"+e.ProviderEventID] = e
	}
	return nil
}

func (r *fakeEventRepo) ListInRange(calendarID string, timeMin, timeMax time.Time) ([]*caldomain.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*caldomain.CalendarEvent
	for _, e := range r.events {
		if e.CalendarID == calendarID && !e.StartTime.Before(timeMin) && e.StartTime.Before(timeMax) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) CountForCalendar(calendarID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.CalendarID == calendarID {
			n++
		}
	}
	return n, nil
}

// fakeEventSource serves canned pages per month and can fail on demand.
type fakeEventSource struct {
	mu         sync.Mutex
	pages      map[string][][]*caldomain.CalendarEvent // key year-month
	earliest   time.Time
	hasEvents  bool
	failFetch  bool
	listCalls  int
	probeCalls int
}

func pageKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (s *fakeEventSource) ListEventsPage(ctx context.Context, userID, calendarID string, timeMin, timeMax time.Time, pageToken string) ([]*caldomain.CalendarEvent, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failFetch {
		return nil, "", fmt.Errorf("provider unavailable")
	}
	pages := s.pages[pageKey(timeMin.Year(), int(timeMin.Month()))]
	idx := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "page-%d", &idx)
	}
	if idx >= len(pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(pages) {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return pages[idx], next, nil
}

func (s *fakeEventSource) EarliestEventStart(ctx context.Context, userID, calendarID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeCalls++
	return s.earliest, s.hasEvents, nil
}

type fakeMatcher struct {
	mu      sync.Mutex
	calls   int
	matched int
	fail    bool
}

func (m *fakeMatcher) MatchEventsInRange(ctx context.Context, timeMin, timeMax time.Time, calendarID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return 0, fmt.Errorf("matcher backend down")
	}
	return m.matched, nil
}

type noopConsole struct{}

func (noopConsole) Narrate(userID, runID, message string) {}

// fakeCredRepo always reports a stored credential.
type fakeCredRepo struct{}

func (fakeCredRepo) Get(userID string) (*caldomain.GoogleCredential, error) {
	return &caldomain.GoogleCredential{UserID: userID, AccessToken: "token", RefreshToken: "refresh"}, nil
}
func (fakeCredRepo) Save(credential *caldomain.GoogleCredential) error { return nil }

func (fakeCredRepo) Delete(userID string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		SyncTimeBudget:      50 * time.Second,
		SyncPageSize:        100,
		SyncFlushSize:       25,
		SyncUpsertChunk:     50,
		SyncPageDelay:       0,
		SyncRefreshInterval: 15 * time.Minute,
	}
}

// newTestUsecase wires a usecase over fakes with a controllable clock.
func newTestUsecase(now time.Time) (*calendarSyncUsecase, *fakeProgressRepo, *fakeEventRepo, *fakeEventSource, *fakeMatcher, *time.Time) {
	current := now
	clock := func() time.Time { return current }
	progress := newFakeProgressRepo(clock)
	events := newFakeEventRepo()
	source := &fakeEventSource{pages: make(map[string][][]*caldomain.CalendarEvent)}
	match := &fakeMatcher{}
	uc := &calendarSyncUsecase{
		progressRepo: progress,
		eventRepo:    events,
		credRepo:     fakeCredRepo{},
		matcher:      match,
		console:      noopConsole{},
		cfg:          testConfig(),
		now:          clock,
		sleep:        func(time.Duration) {},
	}
	uc.events = source
	return uc, progress, events, source, match, &current
}

func makeEvents(calendarID string, year, month, count int, prefix string) []*caldomain.CalendarEvent {
	events := make([]*caldomain.CalendarEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, &caldomain.CalendarEvent{
			CalendarID:      calendarID,
			ProviderEventID: fmt.Sprintf("%s-%d", prefix, i),
			Title:           fmt.Sprintf("Event %d", i),
			StartTime:       time.Date(year, time.Month(month), 1+i%27, 10, 0, 0, 0, time.UTC),
			Status:          "confirmed",
		})
	}
	return events
}
