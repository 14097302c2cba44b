package usecase

import (
	"time"

	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/repository"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/config"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/gcal"
)

// calendarSyncUsecase implements CalendarSyncUsecase. One instance serves
// all users; no per-run state lives on the struct. Everything a resumed run
// needs is read back from the progress rows.
type calendarSyncUsecase struct {
	progressRepo repository.SyncProgressRepository
	eventRepo    repository.CalendarEventRepository
	credRepo     repository.CredentialRepository
	provider     *gcal.Service
	events       EventSource
	matcher      Matcher
	console      ConsoleSink
	cfg          *config.Config

	// Injectable for tests; default to the real clock.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewCalendarSyncUsecase creates a new instance of calendarSyncUsecase
func NewCalendarSyncUsecase(
	progressRepo repository.SyncProgressRepository,
	eventRepo repository.CalendarEventRepository,
	credRepo repository.CredentialRepository,
	provider *gcal.Service,
	matcher Matcher,
	console ConsoleSink,
	cfg *config.Config,
) CalendarSyncUsecase {
	if console == nil {
		console = NewLogConsole()
	}
	uc := &calendarSyncUsecase{
		progressRepo: progressRepo,
		eventRepo:    eventRepo,
		credRepo:     credRepo,
		provider:     provider,
		matcher:      matcher,
		console:      console,
		cfg:          cfg,
		now:          time.Now,
		sleep:        time.Sleep,
	}
	uc.events = &gcalEventSource{usecase: uc}
	return uc
}

func (u *calendarSyncUsecase) Progress(userID string) (*ProgressReport, error) {
	overall, err := u.progressRepo.GetOverall(userID)
	if err != nil {
		return nil, err
	}
	months, err := u.progressRepo.ListMonths(userID)
	if err != nil {
		return nil, err
	}
	return &ProgressReport{
		Overall: overall,
		Months:  months,
	}, nil
}
