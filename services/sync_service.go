package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/aswat-contest/metrics"
	"github.com/Dosada05/aswat-contest/remote"
	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"
)

const (
	FeedSettings    = "settings"
	FeedSubmissions = "submissions"
)

type SubmissionsSource interface {
	SubmissionsConfigured() bool
	FetchSubmissions(ctx context.Context, now time.Time) (remote.FeedResult, error)
}

// SyncEvent reports the outcome of one remote fetch.
type SyncEvent struct {
	Feed     string    `json:"feed"`
	At       time.Time `json:"at"`
	Admitted int       `json:"admitted,omitempty"`
	Skipped  int       `json:"skipped,omitempty"`
	Warning  string    `json:"warning,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type SyncService interface {
	RunOnce(ctx context.Context) []SyncEvent
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan SyncEvent
}

type syncService struct {
	settings     SettingsService
	participants ParticipantService
	submissions  SubmissionsSource
	interval     time.Duration
	timeout      time.Duration
	metrics      *metrics.Collector
	logger       *slog.Logger
	now          func() time.Time

	events    chan SyncEvent
	runMu     sync.Mutex
	scheduler gocron.Scheduler
}

func NewSyncService(settings SettingsService, participants ParticipantService, submissions SubmissionsSource, interval, timeout time.Duration, m *metrics.Collector, logger *slog.Logger) SyncService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &syncService{
		settings:     settings,
		participants: participants,
		submissions:  submissions,
		interval:     interval,
		timeout:      timeout,
		metrics:      m,
		logger:       loggerOrDefault(logger),
		now:          time.Now,
		events:       make(chan SyncEvent, 16),
	}
}

func (s *syncService) Events() <-chan SyncEvent {
	return s.events
}

// RunOnce fetches both feeds concurrently and applies what arrived. Runs are
// serialised so a manual trigger never overlaps the scheduled one.
func (s *syncService) RunOnce(ctx context.Context) []SyncEvent {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		settingsEvent    *SyncEvent
		submissionsEvent *SyncEvent
	)

	// Each fetch reports its own failure; the group never cancels the other.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settingsEvent = s.syncSettings(gCtx)
		return nil
	})
	g.Go(func() error {
		submissionsEvent = s.syncSubmissions(gCtx)
		return nil
	})
	_ = g.Wait()

	events := make([]SyncEvent, 0, 2)
	for _, ev := range []*SyncEvent{settingsEvent, submissionsEvent} {
		if ev == nil {
			continue
		}
		events = append(events, *ev)
		s.emit(*ev)
	}
	return events
}

func (s *syncService) syncSettings(ctx context.Context) *SyncEvent {
	if !s.settings.RemoteConfigured() {
		return nil
	}
	start := s.now()
	_, err := s.settings.Refresh(ctx)
	ev := &SyncEvent{Feed: FeedSettings, At: start}
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidDeadline):
		ev.Warning = err.Error()
		err = nil
	default:
		ev.Error = err.Error()
	}
	s.metrics.SyncCompleted(FeedSettings, err, time.Since(start))
	return ev
}

func (s *syncService) syncSubmissions(ctx context.Context) *SyncEvent {
	if s.submissions == nil || !s.submissions.SubmissionsConfigured() {
		return nil
	}
	start := s.now()
	ev := &SyncEvent{Feed: FeedSubmissions, At: start}

	feed, err := s.submissions.FetchSubmissions(ctx, start)
	if err != nil {
		err = externalError(err)
		ev.Error = err.Error()
		s.metrics.SyncCompleted(FeedSubmissions, err, time.Since(start))
		return ev
	}

	summary, err := s.participants.Import(ctx, feed.Participants, SourceRemoteFeed)
	if err != nil {
		ev.Error = err.Error()
	} else {
		ev.Admitted = summary.Admitted
		ev.Skipped = summary.Skipped + feed.Skipped
	}
	s.metrics.SyncCompleted(FeedSubmissions, err, time.Since(start))
	return ev
}

// emit logs the event and offers it to Events without blocking.
func (s *syncService) emit(ev SyncEvent) {
	attrs := []any{slog.String("feed", ev.Feed), slog.Int("admitted", ev.Admitted), slog.Int("skipped", ev.Skipped)}
	switch {
	case ev.Error != "":
		s.logger.Warn("remote sync failed", append(attrs, slog.String("error", ev.Error))...)
	case ev.Warning != "":
		s.logger.Warn("remote sync completed with warning", append(attrs, slog.String("warning", ev.Warning))...)
	default:
		s.logger.Info("remote sync completed", attrs...)
	}

	select {
	case s.events <- ev:
	default:
	}
}

// Start schedules RunOnce every interval, beginning immediately.
func (s *syncService) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", s.interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create sync scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.RunOnce(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule remote sync: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	s.logger.Info("remote sync scheduled", slog.Duration("interval", s.interval))
	return nil
}

func (s *syncService) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}
