package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	applogger "MacroPulse/pkg/logger"
	"MacroPulse/pkg/queue"
	"MacroPulse/pkg/util"
)

// SeriesWarmupPayload names one ticker/event pair to refresh.
type SeriesWarmupPayload struct {
	Ticker string `json:"ticker"`
	Event  string `json:"event"` // YYYY-MM-DD
}

// SeriesWarmupJob recomputes one asset's reaction off the queue. The measure
// call pulls the series through the caching layer, so a warmup doubles as a
// cache refresh; the result is routed to the configured backend.
type SeriesWarmupJob struct {
	study    domsvc.ReactionStudy
	registry drepo.EventRegistry
	proc     *ReactionProcessor
	logger   *applogger.Logger
}

func NewSeriesWarmupJob(study domsvc.ReactionStudy, registry drepo.EventRegistry, proc *ReactionProcessor, l *applogger.Logger) *SeriesWarmupJob {
	return &SeriesWarmupJob{study: study, registry: registry, proc: proc, logger: l}
}

func (j *SeriesWarmupJob) Name() string { return "series-warmup" }
func (j *SeriesWarmupJob) Type() string { return "series_warmup" }

func (j *SeriesWarmupJob) Handle(ctx context.Context, payload any) error {
	p, err := queue.ParsePayload[SeriesWarmupPayload](payload)
	if err != nil {
		return fmt.Errorf("warmup payload: %w", err)
	}

	date, err := time.Parse(util.DateOnly, p.Event)
	if err != nil {
		return fmt.Errorf("warmup event date: %w", err)
	}
	event, ok := j.registry.Lookup(date)
	if !ok {
		return fmt.Errorf("warmup: no event on %s", p.Event)
	}

	r, err := j.study.Measure(ctx, p.Ticker, event)
	if err != nil {
		return err
	}
	if r.Missing {
		j.logger.Debug("warmup found no data",
			applogger.String("ticker", p.Ticker), applogger.String("event", p.Event))
		return nil
	}
	return j.proc.Process(ctx, r)
}

var _ queue.Job = (*SeriesWarmupJob)(nil)

// RefreshScheduler enqueues warmup jobs for events near their release: the
// LIVE window plus a trailing day, when cached series and reactions go stale
// fastest.
type RefreshScheduler struct {
	queue    queue.QueueService
	registry drepo.EventRegistry
	universe map[string]string
	every    time.Duration
	horizon  time.Duration
	logger   *applogger.Logger
	now      func() time.Time
}

func NewRefreshScheduler(q queue.QueueService, registry drepo.EventRegistry, universe map[string]string, every time.Duration, l *applogger.Logger) *RefreshScheduler {
	if every <= 0 {
		every = 5 * time.Minute
	}
	return &RefreshScheduler{
		queue:    q,
		registry: registry,
		universe: universe,
		every:    every,
		horizon:  24 * time.Hour,
		logger:   l,
		now:      time.Now,
	}
}

// Start blocks until the context is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) {
	tk := time.NewTicker(s.every)
	defer tk.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			s.tick(ctx)
		}
	}
}

func (s *RefreshScheduler) tick(ctx context.Context) {
	now := s.now()
	for _, event := range s.registry.Events() {
		age := now.Sub(event.Date)
		if age < 0 || age > s.horizon {
			continue
		}
		s.enqueueEvent(ctx, event)
	}
}

func (s *RefreshScheduler) enqueueEvent(ctx context.Context, event models.MacroEvent) {
	day := event.Date.UTC().Format(util.DateOnly)
	for _, ticker := range s.universe {
		payload := SeriesWarmupPayload{Ticker: ticker, Event: day}
		if err := s.queue.PublishMessage(ctx, "series_warmup", payload); err != nil {
			s.logger.Warn("warmup enqueue failed",
				applogger.String("ticker", ticker),
				applogger.String("event", day),
				applogger.Error(err))
		}
	}
}
