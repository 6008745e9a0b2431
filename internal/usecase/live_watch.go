package usecase

import (
	"context"
	"sync"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	mid "MacroPulse/internal/middleware"
	"MacroPulse/internal/services/eventstudy"
	applogger "MacroPulse/pkg/logger"
)

// LiveReactionWatch streams trades from the provider websocket and, while an
// event is in its LIVE phase, recomputes the event reaction incrementally
// from the accumulated ticks. Updated records flow downstream through the
// pipeline.
type LiveReactionWatch struct {
	stream     drepo.MarketStream
	data       drepo.MarketData
	registry   drepo.EventRegistry
	pipe       *mid.ReactionPipeline
	metrics    drepo.Metrics
	logger     *applogger.Logger
	liveWindow time.Duration
	recompute  time.Duration
	now        func() time.Time

	mu      sync.Mutex
	anchors map[string]models.PricePoint // last pre-event observation per ticker
	ticks   map[string][]*models.Tick
}

func NewLiveReactionWatch(
	stream drepo.MarketStream,
	data drepo.MarketData,
	registry drepo.EventRegistry,
	pipe *mid.ReactionPipeline,
	metrics drepo.Metrics,
	l *applogger.Logger,
	liveWindow time.Duration,
) *LiveReactionWatch {
	if liveWindow <= 0 {
		liveWindow = eventstudy.DefaultLiveWindow
	}
	return &LiveReactionWatch{
		stream:     stream,
		data:       data,
		registry:   registry,
		pipe:       pipe,
		metrics:    metrics,
		logger:     l,
		liveWindow: liveWindow,
		recompute:  15 * time.Second,
		now:        time.Now,
		anchors:    map[string]models.PricePoint{},
		ticks:      map[string][]*models.Tick{},
	}
}

// IsConnected returns true if the market stream is connected.
func (w *LiveReactionWatch) IsConnected() bool {
	return w.stream.IsConnected()
}

func (w *LiveReactionWatch) Start(ctx context.Context) error {
	if err := w.stream.Connect(ctx); err != nil {
		return err
	}
	if err := w.stream.Subscribe(ctx); err != nil {
		return err
	}
	w.pipe.Start(ctx)
	tickCh, errCh := w.stream.Read(ctx)
	go w.consume(ctx, tickCh, errCh)
	go w.recomputeLoop(ctx)
	return nil
}

func (w *LiveReactionWatch) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				w.metrics.RecordError("stream")
				_ = w.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			w.mu.Lock()
			w.ticks[t.Ticker] = append(w.ticks[t.Ticker], t)
			w.mu.Unlock()
		}
	}
}

func (w *LiveReactionWatch) recomputeLoop(ctx context.Context) {
	tk := time.NewTicker(w.recompute)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			event, live := w.liveEvent()
			if !live {
				w.reset()
				continue
			}
			w.recomputeAll(ctx, event)
		}
	}
}

// liveEvent returns the registry event currently in its LIVE phase, if any.
func (w *LiveReactionWatch) liveEvent() (models.MacroEvent, bool) {
	now := w.now()
	events := w.registry.Events()
	for i := len(events) - 1; i >= 0; i-- {
		switch eventstudy.Phase(now, events[i].Date, w.liveWindow) {
		case models.PhaseLive:
			return events[i], true
		case models.PhasePost:
			return models.MacroEvent{}, false
		}
	}
	return models.MacroEvent{}, false
}

func (w *LiveReactionWatch) recomputeAll(ctx context.Context, event models.MacroEvent) {
	w.mu.Lock()
	snapshot := make(map[string][]*models.Tick, len(w.ticks))
	for ticker, ts := range w.ticks {
		snapshot[ticker] = ts
	}
	w.mu.Unlock()

	for ticker, ts := range snapshot {
		if len(ts) == 0 {
			continue
		}
		r, ok := w.measure(ctx, ticker, event, ts)
		if !ok {
			continue
		}
		if err := w.pipe.Process(ctx, r); err != nil {
			w.logger.Debug("live reaction rejected downstream",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
	}
}

// measure rebuilds the aligned series from the pre-event anchor plus the live
// ticks and reruns the reaction math over it.
func (w *LiveReactionWatch) measure(ctx context.Context, ticker string, event models.MacroEvent, ts []*models.Tick) (*models.EventReaction, bool) {
	anchor, ok := w.anchor(ctx, ticker, event)
	if !ok {
		return nil, false
	}

	series := make(models.TimeSeries, 0, len(ts)+1)
	series = append(series, anchor)
	for _, t := range ts {
		at := time.Unix(t.Timestamp, 0).UTC()
		if !at.After(series[len(series)-1].Timestamp) {
			continue
		}
		series = append(series, models.PricePoint{Timestamp: at, Price: t.Price})
	}

	aligned := eventstudy.Align(series, event.Date)
	pct, err := eventstudy.ReactionReturn(aligned)
	if err != nil {
		// no post-event tick has landed yet
		return nil, false
	}
	shock, drift := eventstudy.ShockDrift(aligned)

	return &models.EventReaction{
		Ticker:      ticker,
		EventDate:   event.Date.UTC(),
		ReactionPct: pct,
		ShockPct:    shock,
		DriftPct:    drift,
		Resolution:  "live",
		Observed:    len(aligned),
		ComputedAt:  w.now().UTC(),
	}, true
}

// anchor fetches and memoizes the last observation strictly before the event.
func (w *LiveReactionWatch) anchor(ctx context.Context, ticker string, event models.MacroEvent) (models.PricePoint, bool) {
	w.mu.Lock()
	a, ok := w.anchors[ticker]
	w.mu.Unlock()
	if ok {
		return a, true
	}

	series, err := w.data.FetchSeries(ctx, ticker, event.Date.Add(-2*time.Hour), event.Date, drepo.Res1m)
	if err != nil || series.Empty() {
		w.metrics.RecordError("live_anchor")
		return models.PricePoint{}, false
	}
	a = series.Last()

	w.mu.Lock()
	w.anchors[ticker] = a
	w.mu.Unlock()
	return a, true
}

func (w *LiveReactionWatch) reset() {
	w.mu.Lock()
	if len(w.ticks) > 0 {
		w.ticks = map[string][]*models.Tick{}
		w.anchors = map[string]models.PricePoint{}
	}
	w.mu.Unlock()
}

// Shutdown stops the pipeline and closes the stream.
func (w *LiveReactionWatch) Shutdown(ctx context.Context) error {
	w.pipe.Stop()
	return w.stream.Close()
}
