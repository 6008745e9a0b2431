package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MacroPulse/internal/domain/models"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/internal/services/eventstudy"
	pkgcache "MacroPulse/pkg/cache"
	applogger "MacroPulse/pkg/logger"
)

// ReactionAggregateUseCase runs the reaction study across the whole asset
// universe for one event. Assets are measured concurrently; assembly is
// order-insensitive and per-asset failures land in the Errors map instead
// of failing the study.
type ReactionAggregateUseCase struct {
	study      domsvc.ReactionStudy
	cache      pkgcache.Service // optional
	logger     *applogger.Logger
	universe   map[string]string // display name -> provider ticker
	liveWindow time.Duration
	liveTTL    time.Duration
	postTTL    time.Duration
	timeout    time.Duration
	now        func() time.Time
}

func NewReactionAggregateUseCase(
	study domsvc.ReactionStudy,
	cache pkgcache.Service,
	l *applogger.Logger,
	universe map[string]string,
	liveWindow, liveTTL, postTTL time.Duration,
) *ReactionAggregateUseCase {
	if liveWindow <= 0 {
		liveWindow = eventstudy.DefaultLiveWindow
	}
	return &ReactionAggregateUseCase{
		study:      study,
		cache:      cache,
		logger:     l,
		universe:   universe,
		liveWindow: liveWindow,
		liveTTL:    liveTTL,
		postTTL:    postTTL,
		timeout:    10 * time.Second,
		now:        time.Now,
	}
}

// EventStudyResult is the cross-asset view of one release.
type EventStudyResult struct {
	EventDate  time.Time                        `json:"event_date"`
	Actual     float64                          `json:"actual"`
	Forecast   float64                          `json:"forecast"`
	Surprise   float64                          `json:"surprise"`
	Reactions  map[string]*models.EventReaction `json:"reactions"` // keyed by display name
	Errors     map[string]string                `json:"errors,omitempty"`
	ComputedAt time.Time                        `json:"computed_at"`
}

// Sensitivities converts the per-asset reactions into the sensitivity map the
// stress path consumes, keyed by provider ticker to line up with portfolio
// weights. Missing reactions become invalid entries, which the aggregation
// skips rather than zero-fills.
func (r *EventStudyResult) Sensitivities() models.SensitivityMap {
	out := make(models.SensitivityMap, len(r.Reactions))
	for _, re := range r.Reactions {
		out[re.Ticker] = models.Sensitivity{Pct: re.ReactionPct, Valid: !re.Missing}
	}
	return out
}

func (uc *ReactionAggregateUseCase) GetEventStudy(ctx context.Context, event models.MacroEvent) (*EventStudyResult, error) {
	if len(uc.universe) == 0 {
		return nil, fmt.Errorf("universe empty")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &EventStudyResult{
		EventDate:  event.Date.UTC(),
		Actual:     event.Actual,
		Forecast:   event.Forecast,
		Surprise:   event.Surprise(),
		Reactions:  map[string]*models.EventReaction{},
		Errors:     map[string]string{},
		ComputedAt: uc.now().UTC(),
	}

	cached := uc.loadCached(ctx, event)

	type item struct {
		name string
		r    *models.EventReaction
		err  error
	}
	ch := make(chan item, len(uc.universe))
	var wg sync.WaitGroup

	for name, ticker := range uc.universe {
		if r, ok := cached[ticker]; ok {
			res.Reactions[name] = r
			continue
		}
		wg.Add(1)
		go func(name, ticker string) {
			defer wg.Done()
			r, err := uc.study.Measure(ctx, ticker, event)
			ch <- item{name, r, err}
		}(name, ticker)
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		res.Reactions[it.name] = it.r
		uc.storeCached(ctx, event, it.r)
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

func (uc *ReactionAggregateUseCase) loadCached(ctx context.Context, event models.MacroEvent) map[string]*models.EventReaction {
	out := map[string]*models.EventReaction{}
	if uc.cache == nil {
		return out
	}
	keys := make([]string, 0, len(uc.universe))
	byKey := make(map[string]string, len(uc.universe))
	for _, ticker := range uc.universe {
		k := reactionKey(ticker, event.Date)
		keys = append(keys, k)
		byKey[k] = ticker
	}
	hits, err := pkgcache.MGetTyped[models.EventReaction](ctx, uc.cache, keys...)
	if err != nil {
		uc.logger.Debug("reaction cache read failed", applogger.Error(err))
		return out
	}
	for k, r := range hits {
		r := r
		out[byKey[k]] = &r
	}
	return out
}

func (uc *ReactionAggregateUseCase) storeCached(ctx context.Context, event models.MacroEvent, r *models.EventReaction) {
	if uc.cache == nil || r == nil {
		return
	}
	phase := eventstudy.Phase(uc.now(), event.Date, uc.liveWindow)
	ttl := eventstudy.CacheTTLFor(phase, uc.liveTTL, uc.postTTL)
	if err := uc.cache.Set(ctx, reactionKey(r.Ticker, event.Date), r, ttl); err != nil {
		uc.logger.Debug("reaction cache write failed", applogger.Error(err))
	}
}

func reactionKey(ticker string, eventDate time.Time) string {
	return pkgcache.Key("reaction", ticker, eventDate.UTC().Unix())
}
