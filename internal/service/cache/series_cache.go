package cache

import (
	"context"
	"errors"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/services/eventstudy"
	pkgcache "MacroPulse/pkg/cache"
	"MacroPulse/pkg/logger"
	"MacroPulse/pkg/util"
)

// SeriesCache decorates MarketData with a cache tier. TTL depends on the
// lifecycle phase of the nearest release: short while a reaction is still
// forming, long once it has settled.
type SeriesCache struct {
	inner      drepo.MarketData
	store      pkgcache.Service
	registry   drepo.EventRegistry
	metrics    drepo.Metrics
	logger     *logger.Logger
	liveTTL    time.Duration
	postTTL    time.Duration
	liveWindow time.Duration
	now        func() time.Time
}

func NewSeriesCache(
	inner drepo.MarketData,
	store pkgcache.Service,
	registry drepo.EventRegistry,
	metrics drepo.Metrics,
	lgr *logger.Logger,
	liveTTL, postTTL, liveWindow time.Duration,
) *SeriesCache {
	return &SeriesCache{
		inner:      inner,
		store:      store,
		registry:   registry,
		metrics:    metrics,
		logger:     lgr,
		liveTTL:    liveTTL,
		postTTL:    postTTL,
		liveWindow: liveWindow,
		now:        time.Now,
	}
}

func (sc *SeriesCache) FetchSeries(ctx context.Context, ticker string, start, end time.Time, res drepo.Resolution) (models.TimeSeries, error) {
	from, to := util.AlignFromTo(start, end, string(res))
	key := pkgcache.Key("series", ticker, string(res), from.Unix(), to.Unix())

	var cached models.TimeSeries
	err := sc.store.Get(ctx, key, &cached)
	if err == nil {
		sc.metrics.RecordCache("hit")
		return cached, nil
	}
	if !errors.Is(err, pkgcache.ErrCacheMiss) {
		sc.logger.Warn("series cache read failed", logger.String("key", key), logger.Error(err))
	}
	sc.metrics.RecordCache("miss")

	series, err := sc.inner.FetchSeries(ctx, ticker, start, end, res)
	if err != nil {
		return nil, err
	}

	if setErr := sc.store.Set(ctx, key, series, sc.ttl()); setErr != nil {
		sc.logger.Warn("series cache write failed", logger.String("key", key), logger.Error(setErr))
	}
	return series, nil
}

// ttl picks the cache lifetime from the phase of the most recent
// scheduled release. No registry or no past events means nothing is
// forming, so the long TTL applies.
func (sc *SeriesCache) ttl() time.Duration {
	now := sc.now()
	phase := models.PhasePost
	if sc.registry != nil {
		events := sc.registry.Events()
		for i := len(events) - 1; i >= 0; i-- {
			if !events[i].Date.After(now) {
				phase = eventstudy.Phase(now, events[i].Date, sc.liveWindow)
				break
			}
		}
	}
	return eventstudy.CacheTTLFor(phase, sc.liveTTL, sc.postTTL)
}
