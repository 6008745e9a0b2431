package eventstudy

import (
	"context"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	applogger "MacroPulse/pkg/logger"
)

// CascadeConfig holds the resolution fallback parameters. Intraday minute
// data is retention-limited at most providers, so the cascade trades
// resolution for availability.
type CascadeConfig struct {
	IntradayRetention time.Duration // how far back minute data is assumed to exist
	MinuteWindow      time.Duration // half-window around the event for 1m data
	FiveMinWindow     time.Duration // half-window for 5m data
	DailyWindow       time.Duration // half-window for daily data
}

// DefaultCascade mirrors typical provider retention: ~30 days of minute bars.
func DefaultCascade() CascadeConfig {
	return CascadeConfig{
		IntradayRetention: 30 * 24 * time.Hour,
		MinuteWindow:      2 * time.Hour,
		FiveMinWindow:     48 * time.Hour,
		DailyWindow:       240 * time.Hour,
	}
}

// Selector picks the finest resolution likely to be available for an event
// time. Provider failures are absorbed: any tier that errors counts as empty
// and the cascade falls through. Callers must treat an empty series as a
// first-class case.
type Selector struct {
	data    repository.MarketData
	metrics repository.Metrics
	logger  *applogger.Logger
	cfg     CascadeConfig
	now     func() time.Time
}

func NewSelector(data repository.MarketData, metrics repository.Metrics, l *applogger.Logger, cfg CascadeConfig) *Selector {
	if cfg.MinuteWindow <= 0 {
		cfg = DefaultCascade()
	}
	return &Selector{data: data, metrics: metrics, logger: l, cfg: cfg, now: time.Now}
}

// Select runs the cascade: minute bars for recent events, then 5-minute, then
// daily. The returned series may be empty; the resolution reports which tier
// produced it (daily when everything came back empty).
func (s *Selector) Select(ctx context.Context, ticker string, eventTime time.Time) (models.TimeSeries, repository.Resolution) {
	eventTime = eventTime.UTC()

	if s.now().Sub(eventTime) <= s.cfg.IntradayRetention {
		if series := s.fetch(ctx, ticker, eventTime, s.cfg.MinuteWindow, repository.Res1m); !series.Empty() {
			return series, repository.Res1m
		}
	}

	if series := s.fetch(ctx, ticker, eventTime, s.cfg.FiveMinWindow, repository.Res5m); !series.Empty() {
		return series, repository.Res5m
	}

	// Last tier: return whatever daily data exists, empty included.
	return s.fetch(ctx, ticker, eventTime, s.cfg.DailyWindow, repository.Res1d), repository.Res1d
}

// fetch requests one window and converts provider failure into an empty
// series. At most one attempt per tier; no retries.
func (s *Selector) fetch(ctx context.Context, ticker string, eventTime time.Time, halfWindow time.Duration, res repository.Resolution) models.TimeSeries {
	series, err := s.data.FetchSeries(ctx, ticker, eventTime.Add(-halfWindow), eventTime.Add(halfWindow), res)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("provider fetch failed, treating as empty",
				applogger.String("ticker", ticker),
				applogger.String("resolution", string(res)),
				applogger.Error(err))
		}
		s.metrics.RecordFetch(string(res), "error")
		return nil
	}
	if series.Empty() {
		s.metrics.RecordFetch(string(res), "empty")
		return nil
	}
	s.metrics.RecordFetch(string(res), "ok")
	return series
}

var _ domsvc.SeriesSelector = (*Selector)(nil)
