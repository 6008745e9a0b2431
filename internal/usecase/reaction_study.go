package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/internal/services/eventstudy"
	applogger "MacroPulse/pkg/logger"
)

// ReactionStudyUseCase measures one asset's reaction to one release: pick a
// series through the resolution cascade, align it to the event instant, and
// run the reaction math. A missing pre/post pair produces a record flagged
// Missing rather than an error, so aggregation can skip the asset.
type ReactionStudyUseCase struct {
	selector domsvc.SeriesSelector
	metrics  domrepo.Metrics
	logger   *applogger.Logger
	now      func() time.Time
}

func NewReactionStudyUseCase(selector domsvc.SeriesSelector, metrics domrepo.Metrics, l *applogger.Logger) *ReactionStudyUseCase {
	return &ReactionStudyUseCase{selector: selector, metrics: metrics, logger: l, now: time.Now}
}

func (uc *ReactionStudyUseCase) Measure(ctx context.Context, ticker string, event models.MacroEvent) (*models.EventReaction, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}

	start := uc.now()
	series, res := uc.selector.Select(ctx, ticker, event.Date)

	r := &models.EventReaction{
		Ticker:     ticker,
		EventDate:  event.Date.UTC(),
		Resolution: res.Tag(),
		Observed:   len(series),
		ComputedAt: uc.now().UTC(),
	}

	if series.Empty() {
		r.Missing = true
		uc.logger.Debug("no data for event, marking missing",
			applogger.String("ticker", ticker),
			applogger.String("event", event.Date.Format("2006-01-02")))
		return r, nil
	}

	aligned := eventstudy.Align(series, event.Date)

	pct, err := eventstudy.ReactionReturn(aligned)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientObservations) {
			r.Missing = true
			return r, nil
		}
		uc.metrics.RecordError("reaction")
		return nil, fmt.Errorf("reaction %s: %w", ticker, err)
	}

	r.ReactionPct = pct
	r.ShockPct, r.DriftPct = eventstudy.ShockDrift(aligned)

	uc.metrics.RecordLatency("measure", uc.now().Sub(start).Seconds())
	return r, nil
}

var _ domsvc.ReactionStudy = (*ReactionStudyUseCase)(nil)
