package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/services/eventstudy"
	"MacroPulse/pkg/util"
)

// RiskReportUseCase serves the regime, VaR and stress views. It owns the
// classifier and the portfolio weights; per-asset sensitivities come from the
// aggregate study.
type RiskReportUseCase struct {
	registry   domrepo.EventRegistry
	data       domrepo.MarketData
	aggregate  *ReactionAggregateUseCase
	classifier *eventstudy.Classifier
	portfolio  models.Portfolio
	minSample  int
	now        func() time.Time
}

func NewRiskReportUseCase(
	registry domrepo.EventRegistry,
	data domrepo.MarketData,
	aggregate *ReactionAggregateUseCase,
	classifier *eventstudy.Classifier,
	portfolio models.Portfolio,
	minSample int,
) *RiskReportUseCase {
	if minSample <= 0 {
		minSample = eventstudy.DefaultMinVaRSample
	}
	return &RiskReportUseCase{
		registry:   registry,
		data:       data,
		aggregate:  aggregate,
		classifier: classifier,
		portfolio:  portfolio,
		minSample:  minSample,
		now:        time.Now,
	}
}

// RegimesResult pairs the classified registry with its daily projection.
type RegimesResult struct {
	Points []models.RegimePoint     `json:"points"`
	Daily  []DailyRegimeEntry       `json:"daily"`
	Counts map[models.RegimeLabel]int `json:"counts"`
}

// DailyRegimeEntry is one projected day. The map form is kept internal; the
// wire form is a sorted list so clients see a stable order.
type DailyRegimeEntry struct {
	Date   string             `json:"date"`
	Regime models.RegimeLabel `json:"regime"`
}

// GetRegimes classifies every registry event and projects the labels onto the
// trailing `days` calendar days. Days before the first event are absent from
// the projection.
func (uc *RiskReportUseCase) GetRegimes(ctx context.Context, days int) (*RegimesResult, error) {
	if days <= 0 {
		days = 365
	}

	points := uc.classifier.ClassifyEvents(uc.registry.Events())
	if len(points) == 0 {
		return nil, fmt.Errorf("event registry is empty")
	}

	end := util.TruncateToDay(uc.now())
	targets := make([]time.Time, 0, days)
	for d := days - 1; d >= 0; d-- {
		targets = append(targets, end.AddDate(0, 0, -d))
	}
	daily := eventstudy.ProjectDaily(points, targets)

	res := &RegimesResult{
		Points: points,
		Daily:  make([]DailyRegimeEntry, 0, len(daily)),
		Counts: map[models.RegimeLabel]int{},
	}
	for _, t := range targets {
		label, ok := daily[t]
		if !ok {
			continue
		}
		res.Daily = append(res.Daily, DailyRegimeEntry{Date: t.Format(util.DateOnly), Regime: label})
		res.Counts[label]++
	}
	return res, nil
}

// GetRegimeVaR computes the empirical 95% VaR of a ticker's daily returns
// conditioned on one regime. Returns models.ErrInsufficientSample alongside
// the partial result when the bucket is below the minimum sample size.
func (uc *RiskReportUseCase) GetRegimeVaR(ctx context.Context, ticker string, regime models.RegimeLabel, days int) (models.RegimeVaR, error) {
	if !regime.Valid() {
		return models.RegimeVaR{}, fmt.Errorf("%w: unknown regime %q", models.ErrBadConfig, regime)
	}
	if days <= 0 {
		days = 730
	}

	end := uc.now().UTC()
	series, err := uc.data.FetchSeries(ctx, ticker, end.AddDate(0, 0, -days), end, domrepo.Res1d)
	if err != nil {
		return models.RegimeVaR{}, fmt.Errorf("daily series %s: %w", ticker, err)
	}
	if len(series) < 2 {
		return models.RegimeVaR{Regime: regime}, models.ErrInsufficientSample
	}

	rets := eventstudy.PercentReturns(series.Closes())
	daily := make([]models.DailyReturn, len(rets))
	for i := range rets {
		daily[i] = models.DailyReturn{
			Date:   util.TruncateToDay(series[i+1].Timestamp),
			Return: rets[i],
		}
	}

	points := uc.classifier.ClassifyEvents(uc.registry.Events())
	labeled := eventstudy.LabelReturns(daily, points)

	v := eventstudy.RegimeVaR(labeled, regime, uc.minSample)
	if !v.Sufficient {
		return v, models.ErrInsufficientSample
	}
	return v, nil
}

// GetStress replays one event's measured sensitivities against the configured
// portfolio under a hypothetical multiplier. Assets without a valid
// sensitivity are skipped, never zero-filled.
func (uc *RiskReportUseCase) GetStress(ctx context.Context, eventDate time.Time, multiplier float64) (*models.StressResult, error) {
	if err := eventstudy.ValidatePortfolio(uc.portfolio); err != nil {
		return nil, err
	}

	event, ok := uc.registry.Lookup(eventDate)
	if !ok {
		return nil, fmt.Errorf("no event on %s", eventDate.Format(util.DateOnly))
	}

	study, err := uc.aggregate.GetEventStudy(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("event study: %w", err)
	}

	impact, contributed, skipped := eventstudy.StressImpact(uc.portfolio, study.Sensitivities(), multiplier)
	return &models.StressResult{
		EventDate:  event.Date.UTC(),
		Multiplier: multiplier,
		ImpactPct:  impact,
		Assets:     contributed,
		Skipped:    skipped,
	}, nil
}
