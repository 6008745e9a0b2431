package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/services/eventstudy"
	"MacroPulse/pkg/util"
	applogger "MacroPulse/pkg/logger"
)

type fakeRegistry struct {
	events []models.MacroEvent
}

func (r *fakeRegistry) Events() []models.MacroEvent       { return r.events }
func (r *fakeRegistry) PolicyEvents() []models.PolicyEvent { return nil }
func (r *fakeRegistry) Lookup(date time.Time) (models.MacroEvent, bool) {
	day := util.TruncateToDay(date)
	for _, e := range r.events {
		if util.TruncateToDay(e.Date).Equal(day) {
			return e, true
		}
	}
	return models.MacroEvent{}, false
}

type fakeMarketData struct {
	series models.TimeSeries
	err    error
}

func (d *fakeMarketData) FetchSeries(ctx context.Context, ticker string, start, end time.Time, res drepo.Resolution) (models.TimeSeries, error) {
	return d.series, d.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// registry with prints landing in all three buckets under cuts 2.5 / 1.5
func riskRegistry() *fakeRegistry {
	return &fakeRegistry{events: []models.MacroEvent{
		{Date: day(2024, 1, 10), Actual: 3.0, Forecast: 2.0}, // high
		{Date: day(2024, 2, 10), Actual: 2.0, Forecast: 2.0}, // mid
		{Date: day(2024, 3, 10), Actual: 1.0, Forecast: 2.0}, // low
	}}
}

func newRiskUC(t *testing.T, data drepo.MarketData, agg *ReactionAggregateUseCase, portfolio models.Portfolio) *RiskReportUseCase {
	t.Helper()
	classifier, err := eventstudy.NewClassifier(2.5, 1.5)
	require.NoError(t, err)
	uc := NewRiskReportUseCase(riskRegistry(), data, agg, classifier, portfolio, 3)
	uc.now = func() time.Time { return day(2024, 3, 20) }
	return uc
}

func TestGetRegimesProjectsDaily(t *testing.T) {
	uc := newRiskUC(t, &fakeMarketData{}, nil, nil)

	res, err := uc.GetRegimes(context.Background(), 60)
	require.NoError(t, err)

	require.Len(t, res.Points, 3)
	assert.Equal(t, models.RegimeHigh, res.Points[0].Regime)
	assert.Equal(t, models.RegimeMid, res.Points[1].Regime)
	assert.Equal(t, models.RegimeLow, res.Points[2].Regime)

	// 60-day window: 2024-01-21 .. 2024-03-20, all after the first event
	require.Len(t, res.Daily, 60)
	assert.Equal(t, "2024-01-21", res.Daily[0].Date)
	assert.Equal(t, models.RegimeHigh, res.Daily[0].Regime)
	assert.Equal(t, "2024-03-20", res.Daily[len(res.Daily)-1].Date)
	assert.Equal(t, 20, res.Counts[models.RegimeHigh]) // Jan 21 .. Feb 9
	assert.Equal(t, 29, res.Counts[models.RegimeMid])  // Feb 10 .. Mar 9
	assert.Equal(t, 11, res.Counts[models.RegimeLow])  // Mar 10 .. Mar 20
}

func TestGetRegimeVaRInsufficientSample(t *testing.T) {
	// two closes -> one return, below the min sample of 3
	data := &fakeMarketData{series: models.TimeSeries{
		{Timestamp: day(2024, 3, 11), Price: 100},
		{Timestamp: day(2024, 3, 12), Price: 99},
	}}
	uc := newRiskUC(t, data, nil, nil)

	v, err := uc.GetRegimeVaR(context.Background(), "SPY", models.RegimeLow, 365)
	assert.True(t, errors.Is(err, models.ErrInsufficientSample))
	assert.False(t, v.Sufficient)
}

func TestGetRegimeVaRComputes(t *testing.T) {
	// daily closes after the low-regime event: all returns land in "low"
	series := models.TimeSeries{{Timestamp: day(2024, 3, 10), Price: 100}}
	prices := []float64{99, 101, 98, 102, 97, 103}
	for i, p := range prices {
		series = append(series, models.PricePoint{Timestamp: day(2024, 3, 11+i), Price: p})
	}
	uc := newRiskUC(t, &fakeMarketData{series: series}, nil, nil)

	v, err := uc.GetRegimeVaR(context.Background(), "SPY", models.RegimeLow, 365)
	require.NoError(t, err)
	assert.True(t, v.Sufficient)
	assert.Equal(t, models.RegimeLow, v.Regime)
	assert.Equal(t, len(prices), v.Observations)
	assert.Less(t, v.VaR95, 0.0)
}

func TestGetRegimeVaRRejectsUnknownRegime(t *testing.T) {
	uc := newRiskUC(t, &fakeMarketData{}, nil, nil)
	_, err := uc.GetRegimeVaR(context.Background(), "SPY", "sideways", 365)
	assert.True(t, errors.Is(err, models.ErrBadConfig))
}

func TestGetStressSkipsMissingSensitivities(t *testing.T) {
	study := &fakeStudy{reaction: -2.0, missing: map[string]bool{"UUP": true}}
	agg := NewReactionAggregateUseCase(study, nil, applogger.New("test"), testUniverse(), time.Hour, time.Minute, time.Hour)
	portfolio := models.Portfolio{"SPY": 0.5, "GLD": 0.3, "UUP": 0.2}
	uc := newRiskUC(t, &fakeMarketData{}, agg, portfolio)

	res, err := uc.GetStress(context.Background(), day(2024, 1, 10), 2.0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Assets)
	assert.Equal(t, 1, res.Skipped)
	// (0.5 + 0.3) * -2% * 2
	assert.InDelta(t, -3.2, res.ImpactPct, 1e-9)
}

func TestGetStressUnknownEvent(t *testing.T) {
	uc := newRiskUC(t, &fakeMarketData{}, nil, models.Portfolio{"SPY": 1})
	_, err := uc.GetStress(context.Background(), day(2023, 7, 4), 1.0)
	assert.Error(t, err)
}

func TestGetStressRejectsNegativeWeight(t *testing.T) {
	uc := newRiskUC(t, &fakeMarketData{}, nil, models.Portfolio{"SPY": -0.2})
	_, err := uc.GetStress(context.Background(), day(2024, 1, 10), 1.0)
	assert.True(t, errors.Is(err, models.ErrBadConfig))
}
