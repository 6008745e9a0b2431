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
)

// pairedMarketData serves a different daily series per ticker.
type pairedMarketData struct {
	byTicker map[string]models.TimeSeries
}

func (d *pairedMarketData) FetchSeries(ctx context.Context, ticker string, start, end time.Time, res drepo.Resolution) (models.TimeSeries, error) {
	return d.byTicker[ticker], nil
}

func dailySeries(start time.Time, prices []float64) models.TimeSeries {
	out := make(models.TimeSeries, len(prices))
	for i, p := range prices {
		out[i] = models.PricePoint{Timestamp: start.AddDate(0, 0, i), Price: p}
	}
	return out
}

func TestGetCorrelationTracksPair(t *testing.T) {
	start := day(2024, 1, 1)
	n := 40
	pricesA := make([]float64, n)
	pricesB := make([]float64, n)
	for i := 0; i < n; i++ {
		// b moves in lockstep with a
		pricesA[i] = 100 + float64(i%2)
		pricesB[i] = 50 + 0.5*float64(i%2)
	}
	data := &pairedMarketData{byTicker: map[string]models.TimeSeries{
		"SPY": dailySeries(start, pricesA),
		"GLD": dailySeries(start, pricesB),
	}}

	uc := NewCorrelationUseCase(data, newFakeMetrics())
	uc.longWindow = 10

	res, err := uc.GetCorrelation(context.Background(), CorrelationParams{
		AssetA: "SPY", AssetB: "GLD", Window: 5, Threshold: 2.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "SPY", res.AssetA)
	require.NotEmpty(t, res.Series)
	for _, pt := range res.Series {
		assert.InDelta(t, 1.0, pt.Corr, 1e-9)
	}
	// a constant correlation series has zero variance: no anomalies
	assert.Empty(t, res.Anomalies)
}

func TestGetCorrelationIntersectsCalendars(t *testing.T) {
	start := day(2024, 1, 1)
	a := dailySeries(start, []float64{100, 101, 102, 103, 104, 105, 106, 107})
	// b misses two days in the middle
	b := append(models.TimeSeries{}, dailySeries(start, []float64{50, 51, 52})...)
	b = append(b, dailySeries(start.AddDate(0, 0, 5), []float64{55, 56, 57})...)

	dates, closesA, closesB := intersectByDay(a, b)
	require.Len(t, dates, 6)
	assert.Len(t, closesA, 6)
	assert.Len(t, closesB, 6)
	assert.Equal(t, 105.0, closesA[3])
	assert.Equal(t, 55.0, closesB[3])
}

func TestGetCorrelationInsufficientOverlap(t *testing.T) {
	data := &pairedMarketData{byTicker: map[string]models.TimeSeries{
		"SPY": dailySeries(day(2024, 1, 1), []float64{100, 101, 102}),
		"GLD": dailySeries(day(2024, 1, 1), []float64{50, 51, 52}),
	}}
	uc := NewCorrelationUseCase(data, newFakeMetrics())

	_, err := uc.GetCorrelation(context.Background(), CorrelationParams{
		AssetA: "SPY", AssetB: "GLD", Window: 20, Threshold: 2.0,
	})
	assert.True(t, errors.Is(err, models.ErrInsufficientSample))
}
