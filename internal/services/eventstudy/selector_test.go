package eventstudy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
)

type fakeMarketData struct {
	byRes map[repository.Resolution]models.TimeSeries
	errAt map[repository.Resolution]bool
	calls []repository.Resolution
}

func (f *fakeMarketData) FetchSeries(_ context.Context, _ string, start, _ time.Time, res repository.Resolution) (models.TimeSeries, error) {
	f.calls = append(f.calls, res)
	if f.errAt[res] {
		return nil, fmt.Errorf("provider down")
	}
	return f.byRes[res], nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)        {}
func (noopMetrics) RecordReaction(string, string)     {}
func (noopMetrics) RecordError(string)                {}
func (noopMetrics) RecordCache(string)                {}
func (noopMetrics) RecordLatency(string, float64)     {}

func newTestSelector(data repository.MarketData) *Selector {
	return NewSelector(data, noopMetrics{}, nil, DefaultCascade())
}

func minuteSeries(eventTime time.Time) models.TimeSeries {
	return models.TimeSeries{
		{Timestamp: eventTime.Add(-5 * time.Minute), Price: 100},
		{Timestamp: eventTime.Add(5 * time.Minute), Price: 101},
	}
}

func TestSelectorRecentEventUsesMinuteData(t *testing.T) {
	event := time.Now().UTC().Add(-24 * time.Hour)
	data := &fakeMarketData{byRes: map[repository.Resolution]models.TimeSeries{
		repository.Res1m: minuteSeries(event),
	}}

	series, res := newTestSelector(data).Select(context.Background(), "^GSPC", event)
	assert.Equal(t, repository.Res1m, res)
	assert.Equal(t, "1-minute", res.Tag())
	require.Len(t, series, 2)
	assert.Equal(t, []repository.Resolution{repository.Res1m}, data.calls)
}

func TestSelectorOldEventSkipsMinuteTier(t *testing.T) {
	event := time.Now().UTC().Add(-90 * 24 * time.Hour)
	data := &fakeMarketData{byRes: map[repository.Resolution]models.TimeSeries{
		repository.Res1m: minuteSeries(event), // must never be requested
		repository.Res5m: minuteSeries(event),
	}}

	_, res := newTestSelector(data).Select(context.Background(), "^GSPC", event)
	assert.Equal(t, repository.Res5m, res)
	assert.Equal(t, []repository.Resolution{repository.Res5m}, data.calls)
}

func TestSelectorProviderFailureFallsThrough(t *testing.T) {
	event := time.Now().UTC().Add(-24 * time.Hour)
	data := &fakeMarketData{
		byRes: map[repository.Resolution]models.TimeSeries{
			repository.Res1d: minuteSeries(event),
		},
		errAt: map[repository.Resolution]bool{
			repository.Res1m: true,
			repository.Res5m: true,
		},
	}

	series, res := newTestSelector(data).Select(context.Background(), "CL=F", event)
	assert.Equal(t, repository.Res1d, res)
	assert.False(t, series.Empty())
	assert.Equal(t, []repository.Resolution{repository.Res1m, repository.Res5m, repository.Res1d}, data.calls)
}

func TestSelectorAllTiersEmptyReturnsDailyTag(t *testing.T) {
	event := time.Now().UTC().Add(-24 * time.Hour)
	data := &fakeMarketData{}

	series, res := newTestSelector(data).Select(context.Background(), "DX-Y.NYB", event)
	assert.Equal(t, repository.Res1d, res)
	assert.True(t, series.Empty())
}
