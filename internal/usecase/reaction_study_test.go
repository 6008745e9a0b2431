package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	applogger "MacroPulse/pkg/logger"
)

type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: map[string]int{}} }

func (m *fakeMetrics) RecordFetch(resolution, outcome string) {}
func (m *fakeMetrics) RecordReaction(backend, ticker string)  {}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordCache(outcome string)              {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64) {}

type fakeSelector struct {
	series models.TimeSeries
	res    drepo.Resolution
}

func (s *fakeSelector) Select(ctx context.Context, ticker string, eventTime time.Time) (models.TimeSeries, drepo.Resolution) {
	return s.series, s.res
}

func testEvent() models.MacroEvent {
	return models.MacroEvent{
		Date:     time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC),
		Actual:   3.2,
		Forecast: 3.1,
	}
}

func TestMeasureComputesReaction(t *testing.T) {
	ev := testEvent()
	sel := &fakeSelector{
		series: models.TimeSeries{
			{Timestamp: ev.Date.Add(-2 * time.Minute), Price: 100},
			{Timestamp: ev.Date.Add(-1 * time.Minute), Price: 102},
			{Timestamp: ev.Date.Add(1 * time.Minute), Price: 104},
			{Timestamp: ev.Date.Add(10 * time.Minute), Price: 105},
		},
		res: drepo.Res1m,
	}

	uc := NewReactionStudyUseCase(sel, newFakeMetrics(), applogger.New("test"))
	r, err := uc.Measure(context.Background(), "SPY", ev)
	require.NoError(t, err)

	assert.Equal(t, "SPY", r.Ticker)
	assert.Equal(t, "1-minute", r.Resolution)
	assert.Equal(t, 4, r.Observed)
	assert.False(t, r.Missing)
	assert.InDelta(t, (104.0/102.0-1)*100, r.ReactionPct, 1e-9)
	assert.False(t, r.ComputedAt.IsZero())
}

func TestMeasureEmptySeriesIsMissing(t *testing.T) {
	uc := NewReactionStudyUseCase(&fakeSelector{res: drepo.Res1d}, newFakeMetrics(), applogger.New("test"))

	r, err := uc.Measure(context.Background(), "SPY", testEvent())
	require.NoError(t, err)
	assert.True(t, r.Missing)
	assert.Equal(t, "daily", r.Resolution)
	assert.Zero(t, r.ReactionPct)
}

func TestMeasureNoPostObservationIsMissing(t *testing.T) {
	ev := testEvent()
	sel := &fakeSelector{
		series: models.TimeSeries{
			{Timestamp: ev.Date.Add(-10 * time.Minute), Price: 100},
			{Timestamp: ev.Date.Add(-1 * time.Minute), Price: 101},
		},
		res: drepo.Res5m,
	}
	uc := NewReactionStudyUseCase(sel, newFakeMetrics(), applogger.New("test"))

	r, err := uc.Measure(context.Background(), "SPY", ev)
	require.NoError(t, err)
	assert.True(t, r.Missing)
}

func TestMeasureRequiresTicker(t *testing.T) {
	uc := NewReactionStudyUseCase(&fakeSelector{}, newFakeMetrics(), applogger.New("test"))
	_, err := uc.Measure(context.Background(), "", testEvent())
	assert.Error(t, err)
}
