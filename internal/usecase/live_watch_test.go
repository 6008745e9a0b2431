package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
	mid "MacroPulse/internal/middleware"
	applogger "MacroPulse/pkg/logger"
)

func newTestWatch(registry *fakeRegistry, data *fakeMarketData, now time.Time) *LiveReactionWatch {
	proc := NewReactionProcessor(nil, nil, newFakeMetrics(), "clickhouse")
	pipe := mid.NewReactionPipeline(proc, newFakeMetrics())
	w := NewLiveReactionWatch(nil, data, registry, pipe, newFakeMetrics(), applogger.New("test"), time.Hour)
	w.now = func() time.Time { return now }
	return w
}

func TestLiveEventSelection(t *testing.T) {
	release := time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC)
	registry := &fakeRegistry{events: []models.MacroEvent{
		{Date: release.AddDate(0, -1, 0), Actual: 2.9, Forecast: 3.0},
		{Date: release, Actual: 3.2, Forecast: 3.1},
	}}

	cases := []struct {
		name string
		now  time.Time
		live bool
	}{
		{"before release", release.Add(-5 * time.Minute), false},
		{"at release", release, true},
		{"mid window", release.Add(30 * time.Minute), true},
		{"after window", release.Add(2 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWatch(registry, &fakeMarketData{}, tc.now)
			ev, live := w.liveEvent()
			assert.Equal(t, tc.live, live)
			if live {
				assert.True(t, ev.Date.Equal(release))
			}
		})
	}
}

func TestMeasureFromLiveTicks(t *testing.T) {
	release := time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC)
	event := models.MacroEvent{Date: release, Actual: 3.2, Forecast: 3.1}
	registry := &fakeRegistry{events: []models.MacroEvent{event}}
	data := &fakeMarketData{series: models.TimeSeries{
		{Timestamp: release.Add(-5 * time.Minute), Price: 100},
		{Timestamp: release.Add(-1 * time.Minute), Price: 102},
	}}
	w := newTestWatch(registry, data, release.Add(10*time.Minute))

	ticks := []*models.Tick{
		{Ticker: "SPY", Timestamp: release.Add(2 * time.Minute).Unix(), Price: 104},
		{Ticker: "SPY", Timestamp: release.Add(5 * time.Minute).Unix(), Price: 105},
	}

	r, ok := w.measure(context.Background(), "SPY", event, ticks)
	require.True(t, ok)
	assert.Equal(t, "live", r.Resolution)
	assert.InDelta(t, (104.0/102.0-1)*100, r.ReactionPct, 1e-9)
	assert.Equal(t, 3, r.Observed) // anchor plus two ticks

	// anchor is memoized: a second measure must not refetch
	data.series = nil
	r2, ok := w.measure(context.Background(), "SPY", event, ticks)
	require.True(t, ok)
	assert.Equal(t, r.ReactionPct, r2.ReactionPct)
}

func TestMeasureWithoutAnchorSkips(t *testing.T) {
	release := time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC)
	event := models.MacroEvent{Date: release}
	w := newTestWatch(&fakeRegistry{}, &fakeMarketData{}, release.Add(time.Minute))

	_, ok := w.measure(context.Background(), "SPY", event, []*models.Tick{
		{Ticker: "SPY", Timestamp: release.Add(time.Minute).Unix(), Price: 104},
	})
	assert.False(t, ok)
}
