package eventstudy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyBoundaries(t *testing.T) {
	c, err := NewClassifier(6.0, 4.0)
	require.NoError(t, err)

	cases := []struct {
		value float64
		want  models.RegimeLabel
	}{
		{7.2, models.RegimeHigh},
		{6.0, models.RegimeHigh}, // boundary-inclusive
		{5.999, models.RegimeMid},
		{5.0, models.RegimeMid},
		{4.001, models.RegimeMid},
		{4.0, models.RegimeLow}, // boundary-inclusive
		{1.4, models.RegimeLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.value), "value %v", tc.value)
	}
}

func TestClassifierRejectsInvertedCuts(t *testing.T) {
	_, err := NewClassifier(4.0, 6.0)
	assert.True(t, errors.Is(err, models.ErrBadConfig))

	_, err = NewClassifier(5.0, 5.0)
	assert.True(t, errors.Is(err, models.ErrBadConfig))
}

func TestProjectDailyStepFunction(t *testing.T) {
	events := []models.RegimePoint{
		{Date: day(2024, 1, 12), Regime: models.RegimeMid},
		{Date: day(2024, 2, 12), Regime: models.RegimeHigh},
	}
	targets := []time.Time{
		day(2024, 1, 1),  // before first release: absent
		day(2024, 1, 12), // release day itself
		day(2024, 1, 20),
		day(2024, 2, 11), // last day of the first interval
		day(2024, 2, 12),
		day(2024, 3, 30), // last regime extends forward
	}

	got := ProjectDaily(events, targets)

	_, ok := got[day(2024, 1, 1)]
	assert.False(t, ok, "dates before the first event must stay unmapped")
	assert.Equal(t, models.RegimeMid, got[day(2024, 1, 12)])
	assert.Equal(t, models.RegimeMid, got[day(2024, 1, 20)])
	assert.Equal(t, models.RegimeMid, got[day(2024, 2, 11)])
	assert.Equal(t, models.RegimeHigh, got[day(2024, 2, 12)])
	assert.Equal(t, models.RegimeHigh, got[day(2024, 3, 30)])
}

func TestClassifyAndProjectEndToEnd(t *testing.T) {
	c, err := NewClassifier(6.0, 4.0)
	require.NoError(t, err)

	events := c.ClassifyEvents([]models.MacroEvent{
		{Date: day(2024, 1, 12), Actual: 5.69, Forecast: 5.8},
		{Date: day(2024, 2, 12), Actual: 5.10, Forecast: 5.2},
	})
	require.Len(t, events, 2)
	assert.Equal(t, models.RegimeMid, events[0].Regime)
	assert.Equal(t, models.RegimeMid, events[1].Regime)

	got := ProjectDaily(events, []time.Time{day(2024, 1, 20), day(2024, 1, 1)})
	assert.Equal(t, models.RegimeMid, got[day(2024, 1, 20)])
	_, ok := got[day(2024, 1, 1)]
	assert.False(t, ok)
}

func TestLabelReturns(t *testing.T) {
	events := []models.RegimePoint{{Date: day(2024, 1, 10), Regime: models.RegimeLow}}
	labeled := LabelReturns([]models.DailyReturn{
		{Date: day(2024, 1, 5), Return: 0.1},
		{Date: day(2024, 1, 15), Return: -0.2},
	}, events)

	require.Len(t, labeled, 2)
	assert.Empty(t, labeled[0].Regime)
	assert.Equal(t, models.RegimeLow, labeled[1].Regime)
}
