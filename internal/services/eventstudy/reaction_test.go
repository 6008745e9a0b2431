package eventstudy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
)

func TestReactionReturn(t *testing.T) {
	aligned := models.AlignedSeries{
		{OffsetMin: -10, Price: 100},
		{OffsetMin: -1, Price: 102}, // last pre-event observation
		{OffsetMin: 2, Price: 104},  // first post-event observation
		{OffsetMin: 30, Price: 90},
	}

	got, err := ReactionReturn(aligned)
	require.NoError(t, err)
	assert.InDelta(t, (104.0/102.0-1)*100, got, 1e-9)
}

func TestReactionReturnMissingSides(t *testing.T) {
	cases := []struct {
		name    string
		aligned models.AlignedSeries
	}{
		{"empty", nil},
		{"no pre", models.AlignedSeries{{OffsetMin: 1, Price: 100}, {OffsetMin: 5, Price: 101}}},
		{"no post", models.AlignedSeries{{OffsetMin: -5, Price: 100}, {OffsetMin: -1, Price: 101}}},
		{"only at zero", models.AlignedSeries{{OffsetMin: 0, Price: 100}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReactionReturn(tc.aligned)
			assert.True(t, errors.Is(err, models.ErrInsufficientObservations))
		})
	}
}

func TestShockDrift(t *testing.T) {
	aligned := models.AlignedSeries{
		{OffsetMin: -5, Price: 100}, // pre-event, ignored by both windows
		{OffsetMin: 1, Price: 100},
		{OffsetMin: 5, Price: 102},  // +2%
		{OffsetMin: 15, Price: 102}, // boundary included in shock, 0%
		{OffsetMin: 20, Price: 102},
		{OffsetMin: 60, Price: 51}, // -50% within drift
	}

	shock, drift := ShockDrift(aligned)
	assert.InDelta(t, 2.0, shock, 1e-9)
	assert.InDelta(t, -50.0, drift, 1e-9)
}

func TestShockDriftSparseWindowsSumToZero(t *testing.T) {
	// 0 or 1 observation in a window is an empty sum, not an error:
	// this asymmetry with ReactionReturn is deliberate.
	aligned := models.AlignedSeries{
		{OffsetMin: -5, Price: 100},
		{OffsetMin: 10, Price: 200}, // lone point in shock window
	}
	shock, drift := ShockDrift(aligned)
	assert.Zero(t, shock)
	assert.Zero(t, drift)

	shock, drift = ShockDrift(nil)
	assert.Zero(t, shock)
	assert.Zero(t, drift)
}

func TestPercentReturns(t *testing.T) {
	got := PercentReturns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 10.0, got[0], 1e-9)
	assert.InDelta(t, -10.0, got[1], 1e-9)

	assert.Nil(t, PercentReturns([]float64{100}))
}
