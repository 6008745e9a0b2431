package eventstudy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingCorrelationPerfectPair(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{2, 4, 6, 8, 10, 12} // same direction every step

	corr := RollingCorrelation(a, b, 3)
	require.Len(t, corr, 6)

	assert.True(t, math.IsNaN(corr[0]))
	assert.True(t, math.IsNaN(corr[1]))
	for i := 2; i < len(corr); i++ {
		assert.InDelta(t, 1.0, corr[i], 1e-9)
	}
}

func TestRollingCorrelationInverse(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{4, 3, 2, 1}

	corr := RollingCorrelation(a, b, 4)
	assert.InDelta(t, -1.0, corr[3], 1e-9)
}

func TestCorrelationZScoreFlagsBreak(t *testing.T) {
	// stable correlation with one break at the end
	corr := make([]float64, 40)
	for i := range corr {
		corr[i] = 0.8 + 0.01*float64(i%3)
	}
	corr[39] = -0.9

	z := CorrelationZScore(corr, 20)
	require.Len(t, z, 40)
	assert.True(t, math.IsNaN(z[10]), "incomplete baseline stays NaN")
	assert.Less(t, z[39], -2.0)
}

func TestCorrelationAnomalies(t *testing.T) {
	dates := []time.Time{
		day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3),
	}
	corr := []float64{0.8, 0.7, -0.9}
	z := []float64{0.1, math.NaN(), -3.2}

	got := CorrelationAnomalies("equities", "oil", dates, corr, z, 2.0)
	require.Len(t, got, 1)
	assert.Equal(t, day(2024, 3, 3), got[0].Date)
	assert.InDelta(t, 3.2, got[0].Severity, 1e-9)
	assert.Equal(t, "equities", got[0].AssetA)
}
