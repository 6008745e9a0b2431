package eventstudy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
)

func TestEmpiricalVaR95Interpolated(t *testing.T) {
	// 11 points: the interpolated 5th percentile sits halfway between the
	// two lowest order statistics.
	returns := []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}

	got, err := EmpiricalVaR95(returns, 10)
	require.NoError(t, err)
	assert.InDelta(t, -4.5, got, 1e-9)
}

func TestEmpiricalVaR95InsufficientSample(t *testing.T) {
	_, err := EmpiricalVaR95([]float64{-1, 0, 1}, 20)
	assert.True(t, errors.Is(err, models.ErrInsufficientSample))

	// default gate applies when minSample is zero
	_, err = EmpiricalVaR95(make([]float64, DefaultMinVaRSample-1), 0)
	assert.True(t, errors.Is(err, models.ErrInsufficientSample))
}

func TestPercentile(t *testing.T) {
	xs := []float64{3, 1, 2}
	assert.InDelta(t, 1.0, Percentile(xs, 0), 1e-9)
	assert.InDelta(t, 2.0, Percentile(xs, 50), 1e-9)
	assert.InDelta(t, 3.0, Percentile(xs, 100), 1e-9)
	// input must not be reordered
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestRegimeVaRBuckets(t *testing.T) {
	labeled := make([]models.DailyReturn, 0, 30)
	for i := 0; i < 25; i++ {
		labeled = append(labeled, models.DailyReturn{Return: float64(i%10) - 5, Regime: models.RegimeMid})
	}
	labeled = append(labeled, models.DailyReturn{Return: -9, Regime: models.RegimeLow})
	labeled = append(labeled, models.DailyReturn{Return: 0.5}) // unlabeled, excluded

	mid := RegimeVaR(labeled, models.RegimeMid, 20)
	assert.True(t, mid.Sufficient)
	assert.Equal(t, 25, mid.Observations)

	low := RegimeVaR(labeled, models.RegimeLow, 20)
	assert.False(t, low.Sufficient, "one observation must not produce a VaR")
	assert.Equal(t, 1, low.Observations)
}

func TestStressImpactSkipsMissing(t *testing.T) {
	weights := models.Portfolio{"rates": 0.3, "equities": 0.7}
	sens := models.SensitivityMap{
		"rates":    {Valid: false},
		"equities": {Pct: 2.0, Valid: true},
	}

	impact, contributed, skipped := StressImpact(weights, sens, 1.0)
	assert.InDelta(t, 1.4, impact, 1e-9)
	assert.Equal(t, 1, contributed)
	assert.Equal(t, 1, skipped)
}

func TestStressImpactMultiplier(t *testing.T) {
	weights := models.Portfolio{"oil": 1.0}
	sens := models.SensitivityMap{"oil": {Pct: -1.5, Valid: true}}

	impact, _, _ := StressImpact(weights, sens, 2.0)
	assert.InDelta(t, -3.0, impact, 1e-9)
}

func TestValidatePortfolio(t *testing.T) {
	assert.NoError(t, ValidatePortfolio(models.Portfolio{"a": 0, "b": 1.2}))

	err := ValidatePortfolio(models.Portfolio{"a": -0.1})
	assert.True(t, errors.Is(err, models.ErrBadConfig))

	err = ValidatePortfolio(models.Portfolio{})
	assert.True(t, errors.Is(err, models.ErrBadConfig))
}
