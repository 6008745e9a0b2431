package eventstudy

import (
	"fmt"
	"sort"

	"MacroPulse/internal/domain/models"
)

// DefaultMinVaRSample gates the empirical percentile: regime buckets such as
// a rarely-seen Low print can hold only a handful of days, and a 5th
// percentile from a dozen points is noise presented as precision.
const DefaultMinVaRSample = 20

// EmpiricalVaR95 returns the 5th percentile of the return distribution using
// linear interpolation between order statistics. Below minSample (pass 0 for
// the default) it returns ErrInsufficientSample instead of a number.
func EmpiricalVaR95(returns []float64, minSample int) (float64, error) {
	if minSample <= 0 {
		minSample = DefaultMinVaRSample
	}
	if len(returns) < minSample {
		return 0, fmt.Errorf("%w: have %d returns, need %d", models.ErrInsufficientSample, len(returns), minSample)
	}
	return Percentile(returns, 5), nil
}

// Percentile computes the p-th percentile (0..100) with linear interpolation,
// matching the standard numpy definition. Input is copied before sorting.
func Percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// RegimeVaR computes the VaR for one regime bucket of a labeled return
// series. Unlabeled days (before the first event) never enter any bucket.
func RegimeVaR(labeled []models.DailyReturn, regime models.RegimeLabel, minSample int) models.RegimeVaR {
	var bucket []float64
	for _, r := range labeled {
		if r.Regime == regime {
			bucket = append(bucket, r.Return)
		}
	}
	v, err := EmpiricalVaR95(bucket, minSample)
	return models.RegimeVaR{
		Regime:       regime,
		VaR95:        v,
		Observations: len(bucket),
		Sufficient:   err == nil,
	}
}

// StressImpact computes the first-order portfolio impact of replaying
// per-asset event sensitivities under a shock multiplier:
// sum of weight * sensitivity * multiplier. Assets with an invalid
// sensitivity are skipped, contributing nothing rather than dragging the sum
// toward zero. No convexity, no cross-asset correlation terms.
func StressImpact(weights models.Portfolio, sensitivities models.SensitivityMap, multiplier float64) (impactPct float64, contributed, skipped int) {
	for asset, w := range weights {
		s, ok := sensitivities[asset]
		if !ok || !s.Valid {
			skipped++
			continue
		}
		impactPct += w * s.Pct * multiplier
		contributed++
	}
	return impactPct, contributed, skipped
}

// ValidatePortfolio rejects negative weights at construction. Weights are not
// required to sum to 1: incomplete coverage is intentional.
func ValidatePortfolio(p models.Portfolio) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: portfolio is empty", models.ErrBadConfig)
	}
	for asset, w := range p {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %.4f for %s", models.ErrBadConfig, w, asset)
		}
	}
	return nil
}
