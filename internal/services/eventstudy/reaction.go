package eventstudy

import (
	"MacroPulse/internal/domain/models"
)

// Reaction window bounds in minutes. Shock captures the immediate repricing,
// drift the post-shock continuation.
const (
	ShockWindowEndMin = 15.0
	DriftWindowEndMin = 60.0
)

// ReactionReturn computes the two-point event reaction in percent: the last
// price strictly before the event against the first price strictly after it.
// Deliberately not a regression-adjusted abnormal return; two points stay
// robust under sparse intraday data. Returns ErrInsufficientObservations when
// either side of the event has no observation.
func ReactionReturn(aligned models.AlignedSeries) (float64, error) {
	var (
		pre, post       float64
		hasPre, hasPost bool
	)
	for _, p := range aligned {
		switch {
		case p.OffsetMin < 0:
			pre = p.Price // rows are ordered, so the last match wins
			hasPre = true
		case p.OffsetMin > 0:
			if !hasPost {
				post = p.Price
				hasPost = true
			}
		}
	}
	if !hasPre || !hasPost || pre == 0 {
		return 0, models.ErrInsufficientObservations
	}
	return (post/pre - 1) * 100, nil
}

// ShockDrift computes cumulative percent changes over the shock window
// (0, 15] and the drift window (15, 60]. The aggregation is a plain sum of
// per-step percent changes, a linear approximation rather than geometric
// compounding. A window with fewer than two observations sums to zero; unlike
// ReactionReturn this is never an error.
func ShockDrift(aligned models.AlignedSeries) (shockPct, driftPct float64) {
	shockPct = windowPctSum(aligned, 0, ShockWindowEndMin)
	driftPct = windowPctSum(aligned, ShockWindowEndMin, DriftWindowEndMin)
	return shockPct, driftPct
}

// windowPctSum sums percent changes between consecutive observations whose
// offsets fall in (lo, hi].
func windowPctSum(aligned models.AlignedSeries, lo, hi float64) float64 {
	var (
		sum  float64
		prev float64
		seen bool
	)
	for _, p := range aligned {
		if p.OffsetMin <= lo || p.OffsetMin > hi {
			continue
		}
		if seen && prev != 0 {
			sum += (p.Price/prev - 1) * 100
		}
		prev = p.Price
		seen = true
	}
	return sum
}

// PercentReturns converts a close series into simple percent-change returns,
// dropping the first observation. Used by the correlation monitor and the
// daily VaR path.
func PercentReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]/prev-1)*100)
	}
	return out
}
