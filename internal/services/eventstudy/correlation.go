package eventstudy

import (
	"math"
	"time"

	"MacroPulse/internal/domain/models"
)

// Correlation monitor: tracks when asset relationships break from historical
// norms. Rolling pairwise correlation of daily returns, then a long-window
// z-score of that correlation series; days beyond a |z| threshold are flagged.

// DefaultCorrLongWindow is the lookback for the correlation z-score baseline,
// roughly one trading year.
const DefaultCorrLongWindow = 252

// RollingCorrelation computes the Pearson correlation of two return series
// over a sliding window. Output[i] corresponds to the window ending at i;
// positions before the first full window are NaN.
func RollingCorrelation(a, b []float64, window int) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 || n < window {
		return out
	}
	for i := window - 1; i < n; i++ {
		out[i] = pearson(a[i-window+1:i+1], b[i-window+1:i+1])
	}
	return out
}

// CorrelationZScore standardizes a rolling correlation series against its own
// trailing mean and standard deviation over longWindow observations. NaN
// where the baseline window is incomplete or degenerate.
func CorrelationZScore(corr []float64, longWindow int) []float64 {
	if longWindow <= 1 {
		longWindow = DefaultCorrLongWindow
	}
	out := make([]float64, len(corr))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := longWindow - 1; i < len(corr); i++ {
		win := corr[i-longWindow+1 : i+1]
		mean, std, n := meanStd(win)
		if n < 2 || std == 0 {
			continue
		}
		if !math.IsNaN(corr[i]) {
			out[i] = (corr[i] - mean) / std
		}
	}
	return out
}

// CorrelationAnomalies flags dates where |z| meets the threshold. The dates
// slice must align 1:1 with the z-score series.
func CorrelationAnomalies(assetA, assetB string, dates []time.Time, corr, z []float64, threshold float64) []models.CorrelationAnomaly {
	var out []models.CorrelationAnomaly
	for i, zi := range z {
		if i >= len(dates) || i >= len(corr) {
			break
		}
		if math.IsNaN(zi) || math.Abs(zi) < threshold {
			continue
		}
		out = append(out, models.CorrelationAnomaly{
			AssetA:   assetA,
			AssetB:   assetB,
			Date:     dates[i],
			Corr:     corr[i],
			ZScore:   zi,
			Severity: math.Abs(zi),
		})
	}
	return out
}

func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n < 2 {
		return math.NaN()
	}
	var sa, sb float64
	for i := range a {
		sa += a[i]
		sb += b[i]
	}
	ma, mb := sa/n, sb/n
	var cov, va, vb float64
	for i := range a {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(va*vb)
}

// meanStd ignores NaN entries and returns the count actually used.
func meanStd(xs []float64) (mean, std float64, n int) {
	var sum float64
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(n)
	var ss float64
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		d := x - mean
		ss += d * d
	}
	if n > 1 {
		std = math.Sqrt(ss / float64(n-1))
	}
	return mean, std, n
}
