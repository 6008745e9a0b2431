package models

import "time"

// RegimeVaR is an empirical 95% Value-at-Risk estimate conditioned on one
// regime bucket.
type RegimeVaR struct {
	Regime       RegimeLabel
	VaR95        float64
	Observations int
	Sufficient   bool // false when the bucket was below the minimum sample size
}

// StressResult is the first-order portfolio impact of replaying one event's
// per-asset sensitivities under a hypothetical shock multiplier.
type StressResult struct {
	EventDate  time.Time
	Multiplier float64
	ImpactPct  float64
	Assets     int // assets that contributed (valid sensitivity and weight)
	Skipped    int // assets skipped for missing sensitivity
}

// CorrelationPoint is one day of a rolling pairwise correlation series with
// its long-window z-score.
type CorrelationPoint struct {
	Date   time.Time
	Corr   float64
	ZScore float64
}

// CorrelationAnomaly flags a day where a pair's rolling correlation broke
// from its historical norm.
type CorrelationAnomaly struct {
	AssetA   string
	AssetB   string
	Date     time.Time
	Corr     float64
	ZScore   float64
	Severity float64 // |z|
}
