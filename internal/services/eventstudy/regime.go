package eventstudy

import (
	"fmt"
	"sort"
	"time"

	"MacroPulse/internal/domain/models"
)

// Classifier thresholds a scalar macro reading into a regime label. Both cut
// points are inclusive: a reading exactly at the high cut is High, exactly at
// the low cut is Low.
type Classifier struct {
	highCut float64
	lowCut  float64
}

// NewClassifier fails fast on inverted cutoffs rather than silently producing
// nonsensical regimes.
func NewClassifier(highCut, lowCut float64) (*Classifier, error) {
	if highCut <= lowCut {
		return nil, fmt.Errorf("%w: high cut %.2f must exceed low cut %.2f", models.ErrBadConfig, highCut, lowCut)
	}
	return &Classifier{highCut: highCut, lowCut: lowCut}, nil
}

// Classify is total: every value maps to a label.
func (c *Classifier) Classify(value float64) models.RegimeLabel {
	switch {
	case value >= c.highCut:
		return models.RegimeHigh
	case value <= c.lowCut:
		return models.RegimeLow
	default:
		return models.RegimeMid
	}
}

// ClassifyEvents labels every release in the registry.
func (c *Classifier) ClassifyEvents(events []models.MacroEvent) []models.RegimePoint {
	out := make([]models.RegimePoint, len(events))
	for i, e := range events {
		out[i] = models.RegimePoint{Date: e.Date, Regime: c.Classify(e.Actual)}
	}
	return out
}

// ProjectDaily maps point-in-time regime labels onto target dates as a step
// function: each date takes the regime of the latest event date at or before
// it. Dates before the first event stay absent; the last event's regime
// extends through the final target date. Events must be sorted by date.
func ProjectDaily(events []models.RegimePoint, targets []time.Time) models.DailyRegimeMap {
	if len(events) == 0 {
		return models.DailyRegimeMap{}
	}
	out := make(models.DailyRegimeMap, len(targets))
	for _, t := range targets {
		day := t.UTC().Truncate(24 * time.Hour)
		// first event date strictly after the target day
		idx := sort.Search(len(events), func(i int) bool {
			return events[i].Date.After(day)
		})
		if idx == 0 {
			continue // before the first release
		}
		out[day] = events[idx-1].Regime
	}
	return out
}

// LabelReturns tags a daily return series with the regime in effect on each
// day. Days before the first event keep an empty label and are excluded from
// regime-conditional aggregation.
func LabelReturns(returns []models.DailyReturn, events []models.RegimePoint) []models.DailyReturn {
	dates := make([]time.Time, len(returns))
	for i, r := range returns {
		dates[i] = r.Date
	}
	daily := ProjectDaily(events, dates)
	out := make([]models.DailyReturn, len(returns))
	for i, r := range returns {
		r.Regime = daily[r.Date.UTC().Truncate(24*time.Hour)]
		out[i] = r
	}
	return out
}
