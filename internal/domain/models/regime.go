package models

import "time"

// RegimeLabel is a categorical macro-state derived from thresholding an
// indicator value against two cut points.
type RegimeLabel string

const (
	RegimeHigh RegimeLabel = "high"
	RegimeMid  RegimeLabel = "mid"
	RegimeLow  RegimeLabel = "low"
)

// Valid reports whether the label is one of the closed enumeration.
func (r RegimeLabel) Valid() bool {
	switch r {
	case RegimeHigh, RegimeMid, RegimeLow:
		return true
	}
	return false
}

// RegimePoint is a point-in-time regime label, anchored at a release date.
type RegimePoint struct {
	Date   time.Time
	Regime RegimeLabel
}

// DailyRegimeMap is a date -> regime step function, constant between
// consecutive event dates. Days before the first event date are absent.
// Keys are dates truncated to UTC midnight.
type DailyRegimeMap map[time.Time]RegimeLabel

// DailyReturn is one day of an asset return series, optionally labeled with
// the regime in effect on that day.
type DailyReturn struct {
	Date   time.Time
	Return float64
	Regime RegimeLabel // empty when the day precedes the first event
}
