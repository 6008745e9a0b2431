package models

import "time"

// PricePoint is a single timestamped price observation.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// TimeSeries is an ordered sequence of price observations with strictly
// increasing timestamps. Deduplication and NA filtering happen at the
// provider boundary; a series is immutable once built.
type TimeSeries []PricePoint

// Empty reports whether the series has no observations.
func (s TimeSeries) Empty() bool { return len(s) == 0 }

// First returns the earliest observation. Call only on non-empty series.
func (s TimeSeries) First() PricePoint { return s[0] }

// Last returns the latest observation. Call only on non-empty series.
func (s TimeSeries) Last() PricePoint { return s[len(s)-1] }

// Closes extracts the price column.
func (s TimeSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// AlignedPoint is a price observation re-indexed to minutes relative to an
// event instant. Negative offsets are pre-event, positive post-event.
type AlignedPoint struct {
	OffsetMin float64
	Price     float64
}

// AlignedSeries is a TimeSeries whose time axis has been replaced by
// event-relative minute offsets. Offsets are not guaranteed evenly spaced;
// irregular sampling across a resolution fallback boundary is legal.
type AlignedSeries []AlignedPoint
