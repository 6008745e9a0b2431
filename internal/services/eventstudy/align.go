package eventstudy

import (
	"time"

	"MacroPulse/internal/domain/models"
)

// Align re-indexes a series to event-relative minute offsets. Both the series
// timestamps and the event instant are normalized to UTC before subtraction;
// that is the single timezone policy for the whole engine, so mixed-zone
// inputs from the provider cannot skew offsets. Prices and row order are
// untouched, output length equals input length.
func Align(series models.TimeSeries, eventTime time.Time) models.AlignedSeries {
	if len(series) == 0 {
		return nil
	}
	event := eventTime.UTC()
	out := make(models.AlignedSeries, len(series))
	for i, p := range series {
		out[i] = models.AlignedPoint{
			OffsetMin: p.Timestamp.UTC().Sub(event).Minutes(),
			Price:     p.Price,
		}
	}
	return out
}
