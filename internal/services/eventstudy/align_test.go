package eventstudy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
)

func TestAlignOffsets(t *testing.T) {
	event := time.Date(2024, 1, 12, 13, 30, 0, 0, time.UTC)
	series := models.TimeSeries{
		{Timestamp: event.Add(-30 * time.Minute), Price: 100},
		{Timestamp: event.Add(-1 * time.Minute), Price: 101},
		{Timestamp: event.Add(90 * time.Second), Price: 99},
		{Timestamp: event.Add(1 * time.Hour), Price: 102},
	}

	aligned := Align(series, event)
	require.Len(t, aligned, len(series))

	assert.Equal(t, -30.0, aligned[0].OffsetMin)
	assert.Equal(t, -1.0, aligned[1].OffsetMin)
	assert.Equal(t, 1.5, aligned[2].OffsetMin)
	assert.Equal(t, 60.0, aligned[3].OffsetMin)

	// prices and relative order untouched
	for i := range series {
		assert.Equal(t, series[i].Price, aligned[i].Price)
	}
}

func TestAlignNormalizesZones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 08:30 ET release, series stamped in UTC
	event := time.Date(2024, 1, 12, 8, 30, 0, 0, ny)
	series := models.TimeSeries{
		{Timestamp: time.Date(2024, 1, 12, 13, 25, 0, 0, time.UTC), Price: 100},
		{Timestamp: time.Date(2024, 1, 12, 13, 35, 0, 0, time.UTC), Price: 101},
	}

	aligned := Align(series, event)
	require.Len(t, aligned, 2)
	assert.Equal(t, -5.0, aligned[0].OffsetMin)
	assert.Equal(t, 5.0, aligned[1].OffsetMin)
}

func TestAlignEmpty(t *testing.T) {
	assert.Nil(t, Align(nil, time.Now()))
}
