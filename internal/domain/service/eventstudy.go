package service

import (
	"context"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
)

// SeriesSelector picks the finest resolution likely to be available for an
// event time, falling back through coarser tiers. An empty series is a
// first-class result, never an error.
type SeriesSelector interface {
	Select(ctx context.Context, ticker string, eventTime time.Time) (models.TimeSeries, repository.Resolution)
}

// ReactionStudy measures one asset's reaction to one event.
type ReactionStudy interface {
	Measure(ctx context.Context, ticker string, event models.MacroEvent) (*models.EventReaction, error)
}
