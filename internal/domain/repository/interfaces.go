package repository

import (
	"context"
	"time"

	"MacroPulse/internal/domain/models"
)

// MarketData fetches historical candles from the provider. Failure and
// empty-result are both legal outcomes; the resolution selector converts
// failures into empty series so downstream code handles one case.
type MarketData interface {
	FetchSeries(ctx context.Context, ticker string, start, end time.Time, res Resolution) (models.TimeSeries, error)
}

// MarketStream delivers live trades over the provider websocket during an
// event's LIVE phase.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// EventRegistry provides read-only access to the scheduled release table,
// sorted by date with unique dates.
type EventRegistry interface {
	Events() []models.MacroEvent
	PolicyEvents() []models.PolicyEvent
	Lookup(date time.Time) (models.MacroEvent, bool)
}

// Publisher emits computed reaction records to the message bus.
type Publisher interface {
	Publish(ctx context.Context, r *models.EventReaction) error
	PublishBatch(ctx context.Context, rs []*models.EventReaction) error
	Close() error
}

// ReactionStore persists reaction records for history queries.
type ReactionStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.EventReaction) error
	StoreBatch(ctx context.Context, rs []*models.EventReaction) error
	Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]*models.EventReaction, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordFetch(resolution, outcome string)
	RecordReaction(backend, ticker string)
	RecordError(kind string)
	RecordCache(outcome string)
	RecordLatency(op string, seconds float64)
}
