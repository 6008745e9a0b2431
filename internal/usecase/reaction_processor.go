package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
)

// ReactionProcessor routes computed reaction records to the configured
// backend: the Kafka bus or direct ClickHouse writes.
type ReactionProcessor struct {
	pub     drepo.Publisher
	store   drepo.ReactionStore
	metrics drepo.Metrics
	backend string
}

func NewReactionProcessor(pub drepo.Publisher, store drepo.ReactionStore, metrics drepo.Metrics, backend string) *ReactionProcessor {
	return &ReactionProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Process routes a single reaction record to the configured backend.
func (p *ReactionProcessor) Process(ctx context.Context, r *models.EventReaction) error {
	if r == nil {
		return fmt.Errorf("reaction is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, r)
	case "clickhouse":
		err = p.store.Store(ctx, r)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process reaction: %w", err)
	}

	p.metrics.RecordReaction(p.backend, r.Ticker)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple reaction records in a batch.
func (p *ReactionProcessor) ProcessBatch(ctx context.Context, rs []*models.EventReaction) error {
	if len(rs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, rs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, rs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, r := range rs {
		p.metrics.RecordReaction(p.backend, r.Ticker)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *ReactionProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
