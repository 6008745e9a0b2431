package usecase

import (
	"context"
	"encoding/json"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
	pkgkafka "MacroPulse/pkg/kafka"
)

// KafkaReactionsHandler consumes reaction records off the bus and persists
// them to the history store.
type KafkaReactionsHandler struct {
	topic   string
	store   domrepo.ReactionStore
	metrics domrepo.Metrics
}

func NewKafkaReactionsHandler(topic string, store domrepo.ReactionStore, metrics domrepo.Metrics) *KafkaReactionsHandler {
	return &KafkaReactionsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaReactionsHandler) Topic() string { return h.topic }

func (h *KafkaReactionsHandler) Handle(ctx context.Context, b []byte) error {
	var r models.EventReaction
	if err := json.Unmarshal(b, &r); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if !r.ComputedAt.IsZero() {
		// E2E latency from compute time to persistence (approx)
		h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(r.ComputedAt).Seconds())
	}

	start := time.Now()
	err := h.store.Store(ctx, &r)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordReaction("clickhouse", r.Ticker)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaReactionsHandler)(nil)
