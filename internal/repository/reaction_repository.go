package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	pkgkafka "MacroPulse/pkg/kafka"
)

// ReactionSchema holds the idempotent DDL for the reaction history
// table, executed by pkg/clickhouse InitSchema at startup.
func ReactionSchema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			event_date   Date,
			ticker       LowCardinality(String),
			reaction_pct Float64,
			shock_pct    Float64,
			drift_pct    Float64,
			resolution   LowCardinality(String),
			observed     UInt32,
			missing      UInt8,
			computed_at  DateTime
		) ENGINE = ReplacingMergeTree(computed_at)
		ORDER BY (ticker, event_date)`, table),
	}
}

// ClickHouseReactionStore implements ReactionStore on ClickHouse.
type ClickHouseReactionStore struct {
	db    *sql.DB
	table string
}

func NewClickHouseReactionStore(db *sql.DB, table string) repository.ReactionStore {
	return &ClickHouseReactionStore{db: db, table: table}
}

func (s *ClickHouseReactionStore) Init(ctx context.Context) error {
	for _, stmt := range ReactionSchema(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reaction schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseReactionStore) Store(ctx context.Context, r *models.EventReaction) error {
	q := fmt.Sprintf("INSERT INTO %s (event_date, ticker, reaction_pct, shock_pct, drift_pct, resolution, observed, missing, computed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, reactionArgs(r)...)
	return err
}

func (s *ClickHouseReactionStore) StoreBatch(ctx context.Context, rs []*models.EventReaction) error {
	if len(rs) == 0 {
		return nil
	}
	// Multi-row VALUES in chunks to limit round-trips.
	const chunkSize = 1000
	for start := 0; start < len(rs); start += chunkSize {
		end := start + chunkSize
		if end > len(rs) {
			end = len(rs)
		}

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*9)
		for _, r := range rs[start:end] {
			if r == nil || r.Ticker == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, reactionArgs(r)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (event_date, ticker, reaction_pct, shock_pct, drift_pct, resolution, observed, missing, computed_at) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseReactionStore) Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]*models.EventReaction, error) {
	q := fmt.Sprintf("SELECT ticker, event_date, reaction_pct, shock_pct, drift_pct, resolution, observed, missing, computed_at FROM %s FINAL WHERE ticker = ? AND event_date >= ? AND event_date <= ? ORDER BY event_date DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.EventReaction
	for rows.Next() {
		var r models.EventReaction
		var missing uint8
		if err := rows.Scan(&r.Ticker, &r.EventDate, &r.ReactionPct, &r.ShockPct, &r.DriftPct, &r.Resolution, &r.Observed, &missing, &r.ComputedAt); err != nil {
			return nil, err
		}
		r.Missing = missing == 1
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *ClickHouseReactionStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseReactionStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}

func reactionArgs(r *models.EventReaction) []any {
	missing := uint8(0)
	if r.Missing {
		missing = 1
	}
	return []any{
		r.EventDate,
		r.Ticker,
		r.ReactionPct,
		r.ShockPct,
		r.DriftPct,
		r.Resolution,
		uint32(r.Observed),
		missing,
		r.ComputedAt,
	}
}

// KafkaReactionPublisher implements Publisher on the shared producer.
// Records are keyed by ticker so one asset's history stays ordered.
type KafkaReactionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReactionPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaReactionPublisher{producer: producer, topic: topic}
}

func (p *KafkaReactionPublisher) Publish(ctx context.Context, r *models.EventReaction) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Ticker), r)
}

func (p *KafkaReactionPublisher) PublishBatch(ctx context.Context, rs []*models.EventReaction) error {
	if len(rs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(rs))
	for i, r := range rs {
		msgs[i] = pkgkafka.Message{Key: []byte(r.Ticker), Value: r}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaReactionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
