package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Sink receives flushed batches of aggregated log lines. The kafka
// producer satisfies this with its raw publish path.
type Sink interface {
	PublishRaw(ctx context.Context, payloads ...[]byte) error
}

// LogCollector batches repeated log lines keyed by (level, message,
// location) and flushes aggregated counts to a Publisher on an interval.
// High-frequency paths (tick handling, cache probes) go through here so
// the hot loop never blocks on IO.
type LogCollector struct {
	mu        sync.Mutex
	entries   map[string]*aggregatedEntry
	publisher Sink
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
}

type aggregatedEntry struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Location  string         `json:"location"`
	Count     int            `json:"count"`
	FirstSeen time.Time      `json:"first_seen"`
	LastSeen  time.Time      `json:"last_seen"`
	Sample    map[string]any `json:"sample,omitempty"`
}

func NewLogCollector(publisher Sink, interval time.Duration) *LogCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LogCollector{
		entries:   make(map[string]*aggregatedEntry),
		publisher: publisher,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (c *LogCollector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
}

func (c *LogCollector) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

func (c *LogCollector) Add(level, msg, location string, fields []Field) {
	key := entryKey(level, msg, location)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
		return
	}

	sample := make(map[string]any, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			sample[f.Key] = err.Error()
			continue
		}
		sample[f.Key] = f.Value
	}
	c.entries[key] = &aggregatedEntry{
		Level:     level,
		Message:   msg,
		Location:  location,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
		Sample:    sample,
	}
}

func (c *LogCollector) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.flush(context.Background())
			return
		case <-ticker.C:
			c.flush(ctx)
		}
	}
}

func (c *LogCollector) flush(ctx context.Context) {
	c.mu.Lock()
	if len(c.entries) == 0 {
		c.mu.Unlock()
		return
	}
	batch := make([]*aggregatedEntry, 0, len(c.entries))
	for _, e := range c.entries {
		batch = append(batch, e)
	}
	c.entries = make(map[string]*aggregatedEntry)
	c.mu.Unlock()

	payloads := make([][]byte, 0, len(batch))
	for _, e := range batch {
		b, err := json.Marshal(e)
		if err != nil {
			continue
		}
		payloads = append(payloads, b)
	}
	if c.publisher == nil || len(payloads) == 0 {
		return
	}
	_ = c.publisher.PublishRaw(ctx, payloads...)
}

func entryKey(level, msg, location string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", level, msg, location)))
	return hex.EncodeToString(sum[:8])
}
