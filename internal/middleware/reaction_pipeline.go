package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
)

// Proc is the minimal downstream interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, r *models.EventReaction) error
}

// ReactionPipeline sits between the live watch and the backend processor.
// It validates records, throttles per-ticker update rate, and buffers when
// the downstream backend is unavailable.
type ReactionPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.EventReaction
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-ticker last accepted time
}

type PipelineOption func(*ReactionPipeline)

// WithMaxRPS sets the max accepted updates per second per ticker.
func WithMaxRPS(n int) PipelineOption {
	return func(p *ReactionPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *ReactionPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewReactionPipeline creates a new pipeline.
func NewReactionPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *ReactionPipeline {
	p := &ReactionPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   4,    // default throttle per ticker
		bufSize:  1000, // default buffer
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.EventReaction, p.bufSize)
	return p
}

// Start launches background flushing of buffered records.
func (p *ReactionPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case r := <-p.bufCh:
				if r == nil {
					continue
				}
				if err := p.proc.Process(ctx, r); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- r:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *ReactionPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a record downstream, buffering
// on errors.
func (p *ReactionPipeline) Process(ctx context.Context, r *models.EventReaction) error {
	start := time.Now()
	if err := validateReaction(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(r.Ticker, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, r); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- r:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateReaction(r *models.EventReaction) error {
	if r == nil {
		return fmt.Errorf("reaction nil")
	}
	if r.Ticker == "" {
		return fmt.Errorf("ticker empty")
	}
	if r.EventDate.IsZero() || r.ComputedAt.IsZero() {
		return fmt.Errorf("timestamps missing")
	}
	for _, v := range []float64{r.ReactionPct, r.ShockPct, r.DriftPct} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite reaction value")
		}
	}
	return nil
}

func (p *ReactionPipeline) allow(ticker string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[ticker]
	if last.IsZero() {
		p.lastSeen[ticker] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[ticker] = now
	return true
}
