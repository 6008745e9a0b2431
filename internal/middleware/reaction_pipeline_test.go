package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
)

type countingProc struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProc) Process(ctx context.Context, r *models.EventReaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *countingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, string)    {}
func (nopMetrics) RecordReaction(string, string) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordCache(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func validRecord(ticker string) *models.EventReaction {
	return &models.EventReaction{
		Ticker:      ticker,
		EventDate:   time.Date(2024, 3, 12, 12, 30, 0, 0, time.UTC),
		ReactionPct: 0.4,
		ComputedAt:  time.Now().UTC(),
	}
}

func TestPipelineForwardsValidRecords(t *testing.T) {
	proc := &countingProc{}
	p := NewReactionPipeline(proc, nopMetrics{})

	require.NoError(t, p.Process(context.Background(), validRecord("SPY")))
	assert.Equal(t, 1, proc.count())
}

func TestPipelineRejectsInvalidRecords(t *testing.T) {
	proc := &countingProc{}
	p := NewReactionPipeline(proc, nopMetrics{})

	cases := []struct {
		name string
		r    *models.EventReaction
	}{
		{"nil", nil},
		{"no ticker", func() *models.EventReaction { r := validRecord(""); return r }()},
		{"zero timestamps", &models.EventReaction{Ticker: "SPY"}},
		{"nan", func() *models.EventReaction { r := validRecord("SPY"); r.ShockPct = math.NaN(); return r }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, p.Process(context.Background(), tc.r))
		})
	}
	assert.Zero(t, proc.count())
}

func TestPipelineThrottlesPerTicker(t *testing.T) {
	proc := &countingProc{}
	p := NewReactionPipeline(proc, nopMetrics{}, WithMaxRPS(1))

	require.NoError(t, p.Process(context.Background(), validRecord("SPY")))
	// immediate second update for the same ticker is dropped silently
	require.NoError(t, p.Process(context.Background(), validRecord("SPY")))
	assert.Equal(t, 1, proc.count())

	// a different ticker has its own budget
	require.NoError(t, p.Process(context.Background(), validRecord("GLD")))
	assert.Equal(t, 2, proc.count())
}

func TestPipelineBuffersOnDownstreamFailure(t *testing.T) {
	proc := &countingProc{err: fmt.Errorf("backend down")}
	p := NewReactionPipeline(proc, nopMetrics{}, WithBufferSize(4))

	err := p.Process(context.Background(), validRecord("SPY"))
	require.Error(t, err)
	assert.Equal(t, 1, len(p.bufCh))
}
