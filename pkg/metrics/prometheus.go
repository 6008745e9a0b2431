package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics on Prometheus.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	reactionsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	cacheTotal     *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_fetches_total",
				Help: "Candle fetches by resolution and outcome",
			},
			[]string{"resolution", "outcome"},
		),
		reactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_reactions_total",
				Help: "Reaction records routed to a backend",
			},
			[]string{"backend", "ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_errors_total",
				Help: "Errors by kind",
			},
			[]string{"type"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_cache_requests_total",
				Help: "Series cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macropulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch counts one provider fetch. Outcome is one of "ok",
// "empty", "error".
func (r *Recorder) RecordFetch(resolution, outcome string) {
	r.fetchesTotal.WithLabelValues(resolution, outcome).Inc()
}

func (r *Recorder) RecordReaction(backend, ticker string) {
	r.reactionsTotal.WithLabelValues(backend, ticker).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache counts one cache lookup ("hit" or "miss").
func (r *Recorder) RecordCache(outcome string) {
	r.cacheTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
