package models

import "time"

// EventReaction is the measured reaction of one asset to one release.
// Records flow through the Kafka/ClickHouse history pipeline and back out
// over the HTTP API.
type EventReaction struct {
	Ticker      string    `json:"ticker"`
	EventDate   time.Time `json:"event_date"`
	ReactionPct float64   `json:"reaction_pct"`
	ShockPct    float64   `json:"shock_pct"`
	DriftPct    float64   `json:"drift_pct"`
	Resolution  string    `json:"resolution"` // cascade tier the series came from: "1-minute", "5-minute", "daily"
	Observed    int       `json:"observed"`   // aligned observation count behind the numbers
	ComputedAt  time.Time `json:"computed_at"`
	Missing     bool      `json:"missing"` // true when no pre/post observation pair existed
}

// Tick is a live trade observation from the provider stream, used to extend
// the post-event window while an event is in its LIVE phase.
type Tick struct {
	Ticker    string  `json:"ticker"`
	Timestamp int64   `json:"t"` // unix seconds
	Price     float64 `json:"p"`
	Volume    float64 `json:"v"`
}
