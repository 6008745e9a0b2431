package models

import "time"

// MacroEvent is a scheduled macroeconomic release. Events are immutable
// records loaded once per session; the registry keeps them sorted by date
// with unique dates per indicator.
type MacroEvent struct {
	Date     time.Time
	Actual   float64
	Forecast float64
}

// Surprise is the release surprise: actual minus consensus forecast.
func (e MacroEvent) Surprise() float64 { return e.Actual - e.Forecast }

// PolicyEvent is a scheduled policy decision (e.g., a rate announcement)
// carrying a categorical label instead of a numeric print.
type PolicyEvent struct {
	Date  time.Time
	Label string
}

// EventPhase is the lifecycle state of an event relative to wall-clock time.
// Transitions are monotonic and time-driven only.
type EventPhase int

const (
	PhasePre EventPhase = iota
	PhaseLive
	PhasePost
)

func (p EventPhase) String() string {
	switch p {
	case PhasePre:
		return "pre"
	case PhaseLive:
		return "live"
	default:
		return "post"
	}
}
