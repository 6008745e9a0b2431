package models

// Portfolio maps asset identifiers to non-negative weights. Weights need not
// sum to 1: partial coverage is allowed when some assets have no data for a
// given event, and the system never normalizes on the caller's behalf.
type Portfolio map[string]float64

// Sensitivity is a per-asset reaction return in percent. Valid is false when
// the reaction could not be measured (no pre or post observation); an invalid
// sensitivity contributes nothing to aggregation rather than counting as zero.
type Sensitivity struct {
	Pct   float64
	Valid bool
}

// SensitivityMap holds per-asset sensitivities computed for one event.
// Ephemeral: rebuilt per query, assembly is order-insensitive.
type SensitivityMap map[string]Sensitivity
