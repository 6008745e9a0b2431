package models

import "errors"

// Typed domain failures. Per-asset and per-event failures are local: they
// surface as these sentinels and are absorbed into skip-this-asset behavior
// by aggregation. Only ErrBadConfig is fatal, and only at construction time.
var (
	// ErrDataUnavailable marks a provider window that returned nothing usable.
	// It never propagates past the resolution selector, which converts it to
	// an empty series.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientObservations marks an aligned series lacking the pre- or
	// post-event point a reaction metric needs.
	ErrInsufficientObservations = errors.New("insufficient observations around event")

	// ErrInsufficientSample marks a regime bucket with too few returns for a
	// stable VaR estimate. Distinct from ErrInsufficientObservations so
	// callers can report "not enough data" instead of a noisy number.
	ErrInsufficientSample = errors.New("sample too small for stable estimate")

	// ErrBadConfig marks structural misconfiguration: inverted regime
	// cutoffs, negative portfolio weights, a non-monotonic event registry.
	ErrBadConfig = errors.New("invalid configuration")
)
