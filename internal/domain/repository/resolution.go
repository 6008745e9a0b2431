package repository

// Resolution represents a provider candle resolution.
type Resolution string

const (
	Res1m Resolution = "1m"
	Res5m Resolution = "5m"
	Res1d Resolution = "1d"
)

// IsValidResolution returns true if r is a supported resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case Res1m, Res5m, Res1d:
		return true
	default:
		return false
	}
}

// Tag returns the human-readable cascade tag for a resolution.
func (r Resolution) Tag() string {
	switch r {
	case Res1m:
		return "1-minute"
	case Res5m:
		return "5-minute"
	default:
		return "daily"
	}
}

// NormalizeResolution converts a raw string to a valid resolution (or daily).
func NormalizeResolution(s string) Resolution {
	if s == "" {
		return Res1d
	}
	r := Resolution(s)
	if IsValidResolution(r) {
		return r
	}
	return Res1d
}
