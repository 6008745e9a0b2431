package eventstudy

import (
	"time"

	"MacroPulse/internal/domain/models"
)

// DefaultLiveWindow is how long an event stays LIVE after its release
// instant. Matches the drift window: once drift is measurable the event is
// settled and cached results stop going stale.
const DefaultLiveWindow = 60 * time.Minute

// Phase returns the lifecycle state of an event at the given instant.
// Transitions are time-driven and monotonic; nothing reopens a POST event.
func Phase(now, releaseTime time.Time, liveWindow time.Duration) models.EventPhase {
	if liveWindow <= 0 {
		liveWindow = DefaultLiveWindow
	}
	now = now.UTC()
	release := releaseTime.UTC()
	switch {
	case now.Before(release):
		return models.PhasePre
	case now.After(release.Add(liveWindow)):
		return models.PhasePost
	default:
		return models.PhaseLive
	}
}

// CacheTTLFor picks the series-cache TTL for an event phase: short while the
// reaction is still forming, long once the event has settled.
func CacheTTLFor(phase models.EventPhase, live, post time.Duration) time.Duration {
	if phase == models.PhaseLive {
		return live
	}
	return post
}
