package eventstudy

import (
	"testing"
	"time"

	"MacroPulse/internal/domain/models"
)

func TestPhaseTransitions(t *testing.T) {
	release := time.Date(2024, 1, 12, 13, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want models.EventPhase
	}{
		{"before release", release.Add(-time.Hour), models.PhasePre},
		{"at release", release, models.PhaseLive},
		{"mid live window", release.Add(30 * time.Minute), models.PhaseLive},
		{"window boundary", release.Add(60 * time.Minute), models.PhaseLive},
		{"after window", release.Add(61 * time.Minute), models.PhasePost},
		{"days later", release.Add(72 * time.Hour), models.PhasePost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Phase(tc.now, release, 0); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestCacheTTLFor(t *testing.T) {
	live, post := 15*time.Second, time.Hour
	if got := CacheTTLFor(models.PhaseLive, live, post); got != live {
		t.Fatalf("live ttl: got %v", got)
	}
	if got := CacheTTLFor(models.PhasePost, live, post); got != post {
		t.Fatalf("post ttl: got %v", got)
	}
	if got := CacheTTLFor(models.PhasePre, live, post); got != post {
		t.Fatalf("pre ttl: got %v", got)
	}
}
