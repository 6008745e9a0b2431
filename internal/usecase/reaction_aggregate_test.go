package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPulse/internal/domain/models"
	pkgcache "MacroPulse/pkg/cache"
	applogger "MacroPulse/pkg/logger"
)

type fakeStudy struct {
	mu       sync.Mutex
	calls    int
	failFor  string
	missing  map[string]bool
	reaction float64
}

func (s *fakeStudy) Measure(ctx context.Context, ticker string, event models.MacroEvent) (*models.EventReaction, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if ticker == s.failFor {
		return nil, fmt.Errorf("provider down")
	}
	return &models.EventReaction{
		Ticker:      ticker,
		EventDate:   event.Date,
		ReactionPct: s.reaction,
		Resolution:  "1-minute",
		Observed:    10,
		ComputedAt:  time.Now().UTC(),
		Missing:     s.missing[ticker],
	}, nil
}

func (s *fakeStudy) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testUniverse() map[string]string {
	return map[string]string{
		"S&P 500": "SPY",
		"Gold":    "GLD",
		"Dollar":  "UUP",
	}
}

func TestGetEventStudyFansOut(t *testing.T) {
	study := &fakeStudy{reaction: 0.4}
	uc := NewReactionAggregateUseCase(study, nil, applogger.New("test"), testUniverse(), time.Hour, time.Minute, time.Hour)

	res, err := uc.GetEventStudy(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Len(t, res.Reactions, 3)
	assert.Nil(t, res.Errors)
	assert.InDelta(t, 0.1, res.Surprise, 1e-9)
	assert.Equal(t, "SPY", res.Reactions["S&P 500"].Ticker)
}

func TestGetEventStudyCollectsPerAssetErrors(t *testing.T) {
	study := &fakeStudy{reaction: 0.4, failFor: "GLD"}
	uc := NewReactionAggregateUseCase(study, nil, applogger.New("test"), testUniverse(), time.Hour, time.Minute, time.Hour)

	res, err := uc.GetEventStudy(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Len(t, res.Reactions, 2)
	require.Contains(t, res.Errors, "Gold")
	assert.Contains(t, res.Errors["Gold"], "provider down")
}

func TestGetEventStudyUsesCache(t *testing.T) {
	study := &fakeStudy{reaction: 0.4}
	cache := pkgcache.NewMemoryCache()
	uc := NewReactionAggregateUseCase(study, cache, applogger.New("test"), testUniverse(), time.Hour, time.Minute, time.Hour)

	_, err := uc.GetEventStudy(context.Background(), testEvent())
	require.NoError(t, err)
	first := study.callCount()
	assert.Equal(t, 3, first)

	res, err := uc.GetEventStudy(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, first, study.callCount(), "second study should be served from cache")
	assert.Len(t, res.Reactions, 3)
}

func TestSensitivitiesSkipMissing(t *testing.T) {
	study := &fakeStudy{reaction: 1.5, missing: map[string]bool{"UUP": true}}
	uc := NewReactionAggregateUseCase(study, nil, applogger.New("test"), testUniverse(), time.Hour, time.Minute, time.Hour)

	res, err := uc.GetEventStudy(context.Background(), testEvent())
	require.NoError(t, err)

	sens := res.Sensitivities()
	require.Len(t, sens, 3)
	assert.True(t, sens["SPY"].Valid)
	assert.False(t, sens["UUP"].Valid)
}

func TestGetEventStudyEmptyUniverse(t *testing.T) {
	uc := NewReactionAggregateUseCase(&fakeStudy{}, nil, applogger.New("test"), nil, time.Hour, time.Minute, time.Hour)
	_, err := uc.GetEventStudy(context.Background(), testEvent())
	assert.Error(t, err)
}
