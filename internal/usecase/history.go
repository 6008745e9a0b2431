package usecase

import (
	"context"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
)

// HistoryUseCase provides business logic for querying persisted reactions.
type HistoryUseCase struct {
	store domrepo.ReactionStore
}

func NewHistoryUseCase(store domrepo.ReactionStore) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	Ticker string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetHistoryResult struct {
	Ticker    string                  `json:"ticker"`
	From      time.Time               `json:"from"`
	To        time.Time               `json:"to"`
	Count     int                     `json:"count"`
	Reactions []*models.EventReaction `json:"reactions"`
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if p.To.IsZero() {
		p.To = time.Now().UTC()
	}
	if p.From.IsZero() {
		p.From = p.To.AddDate(-10, 0, 0)
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}

	rs, err := uc.store.Query(ctx, p.Ticker, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	return &GetHistoryResult{
		Ticker:    p.Ticker,
		From:      p.From,
		To:        p.To,
		Count:     len(rs),
		Reactions: rs,
	}, nil
}
