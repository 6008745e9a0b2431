package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"MacroPulse/internal/domain/models"
	domrepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/services/eventstudy"
	"MacroPulse/pkg/util"
)

// CorrelationUseCase tracks when a pair's relationship breaks from its
// historical norm: rolling correlation of daily returns, z-scored against a
// long trailing baseline, with days beyond the threshold flagged.
type CorrelationUseCase struct {
	data       domrepo.MarketData
	metrics    domrepo.Metrics
	lookback   int // calendar days of daily closes to pull
	longWindow int
	now        func() time.Time
}

func NewCorrelationUseCase(data domrepo.MarketData, metrics domrepo.Metrics) *CorrelationUseCase {
	return &CorrelationUseCase{
		data:       data,
		metrics:    metrics,
		lookback:   730,
		longWindow: eventstudy.DefaultCorrLongWindow,
		now:        time.Now,
	}
}

type CorrelationParams struct {
	AssetA    string
	AssetB    string
	Window    int
	Threshold float64
}

type CorrelationResult struct {
	AssetA    string                      `json:"asset_a"`
	AssetB    string                      `json:"asset_b"`
	Window    int                         `json:"window"`
	Threshold float64                     `json:"threshold"`
	Series    []models.CorrelationPoint   `json:"series"`
	Anomalies []models.CorrelationAnomaly `json:"anomalies"`
}

func (uc *CorrelationUseCase) GetCorrelation(ctx context.Context, p CorrelationParams) (*CorrelationResult, error) {
	if p.AssetA == "" || p.AssetB == "" {
		return nil, fmt.Errorf("both assets required")
	}
	if p.Window < 2 {
		p.Window = 30
	}
	if p.Threshold <= 0 {
		p.Threshold = 2.0
	}

	end := uc.now().UTC()
	start := end.AddDate(0, 0, -uc.lookback)

	sa, err := uc.data.FetchSeries(ctx, p.AssetA, start, end, domrepo.Res1d)
	if err != nil {
		return nil, fmt.Errorf("daily series %s: %w", p.AssetA, err)
	}
	sb, err := uc.data.FetchSeries(ctx, p.AssetB, start, end, domrepo.Res1d)
	if err != nil {
		return nil, fmt.Errorf("daily series %s: %w", p.AssetB, err)
	}

	dates, closesA, closesB := intersectByDay(sa, sb)
	if len(dates) < p.Window+1 {
		return nil, fmt.Errorf("%w: %d shared trading days, need %d", models.ErrInsufficientSample, len(dates), p.Window+1)
	}

	retA := eventstudy.PercentReturns(closesA)
	retB := eventstudy.PercentReturns(closesB)
	retDates := dates[1:] // returns index from the second shared day

	corr := eventstudy.RollingCorrelation(retA, retB, p.Window)
	z := eventstudy.CorrelationZScore(corr, uc.longWindow)

	res := &CorrelationResult{
		AssetA:    p.AssetA,
		AssetB:    p.AssetB,
		Window:    p.Window,
		Threshold: p.Threshold,
		Anomalies: eventstudy.CorrelationAnomalies(p.AssetA, p.AssetB, retDates, corr, z, p.Threshold),
	}
	for i := range corr {
		if math.IsNaN(corr[i]) {
			continue
		}
		pt := models.CorrelationPoint{Date: retDates[i], Corr: corr[i]}
		if !math.IsNaN(z[i]) {
			pt.ZScore = z[i]
		}
		res.Series = append(res.Series, pt)
	}
	return res, nil
}

// intersectByDay keeps only the UTC days present in both series, so the two
// return series line up index for index.
func intersectByDay(a, b models.TimeSeries) ([]time.Time, []float64, []float64) {
	byDay := make(map[time.Time]float64, len(b))
	for _, p := range b {
		byDay[util.TruncateToDay(p.Timestamp)] = p.Price
	}

	var (
		dates            []time.Time
		closesA, closesB []float64
	)
	// Series timestamps are strictly increasing, so the intersection stays
	// in date order.
	for _, p := range a {
		day := util.TruncateToDay(p.Timestamp)
		pb, ok := byDay[day]
		if !ok {
			continue
		}
		dates = append(dates, day)
		closesA = append(closesA, p.Price)
		closesB = append(closesB, pb)
	}
	return dates, closesA, closesB
}
