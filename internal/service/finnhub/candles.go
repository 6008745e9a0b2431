package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/ratelimit"
	xhttp "MacroPulse/pkg/http"
	"MacroPulse/pkg/logger"
)

const rateKey = "finnhub:rest"

// CandleClient fetches historical candles from the Finnhub REST API and
// implements the domain MarketData interface.
type CandleClient struct {
	apiKey       string
	baseURL      string
	http         *xhttp.Client
	limiter      *ratelimit.Limiter
	rateCapacity float64
	rateRefill   float64
	logger       *logger.Logger
}

func NewCandleClient(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter, rateCapacity, rateRefill float64, lgr *logger.Logger) *CandleClient {
	return &CandleClient{
		apiKey:       apiKey,
		baseURL:      baseURL,
		http:         xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:      limiter,
		rateCapacity: rateCapacity,
		rateRefill:   rateRefill,
		logger:       lgr,
	}
}

// candleResponse is Finnhub's column-oriented candle payload. Status is
// "ok" or "no_data".
type candleResponse struct {
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"`
	Status string    `json:"s"`
}

// FetchSeries pulls candles for [start, end]. A "no_data" status maps to
// an empty series, not an error, so the cascade can fall through.
func (c *CandleClient) FetchSeries(ctx context.Context, ticker string, start, end time.Time, res drepo.Resolution) (models.TimeSeries, error) {
	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if !c.limiter.Wait(rateKey, c.rateCapacity, c.rateRefill, deadline) {
		return nil, fmt.Errorf("finnhub: rate limit wait expired for %s", ticker)
	}

	param, err := resolutionParam(res)
	if err != nil {
		return nil, err
	}

	var resp candleResponse
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {ticker},
			"resolution": {param},
			"from":       {strconv.FormatInt(start.Unix(), 10)},
			"to":         {strconv.FormatInt(end.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub candles %s/%s: %w", ticker, res, err)
	}

	if resp.Status != "ok" || len(resp.Time) == 0 {
		c.logger.Debug("finnhub: no candle data",
			logger.String("ticker", ticker),
			logger.String("resolution", string(res)))
		return models.TimeSeries{}, nil
	}
	if len(resp.Close) != len(resp.Time) {
		return nil, fmt.Errorf("finnhub candles %s: column length mismatch c=%d t=%d", ticker, len(resp.Close), len(resp.Time))
	}

	series := make(models.TimeSeries, 0, len(resp.Time))
	for i := range resp.Time {
		series = append(series, models.PricePoint{
			Timestamp: time.Unix(resp.Time[i], 0).UTC(),
			Price:     resp.Close[i],
		})
	}
	return series, nil
}

func resolutionParam(res drepo.Resolution) (string, error) {
	switch res {
	case drepo.Res1m:
		return "1", nil
	case drepo.Res5m:
		return "5", nil
	case drepo.Res1d:
		return "D", nil
	default:
		return "", fmt.Errorf("finnhub: unsupported resolution %q", res)
	}
}
