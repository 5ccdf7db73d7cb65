package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"QuantPilot/internal/analytics"
	"QuantPilot/internal/calculator"
	"QuantPilot/internal/model"
)

// Defaults applied to analytics requests.
const (
	DefaultPeriod    = "1y"
	DefaultBenchmark = "SPY"
)

// AnalyticsRequest selects the lookback and benchmark of a portfolio computation.
type AnalyticsRequest struct {
	Period    string `json:"period"`
	Benchmark string `json:"benchmark"`
}

func (r AnalyticsRequest) withDefaults() AnalyticsRequest {
	if r.Period == "" {
		r.Period = DefaultPeriod
	}
	r.Benchmark = strings.ToUpper(strings.TrimSpace(r.Benchmark))
	if r.Benchmark == "" {
		r.Benchmark = DefaultBenchmark
	}
	return r
}

// Collector orchestrates data fetching and the indicator and analytics engines.
type Collector struct {
	Fetcher      Fetcher
	RiskFreeRate float64
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, riskFreeRate float64) *Collector {
	return &Collector{Fetcher: fetcher, RiskFreeRate: riskFreeRate}
}

// Bars fetches the last days daily bars of symbol.
func (c *Collector) Bars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
	}
	return bars, nil
}

// Indicators fetches the history of symbol and computes every indicator per bar.
func (c *Collector) Indicators(ctx context.Context, symbol string, days int) ([]model.IndicatorPoint, error) {
	bars, err := c.Bars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeIndicators(bars), nil
}

func (c *Collector) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	return q, nil
}

func (c *Collector) Fundamentals(ctx context.Context, symbol string) (model.Fundamentals, error) {
	f, err := c.Fetcher.FetchFundamentals(ctx, symbol)
	if err != nil {
		return model.Fundamentals{}, fmt.Errorf("fetch fundamentals %s: %w", symbol, err)
	}
	return f, nil
}

// PortfolioAnalytics computes the risk and performance figures of holdings.
func (c *Collector) PortfolioAnalytics(ctx context.Context, holdings []model.Holding, req AnalyticsRequest) (model.AnalyticsResult, error) {
	req = req.withDefaults()
	histories, weights, bench, err := c.portfolioInputs(ctx, holdings, req)
	if err != nil {
		return model.AnalyticsResult{}, err
	}
	return analytics.Compute(histories, weights, bench, c.RiskFreeRate, analytics.PeriodsPerYear(req.Period))
}

// BenchmarkComparison indexes holdings and the benchmark to 100 and compares them.
func (c *Collector) BenchmarkComparison(ctx context.Context, holdings []model.Holding, req AnalyticsRequest) (model.BenchmarkComparison, error) {
	req = req.withDefaults()
	histories, weights, bench, err := c.portfolioInputs(ctx, holdings, req)
	if err != nil {
		return model.BenchmarkComparison{}, err
	}
	return analytics.CompareBenchmark(histories, weights, bench)
}

// portfolioInputs fetches every holding and the benchmark. Holdings whose
// history cannot be fetched are skipped; the benchmark is mandatory.
func (c *Collector) portfolioInputs(ctx context.Context, holdings []model.Holding, req AnalyticsRequest) (
	map[string][]model.PriceBar, map[string]float64, []model.PriceBar, error) {

	if len(holdings) == 0 {
		return nil, nil, nil, analytics.ErrInsufficientData
	}
	days := analytics.PeriodDays(req.Period)

	histories := make(map[string][]model.PriceBar, len(holdings))
	priced := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		bars, err := c.Bars(ctx, h.Symbol, days)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, nil, ctx.Err()
			}
			log.Printf("[WARN] skipping %s in portfolio analytics: %v", h.Symbol, err)
			continue
		}
		if len(bars) == 0 {
			log.Printf("[WARN] skipping %s in portfolio analytics: no bars", h.Symbol)
			continue
		}
		if h.Price <= 0 {
			h.Price = bars[len(bars)-1].Close
		}
		histories[h.Symbol] = bars
		priced = append(priced, h)
	}
	if len(histories) == 0 {
		return nil, nil, nil, analytics.ErrInsufficientData
	}

	bench, err := c.Bars(ctx, req.Benchmark, days)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("benchmark: %w", err)
	}
	return histories, Weights(priced), bench, nil
}

// Weights returns each symbol's share of the portfolio market value
// (price × quantity). Weights are not renormalized after rounding; an empty
// or worthless portfolio yields an empty map.
func Weights(holdings []model.Holding) map[string]float64 {
	values := make(map[string]decimal.Decimal, len(holdings))
	total := decimal.Zero
	for _, h := range holdings {
		v := decimal.NewFromFloat(h.Price).Mul(decimal.NewFromFloat(h.Quantity))
		values[h.Symbol] = values[h.Symbol].Add(v)
		total = total.Add(v)
	}
	weights := make(map[string]float64, len(values))
	if !total.IsPositive() {
		return weights
	}
	for symbol, v := range values {
		weights[symbol] = v.Div(total).InexactFloat64()
	}
	return weights
}
