// Package analytics computes portfolio risk and performance statistics from
// daily price histories. Every function is pure and safe for concurrent use.
package analytics

import (
	"errors"
	"math"

	"QuantPilot/internal/model"
)

// ErrInsufficientData is returned when a required series has fewer than two
// aligned points.
var ErrInsufficientData = errors.New("insufficient data")

// Compute derives the AnalyticsResult of a weighted portfolio against a
// benchmark.
//
// Holdings are aligned on their first m bars, m being the shortest history.
// Beta and alpha use the trailing window shared with the benchmark returns.
func Compute(holdings map[string][]model.PriceBar, weights map[string]float64,
	benchmark []model.PriceBar, riskFreeAnnual, periodsPerYear float64) (model.AnalyticsResult, error) {

	if commonLength(holdings) < 2 || len(benchmark) < 2 {
		return model.AnalyticsResult{}, ErrInsufficientData
	}

	returns := PortfolioReturns(holdings, weights)
	benchReturns := Returns(model.Closes(benchmark))

	maxDD := MaxDrawdown(returns)
	beta, alpha := BetaAlpha(returns, benchReturns)
	total := TotalReturn(returns)
	annualized := AnnualizedReturn(total, len(returns), periodsPerYear)

	res := model.AnalyticsResult{
		SharpeRatio:       SharpeRatio(returns, riskFreeAnnual, periodsPerYear),
		SortinoRatio:      SortinoRatio(returns, riskFreeAnnual, periodsPerYear),
		MaxDrawdown:       maxDD,
		Volatility:        StdDev(returns) * math.Sqrt(periodsPerYear) * 100,
		Beta:              beta,
		Alpha:             alpha * 100,
		TotalReturn:       total * 100,
		AnnualizedReturn:  annualized * 100,
		DownsideDeviation: DownsideDeviation(returns, 0) * math.Sqrt(periodsPerYear) * 100,
		CalmarRatio:       CalmarRatio(annualized*100, maxDD),
	}
	return sanitize(res), nil
}

// sanitize zeroes any field that overflowed to NaN or an infinity.
func sanitize(r model.AnalyticsResult) model.AnalyticsResult {
	for _, f := range []*float64{
		&r.SharpeRatio, &r.SortinoRatio, &r.MaxDrawdown, &r.Volatility, &r.Beta,
		&r.Alpha, &r.TotalReturn, &r.AnnualizedReturn, &r.DownsideDeviation, &r.CalmarRatio,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return r
}
