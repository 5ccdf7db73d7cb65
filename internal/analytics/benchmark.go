package analytics

import (
	"math"

	"QuantPilot/internal/model"
)

// CompareBenchmark indexes the weighted portfolio value and the benchmark
// close to 100 at the first aligned bar and derives the relative metrics.
//
// The portfolio value at bar i is the weighted sum of the holdings' closes.
// Series are aligned on their first m bars, m being the shortest of all
// holdings and the benchmark; dates are taken from the benchmark.
func CompareBenchmark(holdings map[string][]model.PriceBar, weights map[string]float64,
	benchmark []model.PriceBar) (model.BenchmarkComparison, error) {

	m := commonLength(holdings)
	if len(benchmark) < m {
		m = len(benchmark)
	}
	if m < 2 {
		return model.BenchmarkComparison{}, ErrInsufficientData
	}

	symbols := sortedSymbols(holdings)
	values := make([]float64, m)
	for i := range values {
		for _, s := range symbols {
			values[i] += holdings[s][i].Close * weights[s]
		}
	}
	benchValues := model.Closes(benchmark[:m])
	if values[0] == 0 || benchValues[0] == 0 {
		return model.BenchmarkComparison{}, ErrInsufficientData
	}

	points := make([]model.ComparisonPoint, m)
	for i := range points {
		points[i] = model.ComparisonPoint{
			Date:             benchmark[i].Date,
			PortfolioIndexed: values[i] / values[0] * 100,
			BenchmarkIndexed: benchValues[i] / benchValues[0] * 100,
		}
	}

	portReturns := Returns(values)
	benchReturns := Returns(benchValues)

	last := points[m-1]
	portTotal := last.PortfolioIndexed - 100
	benchTotal := last.BenchmarkIndexed - 100
	beta, alpha := BetaAlpha(portReturns, benchReturns)
	te := TrackingError(portReturns, benchReturns) * 100

	out := model.BenchmarkComparison{
		Points:           points,
		PortfolioReturn:  portTotal,
		BenchmarkReturn:  benchTotal,
		Alpha:            alpha * 100,
		Beta:             beta,
		Correlation:      Correlation(portReturns, benchReturns),
		TrackingError:    te,
		InformationRatio: InformationRatio(portTotal, benchTotal, te),
		Outperformance:   portTotal - benchTotal,
	}
	for _, f := range []*float64{&out.Alpha, &out.Beta, &out.Correlation, &out.TrackingError, &out.InformationRatio} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return out, nil
}
