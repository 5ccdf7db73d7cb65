package analytics

import (
	"sort"

	"QuantPilot/internal/model"
)

// Returns derives simple period returns from a value series. A zero
// previous value yields a zero return instead of an infinity.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		out[i-1] = (values[i] - prev) / prev
	}
	return out
}

// ValuesToReturns is Returns over a wealth curve; it is the inverse of WealthCurve.
func ValuesToReturns(values []float64) []float64 {
	return Returns(values)
}

// WealthCurve compounds returns from a starting wealth of 1. The curve has
// len(returns)+1 points.
func WealthCurve(returns []float64) []float64 {
	curve := make([]float64, len(returns)+1)
	curve[0] = 1
	for i, r := range returns {
		curve[i+1] = curve[i] * (1 + r)
	}
	return curve
}

// commonLength is the shortest bar count among the holdings, 0 when empty.
func commonLength(holdings map[string][]model.PriceBar) int {
	if len(holdings) == 0 {
		return 0
	}
	m := -1
	for _, bars := range holdings {
		if m < 0 || len(bars) < m {
			m = len(bars)
		}
	}
	return m
}

// sortedSymbols fixes the summation order so results are reproducible.
func sortedSymbols(holdings map[string][]model.PriceBar) []string {
	symbols := make([]string, 0, len(holdings))
	for s := range holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// PortfolioReturns weights each holding's returns over the first m bars,
// m being the shortest history. Weights are applied as given at every step.
// Symbols missing from weights contribute nothing.
func PortfolioReturns(holdings map[string][]model.PriceBar, weights map[string]float64) []float64 {
	m := commonLength(holdings)
	if m < 2 {
		return []float64{}
	}
	out := make([]float64, m-1)
	for _, symbol := range sortedSymbols(holdings) {
		w := weights[symbol]
		if w == 0 {
			continue
		}
		r := Returns(model.Closes(holdings[symbol][:m]))
		for i := range out {
			out[i] += w * r[i]
		}
	}
	return out
}

// trailing aligns two series to their shared length, keeping the most recent values.
func trailing(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}
