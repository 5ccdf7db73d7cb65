package analytics

import "math"

// SharpeRatio annualizes the excess mean return over the volatility.
// It is 0 when returns do not vary.
func SharpeRatio(returns []float64, riskFreeAnnual, periodsPerYear float64) float64 {
	sd := StdDev(returns)
	if sd == 0 || periodsPerYear <= 0 {
		return 0
	}
	excess := Mean(returns) - riskFreeAnnual/periodsPerYear
	return excess / sd * math.Sqrt(periodsPerYear)
}

// SortinoRatio is SharpeRatio with the downside deviation as the risk measure.
func SortinoRatio(returns []float64, riskFreeAnnual, periodsPerYear float64) float64 {
	dd := DownsideDeviation(returns, 0)
	if dd == 0 || periodsPerYear <= 0 {
		return 0
	}
	excess := Mean(returns) - riskFreeAnnual/periodsPerYear
	return excess / dd * math.Sqrt(periodsPerYear)
}

// MaxDrawdown returns the deepest peak-to-trough fall of the compounded
// wealth curve as a non-positive percentage.
func MaxDrawdown(returns []float64) float64 {
	wealth, peak, worst := 1.0, 1.0, 0.0
	for _, r := range returns {
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		if peak <= 0 {
			continue
		}
		if dd := (wealth - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst * 100
}

// BetaAlpha regresses portfolio returns on benchmark returns over their
// trailing shared window. Beta falls back to 1 when the benchmark is flat.
// Alpha is per period, as a fraction.
func BetaAlpha(portfolio, benchmark []float64) (beta, alpha float64) {
	p, b := trailing(portfolio, benchmark)
	if len(p) == 0 {
		return 0, 0
	}
	variance := Variance(b)
	beta = 1
	if variance != 0 {
		beta = Covariance(p, b) / variance
	}
	alpha = Mean(p) - beta*Mean(b)
	return beta, alpha
}

// Correlation is the Pearson correlation over the trailing shared window,
// 0 when either side is flat.
func Correlation(a, b []float64) float64 {
	a, b = trailing(a, b)
	va, vb := Variance(a), Variance(b)
	if va == 0 || vb == 0 {
		return 0
	}
	return Covariance(a, b) / math.Sqrt(va*vb)
}

// TrackingError is the population standard deviation of the per-period
// return differences over the trailing shared window.
func TrackingError(portfolio, benchmark []float64) float64 {
	p, b := trailing(portfolio, benchmark)
	diff := make([]float64, len(p))
	for i := range p {
		diff[i] = p[i] - b[i]
	}
	return StdDev(diff)
}

// TotalReturn compounds returns into a single fraction.
func TotalReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth - 1
}

// AnnualizedReturn scales a total return observed over numPeriods to one year.
func AnnualizedReturn(totalReturn float64, numPeriods int, periodsPerYear float64) float64 {
	if periodsPerYear <= 0 || numPeriods <= 0 {
		return 0
	}
	v := math.Pow(1+totalReturn, periodsPerYear/float64(numPeriods)) - 1
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CalmarRatio divides the annualized return by the magnitude of the max
// drawdown. Both arguments must share a unit. 0 without a drawdown.
func CalmarRatio(annualized, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualized / math.Abs(maxDrawdown)
}

// InformationRatio divides the return spread by the tracking error, all in
// the same unit. 0 when the tracking error is 0.
func InformationRatio(portfolioReturn, benchmarkReturn, trackingError float64) float64 {
	if trackingError == 0 {
		return 0
	}
	return (portfolioReturn - benchmarkReturn) / trackingError
}
