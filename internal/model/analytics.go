package model

// AnalyticsResult bundles the risk and performance figures of a portfolio.
// MaxDrawdown, Volatility, Alpha, TotalReturn, AnnualizedReturn and
// DownsideDeviation are percentages; the ratios and Beta are plain numbers.
type AnalyticsResult struct {
	SharpeRatio       float64 `json:"sharpeRatio"`
	SortinoRatio      float64 `json:"sortinoRatio"`
	MaxDrawdown       float64 `json:"maxDrawdown"`
	Volatility        float64 `json:"volatility"`
	Beta              float64 `json:"beta"`
	Alpha             float64 `json:"alpha"`
	TotalReturn       float64 `json:"totalReturn"`
	AnnualizedReturn  float64 `json:"annualizedReturn"`
	DownsideDeviation float64 `json:"downsideDeviation"`
	CalmarRatio       float64 `json:"calmarRatio"`
}

// ComparisonPoint is one date of a portfolio vs benchmark chart, both
// indexed to 100 at the first aligned date.
type ComparisonPoint struct {
	Date             string  `json:"date"`
	PortfolioIndexed float64 `json:"portfolio"`
	BenchmarkIndexed float64 `json:"benchmark"`
}

// BenchmarkComparison holds the indexed series and the relative metrics.
// Returns, Alpha, TrackingError and Outperformance are percentages.
type BenchmarkComparison struct {
	Points           []ComparisonPoint `json:"data"`
	PortfolioReturn  float64           `json:"portfolioReturn"`
	BenchmarkReturn  float64           `json:"benchmarkReturn"`
	Alpha            float64           `json:"alpha"`
	Beta             float64           `json:"beta"`
	Correlation      float64           `json:"correlation"`
	TrackingError    float64           `json:"trackingError"`
	InformationRatio float64           `json:"informationRatio"`
	Outperformance   float64           `json:"outperformance"`
}
