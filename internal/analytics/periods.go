package analytics

// TradingDaysPerYear is the default annualization factor for daily returns.
const TradingDaysPerYear = 252.0

// PeriodsPerYear maps a lookback label to the annualization factor used by
// the dashboard. Unknown labels fall back to daily.
func PeriodsPerYear(period string) float64 {
	switch period {
	case "1mo":
		return TradingDaysPerYear / 21
	case "3mo":
		return TradingDaysPerYear / 63
	case "6mo":
		return TradingDaysPerYear / 126
	default:
		return TradingDaysPerYear
	}
}

// PeriodDays is the number of daily bars fetched for a lookback label.
func PeriodDays(period string) int {
	switch period {
	case "1mo":
		return 21
	case "3mo":
		return 63
	case "6mo":
		return 126
	case "2y":
		return 504
	default:
		return 252
	}
}
