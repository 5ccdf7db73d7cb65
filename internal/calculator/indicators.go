package calculator

import (
	"github.com/guregu/null/v6"

	"QuantPilot/internal/model"
)

const rsiPeriod = 14

// ComputeIndicators returns one IndicatorPoint per bar with every indicator
// whose lookback is satisfied at that bar. An empty series yields an empty
// (non-nil) slice.
func ComputeIndicators(bars []model.PriceBar) []model.IndicatorPoint {
	points := make([]model.IndicatorPoint, len(bars))
	if len(bars) == 0 {
		return points
	}

	prices := model.Closes(bars)
	sma20 := SMASeries(prices, 20)
	sma50 := SMASeries(prices, 50)
	macd := CalculateMACD(prices)
	bands := CalculateBollinger(prices)
	stoch := CalculateStochastic(bars)
	rsi := RSISeries(prices, rsiPeriod)

	for i, b := range bars {
		points[i] = model.IndicatorPoint{
			Date:            b.Date,
			Price:           b.Close,
			SMA20:           sma20[i],
			SMA50:           sma50[i],
			MACD:            macd.MACD[i],
			Signal:          macd.Signal[i],
			Histogram:       macd.Histogram[i],
			BollingerUpper:  bands.Upper[i],
			BollingerMiddle: bands.Middle[i],
			BollingerLower:  bands.Lower[i],
			Stochastic:      stoch[i],
			RSI:             rsi[i],
			Volume:          b.Volume,
		}
	}
	return points
}

// RSISeries returns CalculateRSI over the prefix ending at every index;
// null before index period.
func RSISeries(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 {
		return out
	}
	for i := period; i < len(prices); i++ {
		v, err := CalculateRSI(prices[:i+1], period)
		if err == nil {
			out[i] = finite(v)
		}
	}
	return out
}
