package calculator

import (
	"errors"
	"math"

	"github.com/guregu/null/v6"
)

var (
	errPeriod       = errors.New("period must be positive")
	errInsufficient = errors.New("not enough data")
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(prices) < period {
		return 0, errInsufficient
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA computes the exponential moving average over the whole of
// prices: seeded with the SMA of the first period values, then smoothed
// forward with alpha = 2/(period+1).
func CalculateEMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(prices) < period {
		return 0, errInsufficient
	}
	alpha := 2 / (float64(period) + 1)
	sum := 0.0
	for _, p := range prices[:period] {
		sum += p
	}
	ema := sum / float64(period)
	for _, p := range prices[period:] {
		ema = p*alpha + ema*(1-alpha)
	}
	return ema, nil
}

// SMASeries returns the SMA ending at every index; null before period-1.
// Each window is summed afresh so the values match CalculateSMA exactly.
func SMASeries(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		v, err := CalculateSMA(prices[:i+1], period)
		if err == nil {
			out[i] = finite(v)
		}
	}
	return out
}

// EMASeries returns, for every index i, the value CalculateEMA(prices[:i+1])
// would produce; null before period-1.
//
// The prefix computation for i+1 is the prefix computation for i followed by
// one more smoothing step, so carrying the running value forward yields the
// same floating point results as recomputing each prefix.
func EMASeries(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	alpha := 2 / (float64(period) + 1)
	sum := 0.0
	for _, p := range prices[:period] {
		sum += p
	}
	ema := sum / float64(period)
	out[period-1] = finite(ema)
	for i := period; i < len(prices); i++ {
		ema = prices[i]*alpha + ema*(1-alpha)
		out[i] = finite(ema)
	}
	return out
}

func finite(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}
