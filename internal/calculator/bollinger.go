package calculator

import (
	"math"

	"github.com/guregu/null/v6"
)

const (
	bollingerPeriod = 20
	bollingerWidth  = 2.0
)

// BollingerResult holds the three bands for every bar.
type BollingerResult struct {
	Upper  []null.Float
	Middle []null.Float
	Lower  []null.Float
}

// CalculateBollinger computes Bollinger Bands(20, 2) using the population
// standard deviation of each 20-bar window.
func CalculateBollinger(prices []float64) BollingerResult {
	n := len(prices)
	res := BollingerResult{
		Upper:  make([]null.Float, n),
		Middle: make([]null.Float, n),
		Lower:  make([]null.Float, n),
	}
	for i := bollingerPeriod - 1; i < n; i++ {
		window := prices[i-bollingerPeriod+1 : i+1]
		sum := 0.0
		for _, p := range window {
			sum += p
		}
		mid := sum / bollingerPeriod
		variance := 0.0
		for _, p := range window {
			d := p - mid
			variance += d * d
		}
		sd := math.Sqrt(variance / bollingerPeriod)

		res.Middle[i] = finite(mid)
		res.Upper[i] = finite(mid + bollingerWidth*sd)
		res.Lower[i] = finite(mid - bollingerWidth*sd)
	}
	return res
}
