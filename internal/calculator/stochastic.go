package calculator

import (
	"github.com/guregu/null/v6"

	"QuantPilot/internal/model"
)

const stochasticPeriod = 14

// CalculateStochastic computes %K(14) from the bars' highs, lows and closes.
// Bars whose 14-bar range is flat have no value.
func CalculateStochastic(bars []model.PriceBar) []null.Float {
	out := make([]null.Float, len(bars))
	for i := stochasticPeriod - 1; i < len(bars); i++ {
		high, low, err := windowRange(bars[i-stochasticPeriod+1 : i+1])
		if err != nil || high == low {
			continue
		}
		out[i] = finite((bars[i].Close - low) / (high - low) * 100)
	}
	return out
}
