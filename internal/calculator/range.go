package calculator

import (
	"errors"
	"math"

	"QuantPilot/internal/model"
)

// tradingDaysPerYear is the number of bars scanned for the 52-week range.
const tradingDaysPerYear = 252

// Calculate52WeekRange scans the most recent 252 bars and returns the high and low.
func Calculate52WeekRange(bars []model.PriceBar) (high, low float64, err error) {
	n := len(bars)
	start := n - tradingDaysPerYear
	if start < 0 {
		start = 0
	}
	return windowRange(bars[start:])
}

func windowRange(bars []model.PriceBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where current sits within [low, high], clamped to 0.0~1.0.
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
