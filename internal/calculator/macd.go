package calculator

import "github.com/guregu/null/v6"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACDResult holds the per-bar MACD line, signal line and histogram.
type MACDResult struct {
	MACD      []null.Float
	Signal    []null.Float
	Histogram []null.Float
}

// CalculateMACD computes MACD(12, 26, 9) for every bar.
//
// The MACD line starts at index 25. The signal line is the EMA9 of the MACD
// history collected so far, so it starts once nine MACD values exist
// (index 33).
func CalculateMACD(prices []float64) MACDResult {
	n := len(prices)
	res := MACDResult{
		MACD:      make([]null.Float, n),
		Signal:    make([]null.Float, n),
		Histogram: make([]null.Float, n),
	}
	if n < macdSlow {
		return res
	}

	fast := EMASeries(prices, macdFast)
	slow := EMASeries(prices, macdSlow)

	history := make([]float64, 0, n-macdSlow+1)
	for i := macdSlow - 1; i < n; i++ {
		if !fast[i].Valid || !slow[i].Valid {
			continue
		}
		macd := fast[i].Float64 - slow[i].Float64
		res.MACD[i] = finite(macd)
		history = append(history, macd)
	}

	signal := EMASeries(history, macdSignal)
	first := macdSlow - 1
	for k, s := range signal {
		i := first + k
		if !s.Valid || !res.MACD[i].Valid {
			continue
		}
		res.Signal[i] = s
		res.Histogram[i] = finite(res.MACD[i].Float64 - s.Float64)
	}
	return res
}
