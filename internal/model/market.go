package model

import "time"

// DateLayout is the layout of PriceBar.Date.
const DateLayout = "2006-01-02"

// PriceBar represents a single daily candlestick.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume uint64  `json:"volume"`
}

// Time parses Date. The zero time is returned for malformed dates.
func (b PriceBar) Time() time.Time {
	t, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PriceSeries is an ascending, duplicate-free run of bars for one symbol.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"data"`
}

// Closes extracts the close prices of bars.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Quote is the latest trading snapshot of a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        uint64    `json:"volume"`
	High52w       float64   `json:"high52w,omitempty"`
	Low52w        float64   `json:"low52w,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewQuote derives Change and ChangePercent from price and previous close.
// Both stay zero when the previous close is unknown.
func NewQuote(symbol string, price, previousClose float64, volume uint64, at time.Time) Quote {
	q := Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Volume:        volume,
		Timestamp:     at,
	}
	if previousClose > 0 {
		q.Change = price - previousClose
		q.ChangePercent = q.Change / previousClose * 100
	}
	return q
}
