package model

import "github.com/guregu/null/v6"

// IndicatorPoint is the chartable indicator state of one bar. Optional
// fields stay null until the indicator has enough history.
type IndicatorPoint struct {
	Date            string     `json:"date"`
	Price           float64    `json:"price"`
	SMA20           null.Float `json:"sma20"`
	SMA50           null.Float `json:"sma50"`
	MACD            null.Float `json:"macd"`
	Signal          null.Float `json:"signal"`
	Histogram       null.Float `json:"histogram"`
	BollingerUpper  null.Float `json:"bollinger_upper"`
	BollingerMiddle null.Float `json:"bollinger_middle"`
	BollingerLower  null.Float `json:"bollinger_lower"`
	Stochastic      null.Float `json:"stochastic"`
	RSI             null.Float `json:"rsi"`
	Volume          uint64     `json:"volume"`
}
