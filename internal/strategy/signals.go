// Package strategy turns indicator readings and portfolio analytics into
// rule-based signals and recommendations.
package strategy

import (
	"fmt"
	"time"

	"QuantPilot/internal/model"
)

// RSI thresholds.
const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0
)

// Confidence attached to each rule.
const (
	confidenceRSI       = 0.75
	confidenceMACD      = 0.82
	confidenceUpperBand = 0.68
	confidenceLowerBand = 0.72
)

// GenerateSignals reads one indicator point. A rule whose inputs are null
// never fires.
func GenerateSignals(p model.IndicatorPoint, now time.Time) []model.Signal {
	signals := []model.Signal{}

	// RSI
	if p.RSI.Valid {
		switch rsi := p.RSI.Float64; {
		case rsi < RSIOversold:
			signals = append(signals, model.Signal{
				Type:       model.SignalBullish,
				Indicator:  "RSI Oversold",
				Message:    fmt.Sprintf("RSI at %.2f - Potential oversold condition, watch for reversal", rsi),
				Confidence: confidenceRSI,
				Timestamp:  now,
			})
		case rsi > RSIOverbought:
			signals = append(signals, model.Signal{
				Type:       model.SignalBearish,
				Indicator:  "RSI Overbought",
				Message:    fmt.Sprintf("RSI at %.2f - Potential overbought condition", rsi),
				Confidence: confidenceRSI,
				Timestamp:  now,
			})
		}
	}

	// MACD
	if p.MACD.Valid && p.Signal.Valid && p.Histogram.Valid {
		macd, sig, hist := p.MACD.Float64, p.Signal.Float64, p.Histogram.Float64
		switch {
		case hist > 0 && macd > sig:
			signals = append(signals, model.Signal{
				Type:       model.SignalBullish,
				Indicator:  "MACD Crossover",
				Message:    "Bullish MACD crossover detected - Uptrend strengthening",
				Confidence: confidenceMACD,
				Timestamp:  now,
			})
		case hist < 0 && macd < sig:
			signals = append(signals, model.Signal{
				Type:       model.SignalBearish,
				Indicator:  "MACD Crossover",
				Message:    "Bearish MACD crossover - Downtrend detected",
				Confidence: confidenceMACD,
				Timestamp:  now,
			})
		}
	}

	// Bollinger Bands
	if p.BollingerUpper.Valid && p.BollingerLower.Valid && p.Price > 0 {
		switch {
		case p.Price > p.BollingerUpper.Float64:
			signals = append(signals, model.Signal{
				Type:       model.SignalWarning,
				Indicator:  "Bollinger Band",
				Message:    "Price above upper band - High volatility, potential pullback",
				Confidence: confidenceUpperBand,
				Timestamp:  now,
			})
		case p.Price < p.BollingerLower.Float64:
			signals = append(signals, model.Signal{
				Type:       model.SignalBullish,
				Indicator:  "Bollinger Band",
				Message:    "Price below lower band - Volatility extreme, potential bounce",
				Confidence: confidenceLowerBand,
				Timestamp:  now,
			})
		}
	}

	return signals
}

// LatestSignals evaluates the last point of a series.
func LatestSignals(points []model.IndicatorPoint, now time.Time) []model.Signal {
	if len(points) == 0 {
		return []model.Signal{}
	}
	return GenerateSignals(points[len(points)-1], now)
}
