package model

import "time"

// SignalType classifies a trading signal.
type SignalType string

const (
	SignalBullish SignalType = "bullish"
	SignalBearish SignalType = "bearish"
	SignalWarning SignalType = "warning"
)

// Signal is a rule-based reading of the latest indicator point.
type Signal struct {
	Type       SignalType `json:"type"`
	Indicator  string     `json:"indicator"`
	Message    string     `json:"signal"`
	Confidence float64    `json:"confidence"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a portfolio-level suggestion.
type Recommendation struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
	Priority    Priority `json:"priority"`
}
