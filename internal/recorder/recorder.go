package recorder

import (
	"time"

	"QuantPilot/internal/model"
)

// AnalyticsSnapshot is one computed AnalyticsResult with its inputs.
type AnalyticsSnapshot struct {
	Timestamp      time.Time             `json:"timestamp"`
	Period         string                `json:"period"`
	Benchmark      string                `json:"benchmark"`
	Holdings       int                   `json:"holdings"`
	PortfolioValue float64               `json:"portfolioValue"`
	Result         model.AnalyticsResult `json:"result"`
}

// AlertEvent records a fired price alert.
type AlertEvent struct {
	AlertID     string
	Symbol      string
	Condition   model.AlertCondition
	TargetPrice float64
	Price       float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAnalytics(snap *AnalyticsSnapshot) error
	RecordAlert(evt *AlertEvent) error
	// AnalyticsHistory returns up to limit snapshots, newest first.
	AnalyticsHistory(limit int) ([]AnalyticsSnapshot, error)
	Close() error
}
