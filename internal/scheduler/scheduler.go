package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"QuantPilot/internal/alert"
	"QuantPilot/internal/analytics"
	"QuantPilot/internal/collector"
	"QuantPilot/internal/notifier"
	"QuantPilot/internal/recorder"
	"QuantPilot/internal/store"
	"QuantPilot/internal/strategy"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Alerts    *alert.Manager
	Store     store.Store
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	// Request used by the scheduled analytics report.
	Report collector.AnalyticsRequest
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, alerts *alert.Manager, st store.Store,
	n notifier.Notifier, rec recorder.Recorder, report collector.AnalyticsRequest) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		Collector: col,
		Alerts:    alerts,
		Store:     st,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		Report:    report,
	}
}

// RegisterAll registers the alert check and the analytics report.
func (s *Scheduler) RegisterAll(alertCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(alertCron, s.alertCheck); err != nil {
		return fmt.Errorf("register alert check: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// CheckAlertsNow runs one alert check and returns the number of fired alerts.
func (s *Scheduler) CheckAlertsNow() int {
	events, err := s.Alerts.Check(s.Ctx, s.Collector)
	if err != nil {
		log.Printf("[ERROR] alert check: %v", err)
	}
	for _, e := range events {
		if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
			AlertID:     e.Alert.ID,
			Symbol:      e.Alert.Symbol,
			Condition:   e.Alert.Condition,
			TargetPrice: e.Alert.TargetPrice,
			Price:       e.Price,
		}); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
		s.trySend(notifier.FormatAlertTriggered(e.Alert, e.Price))
	}
	return len(events)
}

func (s *Scheduler) alertCheck() {
	s.CheckAlertsNow()
}

// BuildReport computes analytics for the saved portfolio, records the
// snapshot and returns the formatted report.
func (s *Scheduler) BuildReport() (string, error) {
	p, err := store.LoadPortfolio(s.Store)
	if err != nil {
		return "", fmt.Errorf("load portfolio: %w", err)
	}
	if len(p.Holdings) == 0 {
		return "📦 Portfolio is empty, nothing to analyze.", nil
	}

	res, err := s.Collector.PortfolioAnalytics(s.Ctx, p.Holdings, s.Report)
	if err != nil {
		return "", err
	}
	recs := strategy.Recommend(p.Holdings, &res)

	value := 0.0
	for _, h := range p.Holdings {
		value += h.Price * h.Quantity
	}
	period, bench := s.Report.Period, s.Report.Benchmark
	if period == "" {
		period = collector.DefaultPeriod
	}
	if bench == "" {
		bench = collector.DefaultBenchmark
	}
	if err := s.Recorder.RecordAnalytics(&recorder.AnalyticsSnapshot{
		Timestamp:      time.Now(),
		Period:         period,
		Benchmark:      bench,
		Holdings:       len(p.Holdings),
		PortfolioValue: value,
		Result:         res,
	}); err != nil {
		log.Printf("[ERROR] record analytics: %v", err)
	}
	return notifier.FormatAnalyticsReport(res, period, bench, recs, time.Now()), nil
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running analytics report")
	report, err := s.BuildReport()
	if err != nil {
		log.Printf("[ERROR] analytics report: %v", err)
		if errors.Is(err, analytics.ErrInsufficientData) {
			s.trySend("⚠️ Not enough price history for the analytics report.")
			return
		}
		s.trySend(fmt.Sprintf("❌ Analytics report failed: %v", err))
		return
	}
	s.trySend(report)
}

// RunReportNow builds and sends the analytics report immediately.
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch command {
	case "/analytics", "/report":
		report, err := s.BuildReport()
		if err != nil {
			return fmt.Sprintf("❌ Analytics failed: %v", err)
		}
		return report
	case "/alerts":
		return notifier.FormatAlertList(s.Alerts.List())
	case "/portfolio":
		p, err := store.LoadPortfolio(s.Store)
		if err != nil {
			return fmt.Sprintf("❌ Cannot load portfolio: %v", err)
		}
		return notifier.FormatPortfolio(p)
	case "/check":
		n := s.CheckAlertsNow()
		return fmt.Sprintf("🔔 Alert check done, %d fired.", n)
	default:
		return "Available commands:\n• /analytics\n• /alerts\n• /portfolio\n• /check"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
