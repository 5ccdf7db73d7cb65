package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/alert"
	"QuantPilot/internal/api"
	"QuantPilot/internal/assistant"
	"QuantPilot/internal/collector"
	"QuantPilot/internal/config"
	"QuantPilot/internal/notifier"
	"QuantPilot/internal/recorder"
	"QuantPilot/internal/scheduler"
	"QuantPilot/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] QuantPilot starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.CallsPerMinute)
	if err != nil {
		log.Fatalf("[FATAL] init data source: %v", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Analytics.RiskFreeRate)

	st, err := store.Open(cfg.Storage.Backend, cfg.Storage.FilePath, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	alerts, err := alert.NewManager(st)
	if err != nil {
		log.Fatalf("[FATAL] init alert manager: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifier
	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[WARN] Telegram not configured, notifications are logged only")
	}

	// Init assistant
	var ai assistant.Assistant = assistant.Unavailable{}
	if cfg.Gemini.APIKey != "" {
		ga, err := assistant.NewGeminiAssistant(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("[WARN] init Gemini assistant failed: %v", err)
		} else {
			ai = ga
		}
	} else {
		log.Println("[WARN] GEMINI_API_KEY not set, AI chat disabled")
	}

	report := collector.AnalyticsRequest{Period: cfg.Analytics.Period, Benchmark: cfg.Analytics.Benchmark}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, alerts, st, n, rec, report)
	if err := sched.RegisterAll(cfg.Schedule.AlertCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run the report immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, sending analytics report now")
		go sched.RunReportNow()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(col, st, alerts, ai, rec, api.Options{
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		Analytics: report,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] QuantPilot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] QuantPilot stopped")
}
