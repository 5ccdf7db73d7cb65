// Package api exposes the QuantPilot engines over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/alert"
	"QuantPilot/internal/assistant"
	"QuantPilot/internal/collector"
	"QuantPilot/internal/recorder"
	"QuantPilot/internal/store"
)

// Options tunes the server.
type Options struct {
	RateLimit float64
	RateBurst int
	// Default analytics request for bodies that leave fields empty.
	Analytics collector.AnalyticsRequest
}

// Server wires HTTP endpoints around the collector, store and alert manager.
type Server struct {
	Router    *gin.Engine
	Collector *collector.Collector
	Store     store.Store
	Alerts    *alert.Manager
	Assistant assistant.Assistant
	Recorder  recorder.Recorder
	Options   Options
}

func NewServer(col *collector.Collector, st store.Store, alerts *alert.Manager, ai assistant.Assistant,
	rec recorder.Recorder, opts Options) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 20
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 50
	}
	if ai == nil {
		ai = assistant.Unavailable{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware(newIPLimiter(opts.RateLimit, opts.RateBurst)))
	r.Use(CORSMiddleware())

	s := &Server{
		Router:    r,
		Collector: col,
		Store:     st,
		Alerts:    alerts,
		Assistant: ai,
		Recorder:  rec,
		Options:   opts,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/ws", s.websocket)

	api := s.Router.Group("/api")
	{
		stocks := api.Group("/stocks")
		{
			stocks.POST("/quote", s.quote)
			stocks.POST("/historical", s.historical)
			stocks.GET("/fundamentals", s.fundamentals)
			stocks.POST("/fundamentals", s.fundamentals)
		}

		indicators := api.Group("/indicators")
		{
			indicators.POST("/timeseries", s.indicatorTimeseries)
			indicators.POST("/signals", s.signals)
		}

		portfolio := api.Group("/portfolio")
		{
			portfolio.GET("", s.getPortfolio)
			portfolio.PUT("", s.putPortfolio)
			portfolio.POST("/analytics", s.portfolioAnalytics)
			portfolio.POST("/benchmark", s.benchmarkComparison)
			portfolio.GET("/history", s.analyticsHistory)
		}

		api.POST("/recommendations", s.recommendations)
		api.POST("/ai/chat", s.chat)

		api.GET("/alerts", s.listAlerts)
		api.POST("/alerts", s.createAlert)
		api.DELETE("/alerts/:id", s.deleteAlert)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"provider":  s.Collector.Fetcher.Name(),
		"wsClients": s.Alerts.Subscribers(),
	})
}

// Handler returns the HTTP handler for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.Router
}
