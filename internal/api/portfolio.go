package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/analytics"
	"QuantPilot/internal/collector"
	"QuantPilot/internal/model"
	"QuantPilot/internal/recorder"
	"QuantPilot/internal/store"
	"QuantPilot/internal/strategy"
)

func (s *Server) getPortfolio(c *gin.Context) {
	p, err := store.LoadPortfolio(s.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	if p.Holdings == nil {
		p.Holdings = []model.Holding{}
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) putPortfolio(c *gin.Context) {
	var p model.Portfolio
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	seen := make(map[string]bool, len(p.Holdings))
	for i := range p.Holdings {
		h := &p.Holdings[i]
		h.Symbol = normalizeSymbol(h.Symbol)
		switch {
		case h.Symbol == "":
			badRequest(c, fmt.Errorf("holding %d: %w", i, errMissingSymbol))
			return
		case h.Quantity <= 0:
			badRequest(c, fmt.Errorf("holding %s: quantity must be positive", h.Symbol))
			return
		case h.Price < 0 || h.AvgCost < 0:
			badRequest(c, fmt.Errorf("holding %s: prices must not be negative", h.Symbol))
			return
		case seen[h.Symbol]:
			badRequest(c, fmt.Errorf("holding %s listed twice", h.Symbol))
			return
		}
		seen[h.Symbol] = true
	}
	if p.Holdings == nil {
		p.Holdings = []model.Holding{}
	}
	p.UpdatedAt = time.Now().UTC()
	if err := store.SavePortfolio(s.Store, p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// analyticsRequest fills empty fields of the body from the server defaults.
func (s *Server) analyticsRequest(c *gin.Context) (collector.AnalyticsRequest, error) {
	var req collector.AnalyticsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		return req, err
	}
	if req.Period == "" {
		req.Period = s.Options.Analytics.Period
	}
	if req.Benchmark == "" {
		req.Benchmark = s.Options.Analytics.Benchmark
	}
	return req, nil
}

func (s *Server) loadHoldings() ([]model.Holding, error) {
	p, err := store.LoadPortfolio(s.Store)
	if err != nil {
		return nil, err
	}
	if len(p.Holdings) == 0 {
		return nil, errEmptyPortfolio
	}
	return p.Holdings, nil
}

func (s *Server) portfolioAnalytics(c *gin.Context) {
	req, err := s.analyticsRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	holdings, err := s.loadHoldings()
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := s.Collector.PortfolioAnalytics(c.Request.Context(), holdings, req)
	if err != nil {
		writeError(c, err)
		return
	}
	s.record(req, holdings, res)
	c.JSON(http.StatusOK, res)
}

func (s *Server) record(req collector.AnalyticsRequest, holdings []model.Holding, res model.AnalyticsResult) {
	value := 0.0
	for _, h := range holdings {
		value += h.Price * h.Quantity
	}
	snap := &recorder.AnalyticsSnapshot{
		Timestamp:      time.Now().UTC(),
		Period:         req.Period,
		Benchmark:      req.Benchmark,
		Holdings:       len(holdings),
		PortfolioValue: value,
		Result:         res,
	}
	if snap.Period == "" {
		snap.Period = collector.DefaultPeriod
	}
	if snap.Benchmark == "" {
		snap.Benchmark = collector.DefaultBenchmark
	}
	if err := s.Recorder.RecordAnalytics(snap); err != nil {
		log.Printf("[ERROR] record analytics: %v", err)
	}
}

func (s *Server) benchmarkComparison(c *gin.Context) {
	req, err := s.analyticsRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	holdings, err := s.loadHoldings()
	if err != nil {
		writeError(c, err)
		return
	}
	cmp, err := s.Collector.BenchmarkComparison(c.Request.Context(), holdings, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (s *Server) analyticsHistory(c *gin.Context) {
	limit := 30
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	hist, err := s.Recorder.AnalyticsHistory(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": nonNil(hist)})
}

// recommendations runs analytics when enough history exists; the
// allocation rules apply either way.
func (s *Server) recommendations(c *gin.Context) {
	req, err := s.analyticsRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	holdings, err := s.loadHoldings()
	if err != nil {
		writeError(c, err)
		return
	}
	var metrics *model.AnalyticsResult
	res, err := s.Collector.PortfolioAnalytics(c.Request.Context(), holdings, req)
	switch {
	case err == nil:
		metrics = &res
	case errors.Is(err, analytics.ErrInsufficientData):
		log.Printf("[WARN] recommendations without analytics: %v", err)
	default:
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": nonNil(strategy.Recommend(holdings, metrics))})
}
