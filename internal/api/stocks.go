package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/model"
	"QuantPilot/internal/strategy"
)

const (
	defaultHistoryDays   = 30
	defaultIndicatorDays = 200
	maxDays              = 5000
)

type symbolRequest struct {
	Symbol string `json:"symbol" form:"symbol"`
	Days   int    `json:"days" form:"days"`
}

type signalsRequest struct {
	Symbol string                `json:"symbol"`
	Data   *model.IndicatorPoint `json:"data"`
}

// bindOptionalJSON binds a JSON body, treating an empty body as all defaults.
func bindOptionalJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func clampDays(days, def int) int {
	if days <= 0 {
		return def
	}
	if days > maxDays {
		return maxDays
	}
	return days
}

func (s *Server) quote(c *gin.Context) {
	var req symbolRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(c, errMissingSymbol)
		return
	}
	q, err := s.Collector.Quote(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) historical(c *gin.Context) {
	var req symbolRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(c, errMissingSymbol)
		return
	}
	bars, err := s.Collector.Bars(c.Request.Context(), symbol, clampDays(req.Days, defaultHistoryDays))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "data": bars})
}

func (s *Server) fundamentals(c *gin.Context) {
	var req symbolRequest
	if c.Request.Method == http.MethodGet {
		req.Symbol = c.Query("symbol")
	} else if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(c, errMissingSymbol)
		return
	}
	f, err := s.Collector.Fundamentals(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) indicatorTimeseries(c *gin.Context) {
	var req symbolRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(c, errMissingSymbol)
		return
	}
	points, err := s.Collector.Indicators(c.Request.Context(), symbol, clampDays(req.Days, defaultIndicatorDays))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "data": points})
}

// signals reads the supplied indicator point, or the latest computed one
// when only a symbol is given.
func (s *Server) signals(c *gin.Context) {
	var req signalsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	now := time.Now().UTC()
	if req.Data != nil {
		c.JSON(http.StatusOK, gin.H{"signals": nonNil(strategy.GenerateSignals(*req.Data, now))})
		return
	}
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		writeError(c, errMissingSymbol)
		return
	}
	points, err := s.Collector.Indicators(c.Request.Context(), symbol, defaultIndicatorDays)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": nonNil(strategy.LatestSignals(points, now))})
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
