package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/alert"
	"QuantPilot/internal/analytics"
	"QuantPilot/internal/assistant"
	"QuantPilot/internal/collector"
)

var (
	errMissingSymbol  = errors.New("symbol is required")
	errEmptyPortfolio = errors.New("portfolio has no holdings")
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingSymbol), errors.Is(err, errEmptyPortfolio),
		errors.Is(err, alert.ErrInvalidAlert), errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNotFound), errors.Is(err, alert.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, analytics.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collector.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
