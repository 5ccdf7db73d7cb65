package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/assistant"
	"QuantPilot/internal/store"
)

type chatRequest struct {
	Message       string `json:"message"`
	SelectedStock string `json:"selectedStock"`
}

func (s *Server) chat(c *gin.Context) {
	var body chatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if body.Message == "" {
		writeError(c, assistant.ErrEmptyMessage)
		return
	}
	ctx := c.Request.Context()

	p, err := store.LoadPortfolio(s.Store)
	if err != nil {
		writeError(c, err)
		return
	}
	req := assistant.Request{
		Message:       body.Message,
		Portfolio:     p.Holdings,
		SelectedStock: normalizeSymbol(body.SelectedStock),
	}
	if req.SelectedStock != "" {
		points, err := s.Collector.Indicators(ctx, req.SelectedStock, defaultIndicatorDays)
		if err != nil {
			log.Printf("[WARN] chat without indicators for %s: %v", req.SelectedStock, err)
		} else if len(points) > 0 {
			req.Latest = &points[len(points)-1]
		}
	}

	reply, err := s.Assistant.Chat(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
