package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"QuantPilot/internal/model"
)

type createAlertRequest struct {
	Symbol      string               `json:"symbol"`
	TargetPrice float64              `json:"targetPrice"`
	Condition   model.AlertCondition `json:"condition"`
}

func (s *Server) listAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": nonNil(s.Alerts.List())})
}

func (s *Server) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := s.Alerts.Add(req.Symbol, req.TargetPrice, req.Condition)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) deleteAlert(c *gin.Context) {
	if err := s.Alerts.Remove(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
