package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

type alertService interface {
	List(ctx context.Context, tenantID string, status domain.AlertStatus) ([]domain.Alert, error)
	Acknowledge(ctx context.Context, id, by string) (*domain.Alert, error)
	Resolve(ctx context.Context, id, by, notes string) (*domain.Alert, error)
}

type acknowledgeRequest struct {
	By string `json:"by" binding:"required"`
}

type resolveRequest struct {
	By    string `json:"by" binding:"required"`
	Notes string `json:"notes"`
}

type AlertHandler struct {
	alertSvc alertService
}

func NewAlertHandler(alertSvc alertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

func (h *AlertHandler) Register(r *gin.RouterGroup) {
	r.GET("/alerts", h.ListAlerts)
	r.POST("/alerts/:alert_id/acknowledge", h.AcknowledgeAlert)
	r.POST("/alerts/:alert_id/resolve", h.ResolveAlert)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	status := domain.AlertStatus(c.Query("status"))
	alerts, err := h.alertSvc.List(c.Request.Context(), tenantID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "by is required"})
		return
	}

	alert, err := h.alertSvc.Acknowledge(c.Request.Context(), c.Param("alert_id"), req.By)
	if err != nil {
		h.renderTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "by is required"})
		return
	}

	alert, err := h.alertSvc.Resolve(c.Request.Context(), c.Param("alert_id"), req.By, req.Notes)
	if err != nil {
		h.renderTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) renderTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "alert state does not allow this transition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
	}
}
