package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hinderager/web-agency-outreach/internal/api/middleware"
	"github.com/Hinderager/web-agency-outreach/internal/pipeline"
)

// TriggerHandler exposes the pipeline run manager over HTTP.
type TriggerHandler struct {
	manager *pipeline.Manager
}

// NewTriggerHandler creates a new trigger handler.
// Parameters:
//   - manager: pipeline run manager owning the run lock.
// Returns:
//   - *TriggerHandler: initialized handler.
func NewTriggerHandler(manager *pipeline.Manager) *TriggerHandler {
	return &TriggerHandler{manager: manager}
}

// TriggerResponse represents the trigger API response.
type TriggerResponse struct {
	Message   string `json:"message"`
	StartedAt string `json:"started_at,omitempty"`
}

// Trigger starts a pipeline run if none is in flight.
// Returns 200 when the run was accepted and 409 when a run is
// already in progress.
func (h *TriggerHandler) Trigger(c *gin.Context) {
	result := h.manager.Trigger("webhook")
	if !result.Accepted {
		middleware.GetLogger(c).WithField("reason", result.Reason).Warn("Trigger rejected")
		c.JSON(http.StatusConflict, gin.H{
			"error": result.Reason,
		})
		return
	}

	middleware.GetLogger(c).Info("Pipeline run accepted")
	c.JSON(http.StatusOK, TriggerResponse{
		Message:   "pipeline run started",
		StartedAt: result.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Status reports the current run lock state and the outcome of the
// most recent run.
func (h *TriggerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Snapshot())
}

// Root describes the service and its endpoints.
func (h *TriggerHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "web-agency-outreach",
		"endpoints": gin.H{
			"POST /trigger": "start a pipeline run (409 when busy)",
			"GET /status":   "run lock state and last run outcome",
			"GET /health":   "service health",
			"GET /runs":     "recent pipeline runs",
		},
	})
}
