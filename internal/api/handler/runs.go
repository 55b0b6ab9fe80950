package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
	"github.com/Hinderager/web-agency-outreach/internal/repository"
)

// RunsHandler serves the pipeline run ledger.
type RunsHandler struct {
	runs   *repository.RunRepository
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runs *repository.RunRepository, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		runs:   runs,
		logger: log,
	}
}

// ListRuns returns the most recent pipeline runs, newest first, plus
// all-time totals per outcome.
// Query parameters:
//   - limit: max rows to return (default 20, max 100).
func (h *RunsHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = parsed
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.CtxError(c.Request.Context(), "Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	totals := make(map[string]int64)
	for _, status := range []domain.RunStatus{
		domain.RunStatusSuccess,
		domain.RunStatusFailed,
		domain.RunStatusError,
	} {
		n, err := h.runs.CountByStatus(c.Request.Context(), status)
		if err != nil {
			logger.CtxError(c.Request.Context(), "Failed to count runs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count runs"})
			return
		}
		totals[string(status)] = n
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":   runs,
		"count":  len(runs),
		"totals": totals,
	})
}
