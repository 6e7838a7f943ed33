package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

type AdminHandler struct {
	workflow *services.WithdrawalWorkflow
	stats    *services.StatsService
}

func NewAdminHandler(workflow *services.WithdrawalWorkflow, stats *services.StatsService) *AdminHandler {
	return &AdminHandler{workflow: workflow, stats: stats}
}

func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := models.WithdrawalStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	requests, err := h.workflow.List(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": requests})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	h.transition(c, h.workflow.Approve)
}

func (h *AdminHandler) Reject(c *gin.Context) {
	h.transition(c, h.workflow.Reject)
}

func (h *AdminHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.workflow.MarkSent)
}

func (h *AdminHandler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*models.WithdrawalRequest, error)) {
	req, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawal": req})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	snapshot, err := h.stats.Snapshot(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
