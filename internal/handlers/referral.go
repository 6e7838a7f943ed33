package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/services"
)

type ReferralHandler struct {
	registry *services.ReferralRegistry
}

func NewReferralHandler(registry *services.ReferralRegistry) *ReferralHandler {
	return &ReferralHandler{registry: registry}
}

// GetCode returns the caller's referral code, creating it on first call.
func (h *ReferralHandler) GetCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rc, err := h.registry.IssueCode(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":        rc.Code,
		"redeemed_by": len(rc.RedeemedBy),
	})
}

func (h *ReferralHandler) Redeem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	if err := h.registry.Redeem(c.Request.Context(), code, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Code redeemed, free spin granted",
		"free_spins": 1,
	})
}
