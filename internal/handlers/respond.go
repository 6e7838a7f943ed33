package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/services"
)

// respondError maps the service error taxonomy onto HTTP statuses. Every
// expected outcome gets a stable "code" the client can switch on.
func respondError(c *gin.Context, err error) {
	var cooldown *services.CooldownError
	if errors.As(err, &cooldown) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "Action is on cooldown",
			"code":         "on_cooldown",
			"remaining_ms": cooldown.Remaining / time.Millisecond,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance", "code": "insufficient_balance"})
	case errors.Is(err, services.ErrBelowMinimum):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount below minimum", "code": "below_minimum"})
	case errors.Is(err, services.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination address", "code": "invalid_address"})
	case errors.Is(err, services.ErrNotEligible):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mission not completed yet", "code": "not_eligible"})
	case errors.Is(err, services.ErrSelfRedemption):
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot redeem your own code", "code": "self_redemption"})
	case errors.Is(err, services.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "Code already redeemed", "code": "already_redeemed"})
	case errors.Is(err, services.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Reward already claimed", "code": "already_claimed"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition", "code": "invalid_transition"})
	case errors.Is(err, services.ErrUnknownCode):
		c.JSON(http.StatusNotFound, gin.H{"error": "Referral code not found", "code": "unknown_code"})
	case errors.Is(err, services.ErrUnknownMission):
		c.JSON(http.StatusNotFound, gin.H{"error": "Mission not found", "code": "unknown_mission"})
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Withdrawal request not found", "code": "request_not_found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}
