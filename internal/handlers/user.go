package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/services"
)

type UserHandler struct {
	store    services.Store
	engine   *services.RewardEngine
	missions *services.MissionTracker
	ledger   *services.Ledger
}

func NewUserHandler(store services.Store, engine *services.RewardEngine, missions *services.MissionTracker, ledger *services.Ledger) *UserHandler {
	return &UserHandler{
		store:    store,
		engine:   engine,
		missions: missions,
		ledger:   ledger,
	}
}

// GetCurrentUser returns the profile, balances and cooldown state. Loading
// the profile is also what advances the daily login counter.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	if err := h.missions.CheckDailyLogin(c.Request.Context(), userID, now); err != nil {
		respondError(c, err)
		return
	}

	acct, err := h.store.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	wallet, err := h.ledger.Balances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	cooldowns, err := h.engine.Cooldowns(c.Request.Context(), userID, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"user_id":    acct.UserID,
			"username":   acct.Username,
			"avatar_url": acct.AvatarURL,
			"created_at": acct.CreatedAt,
		},
		"wallet": gin.H{
			"sol":  wallet.SolBalance,
			"dfyr": wallet.DfyrBalance,
		},
		"free_spins": acct.FreeSpins,
		"cooldowns":  cooldowns,
	})
}

// UpdateProfile lets the client sync the display name and avatar it got
// from Telegram.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	acct, err := h.store.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Username != "" {
		acct.Username = req.Username
	}
	if req.AvatarURL != "" {
		acct.AvatarURL = req.AvatarURL
	}

	if err := h.store.SaveAccount(c.Request.Context(), acct); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
