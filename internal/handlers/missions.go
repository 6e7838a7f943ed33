package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

type MissionHandler struct {
	missions *services.MissionTracker
}

func NewMissionHandler(missions *services.MissionTracker) *MissionHandler {
	return &MissionHandler{missions: missions}
}

func (h *MissionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	statuses, err := h.missions.Snapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"missions": statuses})
}

func (h *MissionHandler) Claim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	missionID := c.Param("id")

	status, err := h.missions.Claim(c.Request.Context(), userID, missionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mission": status,
		"reward": gin.H{
			"asset":  status.RewardAsset,
			"amount": status.RewardAmount,
		},
	})
}

// RecordJoinChannel marks the join-channel mission done. The client calls
// this after the Telegram join flow completes; the reward still requires an
// explicit claim.
func (h *MissionHandler) RecordJoinChannel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.missions.Record(c.Request.Context(), userID, models.MissionJoinChannel, 1); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mission progress recorded"})
}
