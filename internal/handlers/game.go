package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/services"
)

type GameHandler struct {
	engine *services.RewardEngine
	ledger *services.Ledger
}

func NewGameHandler(engine *services.RewardEngine, ledger *services.Ledger) *GameHandler {
	return &GameHandler{engine: engine, ledger: ledger}
}

func (h *GameHandler) Spin(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.engine.PerformSpin(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) Scratch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.engine.PerformScratch(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) GetCooldowns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.engine.Cooldowns(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTables exposes the prize catalogs the client renders the wheel and
// scratch odds from.
func (h *GameHandler) GetTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"spin":    h.engine.SpinTiers(),
		"scratch": h.engine.ScratchTiers(),
	})
}

func (h *GameHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	transactions, err := h.ledger.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
