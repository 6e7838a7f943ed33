package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

type WalletHandler struct {
	ledger   *services.Ledger
	workflow *services.WithdrawalWorkflow
}

func NewWalletHandler(ledger *services.Ledger, workflow *services.WithdrawalWorkflow) *WalletHandler {
	return &WalletHandler{ledger: ledger, workflow: workflow}
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wallet, err := h.ledger.Balances(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sol":  wallet.SolBalance,
		"dfyr": wallet.DfyrBalance,
	})
}

func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Amount  float64 `json:"amount" binding:"required"`
		Asset   string  `json:"asset" binding:"required"`
		Address string  `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount, asset and address are required"})
		return
	}

	asset := models.Asset(strings.ToUpper(req.Asset))
	if !asset.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset must be SOL or DFYR"})
		return
	}

	w, err := h.workflow.Request(c.Request.Context(), userID, req.Amount, asset, strings.TrimSpace(req.Address))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	requests, err := h.workflow.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": requests})
}
