package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"match-service/internal/models"
	"match-service/internal/repositories"
)

// BalanceHandler exposes the consumable ledger.
type BalanceHandler struct {
	repo repositories.BalanceRepository
}

// NewBalanceHandler builds a BalanceHandler.
func NewBalanceHandler(repo repositories.BalanceRepository) *BalanceHandler {
	return &BalanceHandler{repo: repo}
}

// GetBalance returns the caller's consumable balances.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	bal, err := h.repo.GetBalance(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load balance"})
		return
	}
	c.JSON(http.StatusOK, bal)
}

// Credit adds consumable units to the caller's balance. The purchase flow
// calls this after a completed payment; payment processing itself lives
// elsewhere, and a caller can never credit another user's ledger.
func (h *BalanceHandler) Credit(c *gin.Context) {
	var req struct {
		Kind   string `json:"kind" binding:"required"`
		Amount int    `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidConsumable(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown consumable kind"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	bal, err := h.repo.Credit(c.Request.Context(), c.GetInt("userID"), req.Kind, req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not credit balance"})
		return
	}
	c.JSON(http.StatusOK, bal)
}
