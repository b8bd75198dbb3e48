package api

import (
	"net/http"

	"streakOddsEngine/models"
	"streakOddsEngine/services/betService"
	"streakOddsEngine/services/parlayService"

	"github.com/gin-gonic/gin"
)

type createBetRequest struct {
	GameID      uint             `json:"game_id" binding:"required"`
	Config      models.BetConfig `json:"config" binding:"required"`
	DisplayText string           `json:"display_text"`
}

func (h *handler) createBet(c *gin.Context) {
	var req createBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := betService.CreateBet(h.db, req.GameID, req.Config, req.DisplayText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bet)
}

func (h *handler) resolveBet(c *gin.Context) {
	betID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := betService.ResolveBet(h.db, h.provider, betID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": result.Outcome})
}

type reorderBetRequest struct {
	Priority int `json:"priority" binding:"required,min=1"`
}

func (h *handler) reorderBet(c *gin.Context) {
	betID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req reorderBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := betService.ReorderBet(h.db, betID, req.Priority); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) listGameBets(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var bets []models.Bet
	err := h.db.Where("game_id = ?", gameID).Order("priority ASC").Find(&bets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bets)
}

type createSelectionRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Side   string `json:"side" binding:"required"`
}

func (h *handler) createSelection(c *gin.Context) {
	betID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, err := parlayService.CreateSelection(h.db, req.UserID, betID, req.Side)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, selection)
}

func (h *handler) withdrawSelection(c *gin.Context) {
	selectionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := parlayService.WithdrawSelection(h.db, selectionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
