package api

import (
	"net/http"

	"streakOddsEngine/services/parlayService"

	"github.com/gin-gonic/gin"
)

type startParlayRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	BetID  uint   `json:"bet_id" binding:"required"`
	Side   string `json:"side" binding:"required"`
}

func (h *handler) startParlay(c *gin.Context) {
	var req startParlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parlay, err := parlayService.StartParlay(h.db, req.UserID, req.BetID, req.Side)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, parlay)
}

func (h *handler) getParlay(c *gin.Context) {
	parlayID, ok := parseID(c, "id")
	if !ok {
		return
	}

	parlay, err := parlayService.GetParlay(h.db, parlayID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parlay)
}

type addSelectionRequest struct {
	BetID uint   `json:"bet_id" binding:"required"`
	Side  string `json:"side" binding:"required"`
}

func (h *handler) addParlaySelection(c *gin.Context) {
	parlayID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parlay, err := parlayService.AddSelection(h.db, parlayID, req.BetID, req.Side)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parlay)
}

func (h *handler) removeParlaySelection(c *gin.Context) {
	parlayID, ok := parseID(c, "id")
	if !ok {
		return
	}
	selectionID, ok := parseID(c, "selectionId")
	if !ok {
		return
	}

	parlay, deleted, err := parlayService.RemoveSelection(h.db, parlayID, selectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		// Below two legs there is no parlay left to return.
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
		return
	}
	c.JSON(http.StatusOK, parlay)
}

type patchParlayRequest struct {
	ToggleInsurance bool `json:"toggle_insurance"`
}

func (h *handler) toggleInsurance(c *gin.Context) {
	parlayID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req patchParlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ToggleInsurance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no supported patch operation in request"})
		return
	}

	parlay, err := parlayService.ToggleInsurance(h.db, parlayID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parlay)
}
