package api

import (
	"net/http"

	"streakOddsEngine/services/streakService"

	"github.com/gin-gonic/gin"
)

func (h *handler) streakHistory(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	groups, err := streakService.GetStreakHistory(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groups)
}
