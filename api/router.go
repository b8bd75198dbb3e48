package api

import (
	"streakOddsEngine/services/betService"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires the REST surface consumed by the UI and admin tooling.
func NewRouter(db *gorm.DB, provider betService.GameStatsProvider) *gin.Engine {
	r := gin.Default()

	h := &handler{db: db, provider: provider}

	r.POST("/bets", h.createBet)
	r.POST("/bets/:id/resolve", h.resolveBet)
	r.PATCH("/bets/:id/priority", h.reorderBet)
	r.GET("/games/:id/bets", h.listGameBets)

	r.POST("/bets/:id/selections", h.createSelection)
	r.DELETE("/selections/:id", h.withdrawSelection)

	r.POST("/parlays", h.startParlay)
	r.GET("/parlays/:id", h.getParlay)
	r.POST("/parlays/:id/selections", h.addParlaySelection)
	r.DELETE("/parlays/:id/selections/:selectionId", h.removeParlaySelection)
	r.PATCH("/parlays/:id", h.toggleInsurance)

	r.GET("/users/:id/streak-history", h.streakHistory)

	return r
}

type handler struct {
	db       *gorm.DB
	provider betService.GameStatsProvider
}
