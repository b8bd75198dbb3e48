package scheduler_jobs

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/betService"
	"streakOddsEngine/services/common"

	"gorm.io/gorm"
)

// CheckResolution sweeps pending bets whose games have started and pushes
// each through the same ResolveBet entry point the admin API uses. Retryable
// outcomes (not started yet, incomplete box scores, provider hiccups) are
// expected and simply left for the next sweep.
func CheckResolution(db *gorm.DB, provider betService.GameStatsProvider) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckResolution", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckResolution: %v", r)
		}
	}()

	var pendingBets []models.Bet
	result := db.Joins("JOIN games ON games.id = bets.game_id").
		Where("bets.outcome = ? AND games.start_time <= ? AND games.status NOT IN ?",
			models.OutcomePending, time.Now(),
			[]string{models.GameStatusCancelled, models.GameStatusPostponed}).
		Find(&pendingBets)
	if result.Error != nil {
		return result.Error
	}

	for _, bet := range pendingBets {
		_, resolveErr := betService.ResolveBet(db, provider, bet.ID)
		if resolveErr == nil {
			continue
		}

		var svcErr *common.ServiceError
		if errors.As(resolveErr, &svcErr) && svcErr.Retryable {
			continue
		}
		common.LogError(db, "checkResolution", resolveErr)
	}

	return nil
}
