package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/parlayService"

	"gorm.io/gorm"
)

// CheckParlayLocks walks building parlays and applies the lock transition for
// any whose earliest game has started. Locking is lock-on-read; this job just
// persists transitions promptly so reads near the boundary stay cheap.
func CheckParlayLocks(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckParlayLocks", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckParlayLocks: %v", r)
		}
	}()

	var parlays []models.Parlay
	result := db.Preload("Selections").Preload("Selections.Bet").Preload("Selections.Bet.Game").
		Where("status = ? AND locked_at IS NULL", models.ParlayBuilding).
		Find(&parlays)
	if result.Error != nil {
		return result.Error
	}

	now := time.Now()
	for i := range parlays {
		if _, lockErr := parlayService.ApplyLockState(db, &parlays[i], now); lockErr != nil {
			log.Printf("error locking parlay %d: %v", parlays[i].ID, lockErr)
		}
	}

	return nil
}
