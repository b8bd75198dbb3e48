package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"streakOddsEngine/services/extService"

	"gorm.io/gorm"
)

// SyncGames refreshes the games table from the provider scoreboard.
func SyncGames(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in SyncGames", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in SyncGames: %v", r)
		}
	}()

	return extService.SyncGames(db)
}
