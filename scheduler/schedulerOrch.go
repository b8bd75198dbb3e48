package scheduler

import (
	"fmt"

	"streakOddsEngine/scheduler/scheduler_jobs"
	"streakOddsEngine/services/betService"
	"streakOddsEngine/services/common"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func SetupCron(db *gorm.DB, provider betService.GameStatsProvider) {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc("0 */5 * * * *", func() {
		// Every 5 minutes: sweep pending bets on started games.
		err := scheduler_jobs.CheckResolution(db, provider)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 * * * * *", func() {
		// Every minute: persist lock transitions near game start.
		err := scheduler_jobs.CheckParlayLocks(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 */10 * * * *", func() {
		// Every 10 minutes: recover settlements stranded by earlier failures.
		err := scheduler_jobs.CheckSettlement(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 */30 * * * *", func() {
		// Every 30 minutes: refresh the games table from the scoreboard.
		err := scheduler_jobs.SyncGames(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	if err != nil {
		common.LogError(db, "CRON ERR", err)
	}

	cronService.Start()
}
