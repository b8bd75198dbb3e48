package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"streakOddsEngine/services/parlayService"

	"gorm.io/gorm"
)

// CheckSettlement sweeps for settlements that were stranded by a failure
// after their bet resolved: resolution's conditional update had committed,
// so the resolution sweep will never revisit the bet.
func CheckSettlement(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckSettlement", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckSettlement: %v", r)
		}
	}()

	return parlayService.SettleStranded(db)
}
