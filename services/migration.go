package services

import (
	"fmt"
	"log"
	"time"

	"streakOddsEngine/models"

	"gorm.io/gorm"
)

// RunLongestStreakBackfill recomputes each user's longest streak from the
// event ledger. Earlier builds only tracked the current streak, so longest
// values for users from that era are missing. Runs once; the migrations table
// records completion.
func RunLongestStreakBackfill(db *gorm.DB) error {
	var existingMigration models.Migration
	result := db.Where("name = ?", "longest_streak_backfill").First(&existingMigration)
	if result.Error == nil && existingMigration.ID != 0 {
		return nil
	}

	log.Println("Starting longest streak backfill...")

	type peakRow struct {
		UserID uint
		Peak   string
	}
	var peaks []peakRow
	err := db.Model(&models.StreakEvent{}).
		Select("user_id, MAX(resulting_streak) AS peak").
		Group("user_id").
		Scan(&peaks).Error
	if err != nil {
		return fmt.Errorf("error computing ledger peaks: %v", err)
	}

	updated := 0
	for _, row := range peaks {
		result := db.Model(&models.User{}).
			Where("id = ? AND longest_streak < ?", row.UserID, row.Peak).
			UpdateColumn("longest_streak", row.Peak)
		if result.Error != nil {
			log.Printf("Error updating longest streak for user %d: %v", row.UserID, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			updated++
		}
	}

	migration := models.Migration{
		Name:       "longest_streak_backfill",
		ExecutedAt: time.Now(),
	}
	if err := db.Create(&migration).Error; err != nil {
		return fmt.Errorf("error marking migration as complete: %v", err)
	}

	log.Printf("Longest streak backfill completed. Updated %d users.", updated)
	return nil
}
