package streakService

import (
	"time"

	"streakOddsEngine/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GroupActive = "active"
	GroupEnded  = "ended"
)

// StreakGroup is a derived, read-only view: a contiguous run of streak events
// between resets.
type StreakGroup struct {
	Status     string               `json:"status"`
	PeakStreak decimal.Decimal      `json:"peakStreak"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    *time.Time           `json:"endDate,omitempty"`
	Events     []models.StreakEvent `json:"events"`
}

// GetStreakHistory loads a user's ledger and partitions it into groups,
// newest group first.
func GetStreakHistory(db *gorm.DB, userID uint) ([]StreakGroup, error) {
	var events []models.StreakEvent
	err := db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	groups := BuildStreakHistory(events)

	// Newest first for display.
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return groups, nil
}

// BuildStreakHistory partitions an ordered event list into groups. A group
// closes immediately after an event that zeroes the streak through a loss;
// insurance deductions never close a group. The trailing group, if any, is
// still active.
func BuildStreakHistory(events []models.StreakEvent) []StreakGroup {
	var groups []StreakGroup
	var current *StreakGroup

	for _, event := range events {
		if current == nil {
			groups = append(groups, StreakGroup{
				Status:    GroupActive,
				StartDate: event.CreatedAt,
			})
			current = &groups[len(groups)-1]
		}

		current.Events = append(current.Events, event)
		if event.ResultingStreak.GreaterThan(current.PeakStreak) {
			current.PeakStreak = event.ResultingStreak
		}

		if event.Zeroing() {
			end := event.CreatedAt
			current.Status = GroupEnded
			current.EndDate = &end
			current = nil
		}
	}
	return groups
}
