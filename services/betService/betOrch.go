package betService

import (
	"errors"
	"fmt"

	"streakOddsEngine/models"
	"streakOddsEngine/services/common"

	"gorm.io/gorm"
)

// CreateBet validates a config and persists a pending bet against a game.
// Malformed configs are rejected here so they can never reach resolution.
func CreateBet(db *gorm.DB, gameID uint, config models.BetConfig, displayText string) (*models.Bet, error) {
	if err := config.Validate(); err != nil {
		return nil, common.NewServiceError(common.CodeValidationFailed, err.Error())
	}

	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.CodeValidationFailed, fmt.Sprintf("game %d not found", gameID))
		}
		return nil, err
	}

	if displayText == "" {
		displayText = defaultDisplayText(config)
	}

	// Priority is dense per game: next slot after the current max.
	var maxPriority int
	row := db.Model(&models.Bet{}).Where("game_id = ?", gameID).Select("COALESCE(MAX(priority), 0)").Row()
	if err := row.Scan(&maxPriority); err != nil {
		return nil, err
	}

	bet := models.Bet{
		GameID:      gameID,
		BetType:     config.Type,
		Config:      config,
		Priority:    maxPriority + 1,
		Outcome:     models.OutcomePending,
		DisplayText: displayText,
	}
	if err := db.Create(&bet).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

// ReorderBet moves a bet to a new priority slot, shifting its neighbors so
// priorities stay dense. Display only; resolution never reads priority.
func ReorderBet(db *gorm.DB, betID uint, newPriority int) error {
	var bet models.Bet
	if err := db.First(&bet, betID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewServiceError(common.CodeBetNotFound, fmt.Sprintf("bet %d not found", betID))
		}
		return err
	}
	if newPriority == bet.Priority {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if newPriority < bet.Priority {
			err := tx.Model(&models.Bet{}).
				Where("game_id = ? AND priority >= ? AND priority < ?", bet.GameID, newPriority, bet.Priority).
				UpdateColumn("priority", gorm.Expr("priority + 1")).Error
			if err != nil {
				return err
			}
		} else {
			err := tx.Model(&models.Bet{}).
				Where("game_id = ? AND priority > ? AND priority <= ?", bet.GameID, bet.Priority, newPriority).
				UpdateColumn("priority", gorm.Expr("priority - 1")).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&models.Bet{}).Where("id = ?", bet.ID).UpdateColumn("priority", newPriority).Error
	})
}

func defaultDisplayText(config models.BetConfig) string {
	switch config.Type {
	case models.BetTypeComparison:
		c := config.Comparison
		if c.Spread != nil {
			return fmt.Sprintf("%s (%s%.1f) vs %s", c.Participant1.SubjectName, c.Spread.Direction, c.Spread.Value, c.Participant2.SubjectName)
		}
		return fmt.Sprintf("%s vs %s", c.Participant1.SubjectName, c.Participant2.SubjectName)
	case models.BetTypeThreshold:
		c := config.Threshold
		return fmt.Sprintf("%s %s %s %.1f", c.Participant.SubjectName, c.Participant.Metric, c.Operator, c.Threshold)
	case models.BetTypeEvent:
		c := config.Event
		return fmt.Sprintf("%s %s", c.Participant.SubjectName, c.EventType)
	default:
		return ""
	}
}
