package parlayService

import (
	"errors"
	"fmt"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/common"

	"gorm.io/gorm"
)

// CreateSelection records a standalone (non-parlay) pick for a user.
func CreateSelection(db *gorm.DB, userID uint, betID uint, side string) (*models.BetSelection, error) {
	if err := validateSelectable(db, userID, betID, side); err != nil {
		return nil, err
	}

	selection := models.BetSelection{
		BetID:        betID,
		UserID:       userID,
		SelectedSide: side,
		Status:       models.SelectionSelected,
		Outcome:      models.OutcomePending,
	}
	if err := db.Create(&selection).Error; err != nil {
		return nil, err
	}
	return &selection, nil
}

// WithdrawSelection deletes a standalone pick before its game starts. Once
// the game is underway the selection is immutable. Parlay legs are withdrawn
// through RemoveSelection so the parlay's derived fields stay consistent.
func WithdrawSelection(db *gorm.DB, selectionID uint) error {
	var selection models.BetSelection
	err := db.Preload("Bet").Preload("Bet.Game").First(&selection, selectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("selection %d not found", selectionID))
		}
		return err
	}
	if selection.ParlayID != nil {
		return common.NewServiceError(common.CodeValidationFailed,
			"selection belongs to a parlay; remove it from the parlay instead")
	}
	if selection.Status != models.SelectionSelected || !time.Now().Before(selection.Bet.Game.StartTime) {
		return common.NewServiceError(common.CodeParlayLocked, "selection is locked")
	}
	return db.Delete(&models.BetSelection{}, selectionID).Error
}
