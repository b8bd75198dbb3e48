package parlayService

import (
	"errors"
	"fmt"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/common"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StartParlay opens a building parlay with its first selection. A one-leg
// parlay is not yet a real parlay; it exists only to accumulate further legs
// and is deleted outright if it never reaches two.
func StartParlay(db *gorm.DB, userID uint, betID uint, side string) (*models.Parlay, error) {
	if err := validateSelectable(db, userID, betID, side); err != nil {
		return nil, err
	}

	parlay := models.Parlay{
		UserID:   userID,
		BetCount: 1,
		Status:   models.ParlayBuilding,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&parlay).Error; err != nil {
			return err
		}
		selection := models.BetSelection{
			BetID:        betID,
			UserID:       userID,
			SelectedSide: side,
			Status:       models.SelectionSelected,
			Outcome:      models.OutcomePending,
			ParlayID:     &parlay.ID,
		}
		return tx.Create(&selection).Error
	})
	if err != nil {
		return nil, err
	}
	return loadParlay(db, parlay.ID)
}

// AddSelection adds a leg and recomputes the derived value fields.
func AddSelection(db *gorm.DB, parlayID uint, betID uint, side string) (*models.Parlay, error) {
	parlay, err := loadParlay(db, parlayID)
	if err != nil {
		return nil, err
	}
	demoted, err := ApplyLockState(db, parlay, time.Now())
	if err != nil {
		return nil, err
	}
	if demoted {
		return nil, common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("parlay %d not found", parlayID))
	}
	if parlay.Status != models.ParlayBuilding {
		return nil, common.NewServiceError(common.CodeParlayLocked, "parlay is locked")
	}

	for _, selection := range parlay.Selections {
		if selection.BetID == betID {
			return nil, common.NewServiceError(common.CodeDuplicateBet, "bet already in parlay")
		}
	}
	if err := validateSelectable(db, parlay.UserID, betID, side); err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		selection := models.BetSelection{
			BetID:        betID,
			UserID:       parlay.UserID,
			SelectedSide: side,
			Status:       models.SelectionSelected,
			Outcome:      models.OutcomePending,
			ParlayID:     &parlay.ID,
		}
		if err := tx.Create(&selection).Error; err != nil {
			return err
		}
		return recomputeDerived(tx, parlay.ID)
	})
	if err != nil {
		return nil, err
	}
	return loadParlay(db, parlay.ID)
}

// RemoveSelection removes a leg. When removal would leave fewer than two legs
// the parlay and its remaining selections are deleted entirely; the boolean
// return reports that deletion so the caller can answer with a deletion
// signal instead of a parlay body.
func RemoveSelection(db *gorm.DB, parlayID uint, selectionID uint) (*models.Parlay, bool, error) {
	parlay, err := loadParlay(db, parlayID)
	if err != nil {
		return nil, false, err
	}
	demoted, err := ApplyLockState(db, parlay, time.Now())
	if err != nil {
		return nil, false, err
	}
	if demoted {
		return nil, false, common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("parlay %d not found", parlayID))
	}
	if parlay.Status != models.ParlayBuilding {
		return nil, false, common.NewServiceError(common.CodeParlayLocked, "parlay is locked")
	}

	found := false
	for _, selection := range parlay.Selections {
		if selection.ID == selectionID {
			found = true
			break
		}
	}
	if !found {
		return nil, false, common.NewServiceError(common.CodeParlayNotFound,
			fmt.Sprintf("selection %d not in parlay %d", selectionID, parlayID))
	}

	if parlay.BetCount-1 < common.MinParlayLegs {
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("parlay_id = ?", parlay.ID).Delete(&models.BetSelection{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Parlay{}, parlay.ID).Error
		})
		if err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BetSelection{}, selectionID).Error; err != nil {
			return err
		}
		return recomputeDerived(tx, parlay.ID)
	})
	if err != nil {
		return nil, false, err
	}
	updated, err := loadParlay(db, parlay.ID)
	return updated, false, err
}

// ToggleInsurance flips the insured flag. Only building parlays of four or
// more legs qualify. The cost is stored now so settlement uses the cost in
// effect when the parlay locked, even if the table changes later.
func ToggleInsurance(db *gorm.DB, parlayID uint) (*models.Parlay, error) {
	parlay, err := loadParlay(db, parlayID)
	if err != nil {
		return nil, err
	}
	demoted, err := ApplyLockState(db, parlay, time.Now())
	if err != nil {
		return nil, err
	}
	if demoted {
		return nil, common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("parlay %d not found", parlayID))
	}
	if parlay.Status != models.ParlayBuilding {
		return nil, common.NewServiceError(common.CodeParlayLocked, "parlay is locked")
	}
	if parlay.BetCount < common.MinInsuranceLegs {
		return nil, common.NewServiceError(common.CodeInsuranceUnavailable,
			fmt.Sprintf("insurance requires at least %d legs", common.MinInsuranceLegs))
	}

	insured := !parlay.Insured
	cost := decimal.Zero
	if insured {
		cost = common.InsuranceCost(parlay.BetCount)
	}
	err = db.Model(&models.Parlay{}).Where("id = ?", parlay.ID).
		Updates(map[string]interface{}{
			"insured":        insured,
			"insurance_cost": cost,
		}).Error
	if err != nil {
		return nil, err
	}
	return loadParlay(db, parlay.ID)
}

// GetParlay loads a parlay with lock state applied, so reads near the lock
// boundary are consistent.
func GetParlay(db *gorm.DB, parlayID uint) (*models.Parlay, error) {
	parlay, err := loadParlay(db, parlayID)
	if err != nil {
		return nil, err
	}
	demoted, err := ApplyLockState(db, parlay, time.Now())
	if err != nil {
		return nil, err
	}
	if demoted {
		return nil, common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("parlay %d not found", parlayID))
	}
	return parlay, nil
}

// ApplyLockState is the idempotent lock transition, evaluated at read and
// write boundaries rather than by a background timer. A parlay locks the
// moment its earliest selection's game starts. The transition persists
// LockedAt exactly once; later calls observe the stored value.
//
// A parlay reaching the boundary with fewer than two legs never became a
// real parlay: it is demoted instead of locked. Its legs become standalone
// selections, the shell row is deleted, and the demoted return tells the
// caller the parlay no longer exists.
func ApplyLockState(db *gorm.DB, parlay *models.Parlay, now time.Time) (demoted bool, err error) {
	if parlay.Terminal() || parlay.LockedAt != nil {
		return false, nil
	}

	earliest := earliestGameStart(db, parlay)
	if earliest == nil || now.Before(*earliest) {
		return false, nil
	}

	if parlay.BetCount < common.MinParlayLegs {
		return true, demoteParlay(db, parlay)
	}

	// Guarded on locked_at IS NULL so the transition is recorded once even if
	// two readers observe the boundary simultaneously.
	result := db.Model(&models.Parlay{}).
		Where("id = ? AND locked_at IS NULL", parlay.ID).
		Updates(map[string]interface{}{
			"status":    models.ParlayLocked,
			"locked_at": *earliest,
		})
	if result.Error != nil {
		return false, result.Error
	}

	err = db.Model(&models.BetSelection{}).
		Where("parlay_id = ? AND status = ?", parlay.ID, models.SelectionSelected).
		UpdateColumn("status", models.SelectionLocked).Error
	if err != nil {
		return false, err
	}

	parlay.Status = models.ParlayLocked
	parlay.LockedAt = earliest
	return false, nil
}

// demoteParlay detaches the remaining legs as standalone picks and removes
// the parlay row, so they settle as single bets.
func demoteParlay(db *gorm.DB, parlay *models.Parlay) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.BetSelection{}).
			Where("parlay_id = ?", parlay.ID).
			UpdateColumn("parlay_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ? AND locked_at IS NULL", parlay.ID).Delete(&models.Parlay{}).Error
	})
}

func earliestGameStart(db *gorm.DB, parlay *models.Parlay) *time.Time {
	var earliest *time.Time
	for _, selection := range parlay.Selections {
		game := selection.Bet.Game
		if game.ID == 0 {
			var bet models.Bet
			if err := db.Preload("Game").First(&bet, selection.BetID).Error; err != nil {
				continue
			}
			game = bet.Game
		}
		start := game.StartTime
		if earliest == nil || start.Before(*earliest) {
			earliest = &start
		}
	}
	return earliest
}

func loadParlay(db *gorm.DB, parlayID uint) (*models.Parlay, error) {
	var parlay models.Parlay
	err := db.Preload("Selections").Preload("Selections.Bet").Preload("Selections.Bet.Game").
		First(&parlay, parlayID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.CodeParlayNotFound, fmt.Sprintf("parlay %d not found", parlayID))
		}
		return nil, err
	}
	return &parlay, nil
}

// recomputeDerived refreshes betCount, parlayValue and insuranceCost from the
// current leg set. Dropping below the insurance threshold clears insurance.
func recomputeDerived(tx *gorm.DB, parlayID uint) error {
	var count int64
	if err := tx.Model(&models.BetSelection{}).Where("parlay_id = ?", parlayID).Count(&count).Error; err != nil {
		return err
	}
	legs := int(count)

	updates := map[string]interface{}{
		"bet_count":    legs,
		"parlay_value": common.ParlayValue(legs),
	}
	if legs < common.MinInsuranceLegs {
		updates["insured"] = false
		updates["insurance_cost"] = decimal.Zero
	} else {
		var parlay models.Parlay
		if err := tx.First(&parlay, parlayID).Error; err != nil {
			return err
		}
		if parlay.Insured {
			updates["insurance_cost"] = common.InsuranceCost(legs)
		}
	}
	return tx.Model(&models.Parlay{}).Where("id = ?", parlayID).Updates(updates).Error
}

func validateSelectable(db *gorm.DB, userID uint, betID uint, side string) error {
	var bet models.Bet
	if err := db.Preload("Game").First(&bet, betID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewServiceError(common.CodeBetNotFound, fmt.Sprintf("bet %d not found", betID))
		}
		return err
	}
	if bet.Outcome != models.OutcomePending {
		return common.NewServiceError(common.CodeAlreadyResolved, "bet already resolved").
			WithDetail("currentOutcome", bet.Outcome)
	}
	if !time.Now().Before(bet.Game.StartTime) {
		return common.NewServiceError(common.CodeParlayLocked, "game has already started")
	}

	primary, secondary, err := bet.Config.Sides()
	if err != nil {
		return err
	}
	if side != primary && side != secondary {
		return common.NewServiceError(common.CodeValidationFailed,
			fmt.Sprintf("side %q is not valid for this bet", side))
	}

	var existing int64
	err = db.Model(&models.BetSelection{}).
		Where("bet_id = ? AND user_id = ?", betID, userID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return common.NewServiceError(common.CodeDuplicateBet, "user already has a selection on this bet")
	}
	return nil
}
