package parlayService

import (
	"errors"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStreakConflict = errors.New("streak version conflict")

const (
	settleRetries = 3
	settleBackoff = 25 * time.Millisecond
)

// SettleOnBetResolution is invoked by the bet lifecycle whenever a leg's bet
// reaches a terminal outcome. It settles every parlay containing that bet
// whose legs are now all terminal, and standalone selections immediately.
func SettleOnBetResolution(db *gorm.DB, betID uint) error {
	var selections []models.BetSelection
	if err := db.Where("bet_id = ?", betID).Find(&selections).Error; err != nil {
		return err
	}

	for _, selection := range selections {
		if selection.ParlayID == nil {
			if err := settleSingleSelection(db, selection.ID); err != nil {
				return err
			}
			continue
		}

		demoted, err := settleParlayIfComplete(db, *selection.ParlayID)
		if err != nil {
			return err
		}
		if demoted {
			// The parlay never reached two legs; its leg settles as a
			// standalone pick.
			if err := settleSingleSelection(db, selection.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// settleParlayIfComplete computes the parlay-level outcome once every leg is
// terminal and applies the streak delta. Push legs are excluded from the
// win/loss determination; an all-push parlay settles as push with no streak
// effect.
func settleParlayIfComplete(db *gorm.DB, parlayID uint) (demoted bool, err error) {
	parlay, err := loadParlay(db, parlayID)
	if err != nil {
		var svcErr *common.ServiceError
		if errors.As(err, &svcErr) && svcErr.Code == common.CodeParlayNotFound {
			return false, nil
		}
		return false, err
	}
	if parlay.Terminal() {
		return false, nil
	}
	demoted, err = ApplyLockState(db, parlay, time.Now())
	if err != nil || demoted {
		return demoted, err
	}

	status, complete := ComputeParlayOutcome(parlay.Selections)
	if !complete {
		// A leg is still open; settlement waits for it.
		return false, nil
	}

	return false, withStreakRetry(db, func(tx *gorm.DB) error {
		// Claiming the status transition first makes settlement at-most-once:
		// a concurrent settler finds zero rows and backs off.
		result := tx.Model(&models.Parlay{}).
			Where("id = ? AND status IN ?", parlay.ID, []string{models.ParlayBuilding, models.ParlayLocked}).
			Updates(map[string]interface{}{
				"status":      status,
				"resolved_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if status == models.ParlayPush {
			return nil
		}
		return applyParlayStreakDelta(tx, parlay, status)
	})
}

// SettleStranded recovers settlements that failed after the bet's own
// resolution committed: open parlays whose legs are all terminal, and
// standalone selections with a terminal outcome but no ledger entry.
// Everything it touches is idempotent, so sweeping is always safe.
func SettleStranded(db *gorm.DB) error {
	var parlays []models.Parlay
	err := db.Where("status IN ?", []string{models.ParlayBuilding, models.ParlayLocked}).
		Find(&parlays).Error
	if err != nil {
		return err
	}
	for _, parlay := range parlays {
		if _, err := settleParlayIfComplete(db, parlay.ID); err != nil {
			common.LogError(db, "settleStranded", err)
		}
	}

	var selections []models.BetSelection
	err = db.Where("parlay_id IS NULL AND outcome IN ?", []string{models.OutcomeWin, models.OutcomeLoss}).
		Where("NOT EXISTS (SELECT 1 FROM streak_events WHERE streak_events.bet_selection_id = bet_selections.id)").
		Find(&selections).Error
	if err != nil {
		return err
	}
	for _, selection := range selections {
		if err := settleSingleSelection(db, selection.ID); err != nil {
			common.LogError(db, "settleStranded", err)
		}
	}
	return nil
}

// ComputeParlayOutcome derives the parlay-level status from its legs. Push
// legs are excluded from the determination; complete is false while any leg
// is still pending.
func ComputeParlayOutcome(selections []models.BetSelection) (status string, complete bool) {
	hasLoss := false
	nonPush := 0
	for _, selection := range selections {
		switch selection.Outcome {
		case models.OutcomePending:
			return "", false
		case models.OutcomeLoss:
			hasLoss = true
			nonPush++
		case models.OutcomeWin:
			nonPush++
		}
	}

	switch {
	case hasLoss:
		return models.ParlayLost, true
	case nonPush == 0:
		return models.ParlayPush, true
	default:
		return models.ParlayWon, true
	}
}

// ComputeStreakDelta produces the ledger entry a settled parlay writes
// against the user's previous streak. A lost insured parlay deducts the
// stored insurance cost (floored at zero) instead of resetting; a plain loss
// resets; a win pays the parlay value net of insurance.
func ComputeStreakDelta(parlay *models.Parlay, status string, previous decimal.Decimal) (eventType string, pointsChange, resulting decimal.Decimal) {
	switch {
	case status == models.ParlayLost && parlay.Insured:
		eventType = models.StreakEventInsuranceDeducted
		pointsChange = parlay.InsuranceCost.Neg()
		resulting = previous.Sub(parlay.InsuranceCost)
		if resulting.IsNegative() {
			resulting = decimal.Zero
		}
	case status == models.ParlayLost:
		eventType = models.StreakEventParlayLoss
		pointsChange = previous.Neg()
		resulting = decimal.Zero
	default:
		eventType = models.StreakEventParlayWin
		pointsChange = parlay.ParlayValue
		if parlay.Insured {
			pointsChange = pointsChange.Sub(parlay.InsuranceCost)
		}
		resulting = previous.Add(pointsChange)
	}
	return eventType, pointsChange, resulting
}

func applyParlayStreakDelta(tx *gorm.DB, parlay *models.Parlay, status string) error {
	var user models.User
	if err := tx.First(&user, parlay.UserID).Error; err != nil {
		return err
	}

	eventType, pointsChange, resulting := ComputeStreakDelta(parlay, status, user.CurrentStreak)

	if err := updateUserStreak(tx, &user, resulting); err != nil {
		return err
	}

	event := models.StreakEvent{
		EventID:         uuid.NewString(),
		UserID:          user.ID,
		Type:            eventType,
		PointsChange:    pointsChange,
		ResultingStreak: resulting,
		ParlayID:        &parlay.ID,
	}
	return tx.Create(&event).Error
}

// settleSingleSelection awards or resets the streak for a standalone pick.
// Push selections have no streak effect.
func settleSingleSelection(db *gorm.DB, selectionID uint) error {
	return withStreakRetry(db, func(tx *gorm.DB) error {
		var selection models.BetSelection
		if err := tx.First(&selection, selectionID).Error; err != nil {
			return err
		}
		if selection.Outcome == models.OutcomePending || selection.Outcome == models.OutcomePush {
			return nil
		}

		// Settlement may be re-invoked on retries; the ledger is the record
		// of what has already been applied.
		var settled int64
		if err := tx.Model(&models.StreakEvent{}).Where("bet_selection_id = ?", selection.ID).Count(&settled).Error; err != nil {
			return err
		}
		if settled > 0 {
			return nil
		}

		var user models.User
		if err := tx.First(&user, selection.UserID).Error; err != nil {
			return err
		}
		previous := user.CurrentStreak

		var eventType string
		var pointsChange, resulting decimal.Decimal
		if selection.Outcome == models.OutcomeWin {
			eventType = models.StreakEventBetWin
			pointsChange = common.SingleBetWinPoints
			resulting = previous.Add(pointsChange)
		} else {
			eventType = models.StreakEventBetLoss
			pointsChange = previous.Neg()
			resulting = decimal.Zero
		}

		if err := updateUserStreak(tx, &user, resulting); err != nil {
			return err
		}

		event := models.StreakEvent{
			EventID:         uuid.NewString(),
			UserID:          user.ID,
			Type:            eventType,
			PointsChange:    pointsChange,
			ResultingStreak: resulting,
			BetSelectionID:  &selection.ID,
		}
		return tx.Create(&event).Error
	})
}

// updateUserStreak performs the version-guarded compare-and-swap on the
// user's streak counters. Zero rows affected means another settlement for the
// same user won the race; the caller's transaction rolls back and retries
// against fresh state.
func updateUserStreak(tx *gorm.DB, user *models.User, resulting decimal.Decimal) error {
	longest := user.LongestStreak
	if resulting.GreaterThan(longest) {
		longest = resulting
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND streak_version = ?", user.ID, user.StreakVersion).
		Updates(map[string]interface{}{
			"current_streak": resulting,
			"longest_streak": longest,
			"streak_version": gorm.Expr("streak_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errStreakConflict
	}
	return nil
}

// withStreakRetry runs fn in a transaction, retrying with a short backoff
// when the per-user streak CAS loses a race. The whole transaction rolls back
// on conflict, so each retry starts from fresh state.
func withStreakRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < settleRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(settleBackoff)
		}
		err = db.Transaction(fn)
		if err == nil || !errors.Is(err, errStreakConflict) {
			return err
		}
	}
	return err
}
