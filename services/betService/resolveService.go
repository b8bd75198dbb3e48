package betService

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"streakOddsEngine/models"
	"streakOddsEngine/services/common"
	"streakOddsEngine/services/parlayService"

	"gorm.io/gorm"
)

// GameStatus is the provider's view of a game.
type GameStatus struct {
	Status    string
	StartTime time.Time
}

// GameStatsProvider is the external game-data collaborator. Fetches are
// network I/O and may fail transiently.
type GameStatsProvider interface {
	GetGameStatus(gameID string) (GameStatus, error)
	GetStatsSnapshot(gameID string) (StatsLookup, error)
}

const (
	fetchAttempts = 3
	fetchBackoff  = 250 * time.Millisecond
)

// ResolveResult reports a successful (or idempotently skipped) resolution.
type ResolveResult struct {
	Outcome string
	// NoOp is set when a concurrent caller won the resolution race. Losing
	// the race is success, not an error.
	NoOp bool
}

// ResolveBet runs the pending -> resolved transition for a single bet. Manual
// admin triggers and the scheduled sweep both come through here; there is no
// other path that mutates a bet's outcome.
func ResolveBet(db *gorm.DB, provider GameStatsProvider, betID uint) (*ResolveResult, error) {
	var bet models.Bet
	if err := db.Preload("Game").First(&bet, betID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.CodeBetNotFound, fmt.Sprintf("bet %d not found", betID))
		}
		return nil, err
	}

	now := time.Now()
	if bet.Game.Status == models.GameStatusScheduled && !now.Before(bet.Game.StartTime) {
		// The synced row says the game has not started but its tip time has
		// passed; ask the provider before refusing to resolve. A provider
		// failure falls back to the synced row.
		if err := refreshGameStatus(db, provider, &bet.Game); err != nil {
			common.LogError(db, "resolveBet", err)
		}
	}
	if bet.Game.Status == models.GameStatusScheduled || now.Before(bet.Game.StartTime) {
		minutes := int(math.Ceil(bet.Game.StartTime.Sub(now).Minutes()))
		if minutes < 0 {
			minutes = 0
		}
		return nil, common.NewServiceError(common.CodeGameNotStarted, "game has not started").
			AsRetryable().
			WithDetail("timeUntilStartMinutes", minutes)
	}

	if bet.Outcome != models.OutcomePending {
		return nil, common.NewServiceError(common.CodeAlreadyResolved, "bet already resolved").
			WithDetail("currentOutcome", bet.Outcome)
	}

	if !bet.Game.Resolvable() {
		return nil, common.NewServiceError(common.CodeGameInvalidStatus,
			fmt.Sprintf("game status %q does not support resolution", bet.Game.Status)).
			WithDetail("gameStatus", bet.Game.Status)
	}

	stats, err := fetchSnapshot(provider, bet.Game.EspnID)
	if err != nil {
		common.LogError(db, "resolveBet", err)
		return nil, common.NewServiceError(common.CodeGameDataFetchFailed, "stats provider fetch failed").
			AsRetryable().
			WithDetail("providerError", err.Error())
	}

	resolution, err := Evaluate(bet.Config, stats)
	if err != nil {
		// Unknown bet type or operator: a data-model mismatch between bet
		// creation and resolution. Fatal, never skipped.
		common.LogError(db, "resolveBet", err)
		return nil, err
	}

	if !resolution.Resolved {
		// Incomplete data is a legitimate try-again-later signal; the bet
		// stays pending for the next sweep.
		return nil, common.NewServiceError(common.CodeResolutionFailed, resolution.Reason).AsRetryable()
	}

	snapshotJSON, err := json.Marshal(resolution.Snapshot)
	if err != nil {
		return nil, err
	}
	snapshotStr := string(snapshotJSON)

	// Guarding on outcome = 'pending' makes the transition at-most-once: of N
	// concurrent callers exactly one update touches the row.
	result := db.Model(&models.Bet{}).
		Where("id = ? AND outcome = ?", bet.ID, models.OutcomePending).
		Updates(map[string]interface{}{
			"outcome":             resolution.Outcome,
			"resolution_snapshot": snapshotStr,
			"resolved_at":         now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var current models.Bet
		if err := db.First(&current, bet.ID).Error; err != nil {
			return nil, err
		}
		return &ResolveResult{Outcome: current.Outcome, NoOp: true}, nil
	}

	if err := gradeSelections(db, bet.ID, resolution); err != nil {
		return nil, err
	}

	if err := parlayService.SettleOnBetResolution(db, bet.ID); err != nil {
		common.LogError(db, "settlement", err)
		return nil, err
	}

	return &ResolveResult{Outcome: resolution.Outcome}, nil
}

// refreshGameStatus re-reads the provider's view of a stale game row and
// persists the answer before resolution gates run against it.
func refreshGameStatus(db *gorm.DB, provider GameStatsProvider, game *models.Game) error {
	status, err := provider.GetGameStatus(game.EspnID)
	if err != nil {
		return err
	}
	err = db.Model(&models.Game{}).
		Where("id = ?", game.ID).
		Updates(map[string]interface{}{
			"status":     status.Status,
			"start_time": status.StartTime,
		}).Error
	if err != nil {
		return err
	}
	game.Status = status.Status
	game.StartTime = status.StartTime
	return nil
}

func fetchSnapshot(provider GameStatsProvider, gameID string) (StatsLookup, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(fetchBackoff)
		}
		stats, err := provider.GetStatsSnapshot(gameID)
		if err == nil {
			return stats, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// gradeSelections stamps each selection of the bet with its own outcome. A
// push grades every side push; otherwise the side matching WinningSide wins.
func gradeSelections(db *gorm.DB, betID uint, resolution Resolution) error {
	var selections []models.BetSelection
	if err := db.Where("bet_id = ?", betID).Find(&selections).Error; err != nil {
		return err
	}

	for _, selection := range selections {
		outcome := models.OutcomePush
		if resolution.WinningSide != "" {
			if selection.SelectedSide == resolution.WinningSide {
				outcome = models.OutcomeWin
			} else {
				outcome = models.OutcomeLoss
			}
		}
		result := db.Model(&models.BetSelection{}).
			Where("id = ?", selection.ID).
			Updates(map[string]interface{}{
				"outcome": outcome,
				"status":  models.SelectionResolved,
			})
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
