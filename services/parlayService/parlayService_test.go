package parlayService

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"streakOddsEngine/models"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})

	return gormDB, mock, err
}

func buildingParlay(legGameStarts ...time.Time) *models.Parlay {
	parlay := &models.Parlay{
		ID:       1,
		UserID:   1,
		BetCount: len(legGameStarts),
		Status:   models.ParlayBuilding,
	}
	for i, start := range legGameStarts {
		parlay.Selections = append(parlay.Selections, models.BetSelection{
			ID:       uint(i + 1),
			BetID:    uint(i + 1),
			UserID:   1,
			Status:   models.SelectionSelected,
			Outcome:  models.OutcomePending,
			ParlayID: &parlay.ID,
			Bet: models.Bet{
				ID:     uint(i + 1),
				GameID: uint(100 + i),
				Game:   models.Game{ID: uint(100 + i), StartTime: start, Status: models.GameStatusScheduled},
			},
		})
	}
	return parlay
}

func TestApplyLockStateBeforeEarliestStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	parlay := buildingParlay(now.Add(time.Hour), now.Add(3*time.Hour))

	// All games in the future: no queries, no writes.
	demoted, err := ApplyLockState(nil, parlay, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if demoted {
		t.Error("parlay before its boundary must not be demoted")
	}
	if parlay.Status != models.ParlayBuilding {
		t.Errorf("status = %q, want still %q", parlay.Status, models.ParlayBuilding)
	}
	if parlay.LockedAt != nil {
		t.Errorf("locked_at = %v, want nil", parlay.LockedAt)
	}
}

func TestApplyLockStateAtEarliestStart(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	earliest := now.Add(-10 * time.Minute)
	parlay := buildingParlay(now.Add(2*time.Hour), earliest)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `parlays` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bet_selections` SET `status`=").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	demoted, err := ApplyLockState(db, parlay, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if demoted {
		t.Error("two-leg parlay must lock, not demote")
	}
	if parlay.Status != models.ParlayLocked {
		t.Errorf("status = %q, want %q", parlay.Status, models.ParlayLocked)
	}
	if parlay.LockedAt == nil || !parlay.LockedAt.Equal(earliest) {
		t.Errorf("locked_at = %v, want the earliest game start %v", parlay.LockedAt, earliest)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyLockStateIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	lockedAt := now.Add(-time.Hour)

	parlay := buildingParlay(now.Add(-2 * time.Hour))
	parlay.Status = models.ParlayLocked
	parlay.LockedAt = &lockedAt

	// Already locked: must return without touching the database.
	if _, err := ApplyLockState(nil, parlay, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parlay.LockedAt.Equal(lockedAt) {
		t.Errorf("locked_at changed to %v, want original %v", parlay.LockedAt, lockedAt)
	}
}

func TestApplyLockStateSkipsTerminal(t *testing.T) {
	parlay := buildingParlay(time.Now().Add(-time.Hour))
	parlay.Status = models.ParlayWon

	if _, err := ApplyLockState(nil, parlay, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parlay.Status != models.ParlayWon {
		t.Errorf("status = %q, terminal parlays must not transition", parlay.Status)
	}
}

func TestEarliestGameStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	first := now.Add(30 * time.Minute)
	parlay := buildingParlay(now.Add(2*time.Hour), first, now.Add(4*time.Hour))

	got := earliestGameStart(nil, parlay)
	if got == nil || !got.Equal(first) {
		t.Errorf("earliestGameStart = %v, want %v", got, first)
	}
}

func TestApplyLockStateDemotesSingleLeg(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	parlay := buildingParlay(now.Add(-5 * time.Minute))

	// One leg at the boundary: the leg detaches, the parlay row goes away.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bet_selections` SET `parlay_id`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `parlays` SET `deleted_at`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	demoted, err := ApplyLockState(db, parlay, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !demoted {
		t.Error("one-leg parlay at its boundary must demote")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRemoveSelectionBelowTwoLegsDeletesParlay(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	future := time.Now().Add(2 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `parlays`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bet_count", "status"}).
			AddRow(1, 1, 2, models.ParlayBuilding))
	mock.ExpectQuery("SELECT \\* FROM `bet_selections`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "bet_id", "user_id", "parlay_id", "status", "outcome"}).
			AddRow(1, 1, 1, 1, models.SelectionSelected, models.OutcomePending).
			AddRow(2, 2, 1, 1, models.SelectionSelected, models.OutcomePending))
	mock.ExpectQuery("SELECT \\* FROM `bets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "outcome"}).
			AddRow(1, 100, models.OutcomePending).
			AddRow(2, 101, models.OutcomePending))
	mock.ExpectQuery("SELECT \\* FROM `games`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "start_time"}).
			AddRow(100, models.GameStatusScheduled, future).
			AddRow(101, models.GameStatusScheduled, future))

	// Dropping to one leg removes the parlay and its selections outright.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bet_selections` SET `deleted_at`=").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE `parlays` SET `deleted_at`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	parlay, deleted, err := RemoveSelection(db, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected deletion signal")
	}
	if parlay != nil {
		t.Error("deleted parlay must not be returned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWithStreakRetryConverges(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err = withStreakRetry(db, func(tx *gorm.DB) error {
		attempts++
		if attempts < 2 {
			return errStreakConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("ran %d attempts, want 2", attempts)
	}
}

func TestWithStreakRetryGivesUp(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	for i := 0; i < settleRetries; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	attempts := 0
	err = withStreakRetry(db, func(tx *gorm.DB) error {
		attempts++
		return errStreakConflict
	})
	if !errors.Is(err, errStreakConflict) {
		t.Fatalf("err = %v, want streak conflict after exhausting retries", err)
	}
	if attempts != settleRetries {
		t.Errorf("ran %d attempts, want %d", attempts, settleRetries)
	}
}

func TestEarliestGameStartEmpty(t *testing.T) {
	parlay := &models.Parlay{ID: 1, Status: models.ParlayBuilding}
	if got := earliestGameStart(nil, parlay); got != nil {
		t.Errorf("earliestGameStart = %v, want nil for no legs", got)
	}
}
