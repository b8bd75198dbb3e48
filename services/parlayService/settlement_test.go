package parlayService

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"streakOddsEngine/models"
)

func legs(outcomes ...string) []models.BetSelection {
	selections := make([]models.BetSelection, len(outcomes))
	for i, outcome := range outcomes {
		selections[i] = models.BetSelection{UserID: 1, BetID: uint(i + 1), Outcome: outcome}
	}
	return selections
}

func TestComputeParlayOutcome(t *testing.T) {
	tests := []struct {
		name         string
		selections   []models.BetSelection
		wantStatus   string
		wantComplete bool
	}{
		{
			name:         "pending leg blocks settlement",
			selections:   legs(models.OutcomeWin, models.OutcomePending, models.OutcomeWin),
			wantComplete: false,
		},
		{
			name:         "all wins",
			selections:   legs(models.OutcomeWin, models.OutcomeWin, models.OutcomeWin),
			wantStatus:   models.ParlayWon,
			wantComplete: true,
		},
		{
			name:         "one loss sinks the parlay",
			selections:   legs(models.OutcomeWin, models.OutcomeLoss, models.OutcomeWin),
			wantStatus:   models.ParlayLost,
			wantComplete: true,
		},
		{
			name:         "push legs do not count against the win",
			selections:   legs(models.OutcomeWin, models.OutcomePush, models.OutcomeWin),
			wantStatus:   models.ParlayWon,
			wantComplete: true,
		},
		{
			name:         "push leg does not save a loss",
			selections:   legs(models.OutcomePush, models.OutcomeLoss),
			wantStatus:   models.ParlayLost,
			wantComplete: true,
		},
		{
			name:         "all pushes",
			selections:   legs(models.OutcomePush, models.OutcomePush, models.OutcomePush),
			wantStatus:   models.ParlayPush,
			wantComplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, complete := ComputeParlayOutcome(tt.selections)
			if complete != tt.wantComplete {
				t.Fatalf("complete = %v, want %v", complete, tt.wantComplete)
			}
			if complete && status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
		})
	}
}

// A parlay that never reached two legs must not settle as a parlay: no
// status claim, no parlay_win or parlay_loss ledger entry. The leg is
// detached and left to single-bet settlement.
func TestSettleParlayIfCompleteDemotesSingleLeg(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	past := time.Now().Add(-3 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `parlays`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bet_count", "status"}).
			AddRow(1, 1, 1, models.ParlayBuilding))
	mock.ExpectQuery("SELECT \\* FROM `bet_selections`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "bet_id", "user_id", "parlay_id", "status", "outcome"}).
			AddRow(1, 1, 1, 1, models.SelectionResolved, models.OutcomeWin))
	mock.ExpectQuery("SELECT \\* FROM `bets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "outcome"}).
			AddRow(1, 100, models.OutcomeWin))
	mock.ExpectQuery("SELECT \\* FROM `games`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "start_time"}).
			AddRow(100, models.GameStatusFinal, past))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bet_selections` SET `parlay_id`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `parlays` SET `deleted_at`=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	demoted, err := settleParlayIfComplete(db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !demoted {
		t.Error("expected demotion")
	}
	// No further expectations: a streak event or status claim here would be
	// the one-leg parlay settling as a real parlay.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A settlement failure after the bet's own update commits leaves the parlay
// open with every leg terminal; the resolution sweep never revisits resolved
// bets, so the stranded sweep must finish the job.
func TestSettleStrandedSettlesCompletedParlay(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("failed to create mock DB: %v", err)
	}

	lockedAt := time.Now().Add(-4 * time.Hour)
	past := time.Now().Add(-5 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `parlays`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bet_count", "parlay_value", "status", "locked_at"}).
			AddRow(2, 1, 2, "4", models.ParlayLocked, lockedAt))

	mock.ExpectQuery("SELECT \\* FROM `parlays`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bet_count", "parlay_value", "status", "locked_at"}).
			AddRow(2, 1, 2, "4", models.ParlayLocked, lockedAt))
	mock.ExpectQuery("SELECT \\* FROM `bet_selections`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "bet_id", "user_id", "parlay_id", "status", "outcome"}).
			AddRow(1, 1, 1, 2, models.SelectionResolved, models.OutcomeWin).
			AddRow(2, 2, 1, 2, models.SelectionResolved, models.OutcomeWin))
	mock.ExpectQuery("SELECT \\* FROM `bets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "outcome"}).
			AddRow(1, 100, models.OutcomeWin).
			AddRow(2, 101, models.OutcomeWin))
	mock.ExpectQuery("SELECT \\* FROM `games`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "start_time"}).
			AddRow(100, models.GameStatusFinal, past).
			AddRow(101, models.GameStatusFinal, past))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `parlays` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "current_streak", "longest_streak", "streak_version"}).
			AddRow(1, "5", "5", 3))
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `streak_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// No stranded standalone selections.
	mock.ExpectQuery("SELECT \\* FROM `bet_selections`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if err := SettleStranded(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeStreakDelta(t *testing.T) {
	tests := []struct {
		name          string
		parlay        models.Parlay
		status        string
		previous      string
		wantType      string
		wantChange    string
		wantResulting string
	}{
		{
			name:          "win adds the parlay value",
			parlay:        models.Parlay{BetCount: 3, ParlayValue: dec("4")},
			status:        models.ParlayWon,
			previous:      "5",
			wantType:      models.StreakEventParlayWin,
			wantChange:    "4",
			wantResulting: "9",
		},
		{
			name:          "insured win nets out the cost",
			parlay:        models.Parlay{BetCount: 4, ParlayValue: dec("8"), Insured: true, InsuranceCost: dec("2")},
			status:        models.ParlayWon,
			previous:      "10",
			wantType:      models.StreakEventParlayWin,
			wantChange:    "6",
			wantResulting: "16",
		},
		{
			name:          "loss resets the streak",
			parlay:        models.Parlay{BetCount: 3, ParlayValue: dec("4")},
			status:        models.ParlayLost,
			previous:      "12",
			wantType:      models.StreakEventParlayLoss,
			wantChange:    "-12",
			wantResulting: "0",
		},
		{
			name:          "insured loss deducts the stored cost",
			parlay:        models.Parlay{BetCount: 4, ParlayValue: dec("8"), Insured: true, InsuranceCost: dec("2")},
			status:        models.ParlayLost,
			previous:      "12",
			wantType:      models.StreakEventInsuranceDeducted,
			wantChange:    "-2",
			wantResulting: "10",
		},
		{
			name:          "insured loss floors at zero",
			parlay:        models.Parlay{BetCount: 4, ParlayValue: dec("8"), Insured: true, InsuranceCost: dec("2")},
			status:        models.ParlayLost,
			previous:      "1",
			wantType:      models.StreakEventInsuranceDeducted,
			wantChange:    "-2",
			wantResulting: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventType, change, resulting := ComputeStreakDelta(&tt.parlay, tt.status, dec(tt.previous))
			if eventType != tt.wantType {
				t.Errorf("event type = %q, want %q", eventType, tt.wantType)
			}
			if !change.Equal(dec(tt.wantChange)) {
				t.Errorf("points change = %s, want %s", change, tt.wantChange)
			}
			if !resulting.Equal(dec(tt.wantResulting)) {
				t.Errorf("resulting streak = %s, want %s", resulting, tt.wantResulting)
			}
		})
	}
}
