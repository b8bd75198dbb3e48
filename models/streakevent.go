package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StreakEventParlayWin         = "parlay_win"
	StreakEventParlayLoss        = "parlay_loss"
	StreakEventInsuranceDeducted = "insurance_deducted"
	StreakEventBetWin            = "bet_win"
	StreakEventBetLoss           = "bet_loss"
)

// StreakEvent is the append-only ledger of streak-affecting settlements.
// Rows are never updated or deleted.
type StreakEvent struct {
	gorm.Model
	ID              uint   `gorm:"primaryKey"`
	EventID         string `gorm:"uniqueIndex; size:36"`
	UserID          uint
	User            User            `gorm:"foreignKey:UserID"`
	Type            string          `gorm:"size:20"`
	PointsChange    decimal.Decimal `gorm:"type:decimal(12,2)"`
	ResultingStreak decimal.Decimal `gorm:"type:decimal(12,2)"`
	ParlayID        *uint
	BetSelectionID  *uint
}

// Zeroing reports whether this event ends a streak group. Insurance
// deductions never zero the streak, so they never close a group.
func (e *StreakEvent) Zeroing() bool {
	if e.Type != StreakEventParlayLoss && e.Type != StreakEventBetLoss {
		return false
	}
	return e.ResultingStreak.IsZero()
}
