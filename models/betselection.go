package models

import "gorm.io/gorm"

const (
	SelectionSelected = "selected"
	SelectionLocked   = "locked"
	SelectionResolved = "resolved"
)

type BetSelection struct {
	gorm.Model
	ID           uint   `gorm:"primaryKey"`
	BetID        uint   `gorm:"uniqueIndex:selection_user_bet_idx"`
	Bet          Bet    `gorm:"foreignKey:BetID"`
	UserID       uint   `gorm:"uniqueIndex:selection_user_bet_idx"`
	User         User   `gorm:"foreignKey:UserID"`
	SelectedSide string `gorm:"size:16"`
	Status       string `gorm:"size:10; default:selected"`
	Outcome      string `gorm:"size:8; default:pending"`
	ParlayID     *uint
}
