package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ID            uint   `gorm:"primaryKey"`
	ExternalID    string `gorm:"uniqueIndex; size:64"`
	Username      *string
	CurrentStreak decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	LongestStreak decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	// StreakVersion guards the settlement read-modify-write. Every successful
	// streak mutation increments it.
	StreakVersion int `gorm:"default:1"`
}
