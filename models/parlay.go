package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ParlayBuilding = "building"
	ParlayLocked   = "locked"
	ParlayWon      = "won"
	ParlayLost     = "lost"
	ParlayPush     = "push"
)

type Parlay struct {
	gorm.Model
	ID          uint `gorm:"primaryKey"`
	UserID      uint
	User        User `gorm:"foreignKey:UserID"`
	BetCount    int
	ParlayValue decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Insured     bool            `gorm:"default:false"`
	// InsuranceCost is stored when insurance is toggled, not recomputed at
	// settlement, so historical parlays keep the cost in effect when they locked.
	InsuranceCost decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Status        string          `gorm:"size:10; default:building"`
	LockedAt      *time.Time
	ResolvedAt    *time.Time
	Selections    []BetSelection `gorm:"foreignKey:ParlayID"`
}

// Terminal reports whether the parlay has settled.
func (p *Parlay) Terminal() bool {
	return p.Status == ParlayWon || p.Status == ParlayLost || p.Status == ParlayPush
}
