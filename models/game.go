package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GameStatusScheduled  = "scheduled"
	GameStatusInProgress = "in_progress"
	GameStatusFinal      = "final"
	GameStatusCancelled  = "cancelled"
	GameStatusPostponed  = "postponed"
)

type Game struct {
	gorm.Model
	ID        uint      `gorm:"primaryKey"`
	EspnID    string    `gorm:"uniqueIndex; size:32"`
	Status    string    `gorm:"size:16; default:scheduled"`
	StartTime time.Time
	// External team identifiers are normalized here at ingestion so resolution
	// never has to dig them out of raw provider payloads.
	HomeTeamID   string `gorm:"size:32"`
	AwayTeamID   string `gorm:"size:32"`
	HomeTeamName string
	AwayTeamName string
}

// Resolvable reports whether the game is in a state bet resolution is defined
// for. Cancelled and postponed games have no final record to resolve against.
func (g *Game) Resolvable() bool {
	return g.Status == GameStatusInProgress || g.Status == GameStatusFinal
}
