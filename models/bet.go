package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OutcomePending = "pending"
	OutcomeWin     = "win"
	OutcomeLoss    = "loss"
	OutcomePush    = "push"
	OutcomeVoid    = "void"
)

type Bet struct {
	gorm.Model
	ID      uint `gorm:"primaryKey"`
	GameID  uint
	Game    Game      `gorm:"foreignKey:GameID"`
	BetType BetType   `gorm:"size:16"`
	Config  BetConfig `gorm:"type:json"`
	// Priority is dense and unique per game. Users reorder it for display; it
	// never affects resolution.
	Priority            int
	Outcome             string `gorm:"size:8; default:pending"`
	DisplayText         string
	DisplayTextOverride *string
	// ResolutionSnapshot holds the raw stat values the evaluator saw, as JSON,
	// for audit and debugging.
	ResolutionSnapshot *string
	ResolvedAt         *time.Time
}

// Display returns the override text when an admin has set one.
func (b *Bet) Display() string {
	if b.DisplayTextOverride != nil && *b.DisplayTextOverride != "" {
		return *b.DisplayTextOverride
	}
	return b.DisplayText
}
