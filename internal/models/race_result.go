package models

import (
	"fmt"
	"time"
)

// RaceResult records one player's finishing position in one race
type RaceResult struct {
	// GameID is the game the race belongs to
	GameID string

	// RaceNumber is the 1-based number of the race
	RaceNumber int

	// PlayerName is the name of the player who finished
	PlayerName string

	// Position is the finishing position, 1 through 12
	Position int

	// Points is the score awarded for Position
	Points int

	// RecordedAt is when the result was recorded
	RecordedAt time.Time
}

// Key returns the identity of the result within its game, one per player per race
func (r *RaceResult) Key() string {
	return fmt.Sprintf("%d:%s", r.RaceNumber, r.PlayerName)
}
