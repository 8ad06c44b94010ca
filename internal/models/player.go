package models

import (
	"time"
)

// Player represents a registered racer in a game
type Player struct {
	// GameID is the game this player is registered in
	GameID string

	// Name is the unique, case-sensitive display name of the player
	Name string

	// RegisteredAt is when the player joined the roster
	RegisteredAt time.Time
}
