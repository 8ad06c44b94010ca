package models

import (
	"time"
)

// GameStatus represents the screen a game session is on
type GameStatus string

const (
	// GameStatusWelcome is the landing state before anyone registers
	GameStatusWelcome GameStatus = "welcome"

	// GameStatusRegistration indicates players are being registered
	GameStatusRegistration GameStatus = "registration"

	// GameStatusRaceInput indicates race results are being entered
	GameStatusRaceInput GameStatus = "race_input"

	// GameStatusLeaderboard indicates all races are in and standings are shown
	GameStatusLeaderboard GameStatus = "leaderboard"
)

// IsWelcome returns true if the game is on the welcome screen
func (s GameStatus) IsWelcome() bool {
	return s == GameStatusWelcome
}

// IsRegistration returns true if players can register
func (s GameStatus) IsRegistration() bool {
	return s == GameStatusRegistration
}

// IsRaceInput returns true if race results are being collected
func (s GameStatus) IsRaceInput() bool {
	return s == GameStatusRaceInput
}

// IsLeaderboard returns true if the game has finished its races
func (s GameStatus) IsLeaderboard() bool {
	return s == GameStatusLeaderboard
}

// Game represents a single scorekeeping session
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// ChannelID is the chat channel hosting the game, empty for terminal and API games
	ChannelID string

	// Status is the current state of the game
	Status GameStatus

	// TotalRaces is the number of races chosen when racing started
	TotalRaces int

	// CurrentRace is the race awaiting results, 1-based; 0 before racing starts
	CurrentRace int

	// GameMaster is the name of the drawn game master, if any
	GameMaster string

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// IsActive reports whether players are registering or racing
func (s GameStatus) IsActive() bool {
	return s.IsRegistration() || s.IsRaceInput()
}

// RacesComplete reports whether every configured race has been submitted
func (g *Game) RacesComplete() bool {
	return g.TotalRaces > 0 && g.CurrentRace > g.TotalRaces
}
