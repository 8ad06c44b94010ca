package game

import "errors"

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInvalidInput     GameError = "invalid input"
	ErrAlreadyExists    GameError = "player already registered"
	ErrUnknownPlayer    GameError = "player is not registered"
	ErrInvalidPosition  GameError = "position must be between 1 and 12"
	ErrDuplicateEntry   GameError = "result already recorded for this player and race"
	ErrMalformedEntry   GameError = "malformed race result"
	ErrGameNotFound     GameError = "game not found"
	ErrInvalidGameState GameError = "invalid game state"
	ErrIncompleteRace   GameError = "every registered player needs a position"
	ErrNoPlayers        GameError = "no players registered"
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilGameRepo      GameError = "game repository cannot be nil"
	ErrNilPlayerRepo    GameError = "player repository cannot be nil"
	ErrNilResultRepo    GameError = "race result repository cannot be nil"
	ErrNilDiceRoller    GameError = "dice roller cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilUUIDGenerator GameError = "UUID generator cannot be nil"
)

var rejectionReasons = map[GameError]string{
	ErrInvalidInput:     "invalid_input",
	ErrAlreadyExists:    "already_exists",
	ErrUnknownPlayer:    "unknown_player",
	ErrInvalidPosition:  "invalid_position",
	ErrDuplicateEntry:   "duplicate_entry",
	ErrMalformedEntry:   "malformed_entry",
	ErrGameNotFound:     "game_not_found",
	ErrInvalidGameState: "invalid_game_state",
	ErrIncompleteRace:   "incomplete_race",
	ErrNoPlayers:        "no_players",
}

// Reason returns a short label for a rejected operation, or "" when err is
// not one of the recoverable game errors
func Reason(err error) string {
	for gameErr, reason := range rejectionReasons {
		if errors.Is(err, gameErr) {
			return reason
		}
	}
	return ""
}
