package player

import "errors"

var (
	// ErrPlayerNotFound is returned when a player is not on the roster
	ErrPlayerNotFound = errors.New("player not found")

	// ErrPlayerExists is returned when a name is already on the roster
	ErrPlayerExists = errors.New("player already exists")

	errNilInput  = errors.New("input cannot be nil")
	errNoGameID  = errors.New("game ID cannot be empty")
	errNoName    = errors.New("player name cannot be empty")
	errNilPlayer = errors.New("input and player cannot be nil")
)

func validateGetInput(input *GetPlayerInput) error {
	switch {
	case input == nil:
		return errNilInput
	case input.GameID == "":
		return errNoGameID
	case input.Name == "":
		return errNoName
	}
	return nil
}

func validatePlayer(input *AddPlayerInput) error {
	switch {
	case input == nil || input.Player == nil:
		return errNilPlayer
	case input.Player.GameID == "":
		return errNoGameID
	case input.Player.Name == "":
		return errNoName
	}
	return nil
}
