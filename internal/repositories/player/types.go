package player

import "github.com/KirkDiggler/kartboard/internal/models"

// AddPlayerInput contains parameters for adding a player
type AddPlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	GameID string
	Name   string
}

// ListPlayersInput contains parameters for retrieving a roster
type ListPlayersInput struct {
	GameID string
}

// ListPlayersOutput contains the roster in registration order
type ListPlayersOutput struct {
	Players []*models.Player
}

// ClearPlayersInput contains parameters for clearing a roster
type ClearPlayersInput struct {
	GameID string
}
