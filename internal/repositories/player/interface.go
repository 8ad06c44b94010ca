package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/kartboard/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/kartboard/internal/models"
)

// Repository defines the interface for roster persistence.
// Each game has its own roster; names are unique within a game.
type Repository interface {
	// AddPlayer appends a player to the game's roster, failing with ErrPlayerExists on a duplicate name
	AddPlayer(ctx context.Context, input *AddPlayerInput) error

	// GetPlayer retrieves a player by name
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// ListPlayers retrieves the roster in registration order
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)

	// ClearPlayers removes every player from the game's roster
	ClearPlayers(ctx context.Context, input *ClearPlayersInput) error
}
