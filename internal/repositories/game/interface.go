package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/kartboard/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/kartboard/internal/models"
)

// Repository defines the interface for game session persistence
type Repository interface {
	// SaveGame persists a game
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// GetGameByChannel retrieves the game hosted in a channel
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error)

	// DeleteGame removes a game
	DeleteGame(ctx context.Context, input *DeleteGameInput) error

	// GetActiveGames retrieves games that are registering or racing
	GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error)
}
