package game

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/kartboard/internal/models"
)

// memoryRepository keeps games in process memory
type memoryRepository struct {
	mu       sync.RWMutex
	games    map[string]*models.Game
	channels map[string]string
}

// NewMemory creates a new in-memory game repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		games:    make(map[string]*models.Game),
		channels: make(map[string]string),
	}
}

// SaveGame stores a copy of the game
func (r *memoryRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	if input.Game.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *input.Game
	r.games[stored.ID] = &stored
	if stored.ChannelID != "" {
		r.channels[stored.ChannelID] = stored.ID
	}

	return nil
}

// GetGame retrieves a copy of the game
func (r *memoryRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.get(input.GameID)
}

func (r *memoryRepository) get(gameID string) (*models.Game, error) {
	game, ok := r.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	found := *game
	return &found, nil
}

// GetGameByChannel retrieves the game mapped to the channel
func (r *memoryRepository) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	gameID, ok := r.channels[input.ChannelID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return r.get(gameID)
}

// DeleteGame removes the game and its channel mapping
func (r *memoryRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[input.GameID]
	if !ok {
		return ErrGameNotFound
	}

	if game.ChannelID != "" && r.channels[game.ChannelID] == game.ID {
		delete(r.channels, game.ChannelID)
	}
	delete(r.games, input.GameID)
	return nil
}

// GetActiveGames lists registering and racing games, oldest first
func (r *memoryRepository) GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := []*models.Game{}
	for _, game := range r.games {
		if game.Status.IsActive() {
			copied := *game
			games = append(games, &copied)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})

	return &GetActiveGamesOutput{
		Games: games,
	}, nil
}
