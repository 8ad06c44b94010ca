package player

import (
	"context"
	"sync"

	"github.com/KirkDiggler/kartboard/internal/models"
)

// memoryRepository keeps rosters in process memory
type memoryRepository struct {
	mu      sync.RWMutex
	rosters map[string][]*models.Player
}

// NewMemory creates a new in-memory player repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		rosters: make(map[string][]*models.Player),
	}
}

// AddPlayer appends a player to the roster
func (r *memoryRepository) AddPlayer(ctx context.Context, input *AddPlayerInput) error {
	if err := validatePlayer(input); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roster := r.rosters[input.Player.GameID]
	for _, existing := range roster {
		if existing.Name == input.Player.Name {
			return ErrPlayerExists
		}
	}

	stored := *input.Player
	r.rosters[input.Player.GameID] = append(roster, &stored)
	return nil
}

// GetPlayer retrieves a player by name
func (r *memoryRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if err := validateGetInput(input); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.rosters[input.GameID] {
		if p.Name == input.Name {
			found := *p
			return &found, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// ListPlayers returns copies of the roster in registration order
func (r *memoryRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := r.rosters[input.GameID]
	players := make([]*models.Player, 0, len(roster))
	for _, p := range roster {
		copied := *p
		players = append(players, &copied)
	}

	return &ListPlayersOutput{
		Players: players,
	}, nil
}

// ClearPlayers drops the roster
func (r *memoryRepository) ClearPlayers(ctx context.Context, input *ClearPlayersInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rosters, input.GameID)
	return nil
}
