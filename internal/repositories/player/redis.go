package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	rosterKeyPrefix  = "roster:"  // list of names in registration order
	playersKeyPrefix = "players:" // hash of name -> player JSON

	// maxTxRetries bounds optimistic-lock retries when another writer touches the roster
	maxTxRetries = 5
)

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func rosterKey(gameID string) string {
	return fmt.Sprintf("%s%s", rosterKeyPrefix, gameID)
}

func playersKey(gameID string) string {
	return fmt.Sprintf("%s%s", playersKeyPrefix, gameID)
}

// AddPlayer appends a player to the roster. The existence check and the
// write run under WATCH so two concurrent registrations of the same name
// cannot both succeed.
func (r *redisRepository) AddPlayer(ctx context.Context, input *AddPlayerInput) error {
	if err := validatePlayer(input); err != nil {
		return err
	}

	player := input.Player
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	hashKey := playersKey(player.GameID)
	listKey := rosterKey(player.GameID)

	txf := func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, hashKey, player.Name).Result()
		if err != nil {
			return err
		}
		if exists {
			return ErrPlayerExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey, player.Name, playerJSON)
			pipe.RPush(ctx, listKey, player.Name)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = r.client.Watch(ctx, txf, hashKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrPlayerExists) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to save player: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to save player: %w", err)
}

// GetPlayer retrieves a player by name from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if err := validateGetInput(input); err != nil {
		return nil, err
	}

	playerJSON, err := r.client.HGet(ctx, playersKey(input.GameID), input.Name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var player models.Player
	if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &player, nil
}

// ListPlayers retrieves the roster from Redis in registration order
func (r *redisRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	names, err := r.client.LRange(ctx, rosterKey(input.GameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	// If there are no players, return an empty slice
	if len(names) == 0 {
		return &ListPlayersOutput{
			Players: []*models.Player{},
		}, nil
	}

	values, err := r.client.HMGet(ctx, playersKey(input.GameID), names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.Player, 0, len(names))
	for i, value := range values {
		playerJSON, ok := value.(string)
		if !ok {
			// Roster entry without a record; the roster was cleared mid-read
			continue
		}

		var player models.Player
		if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", names[i], err)
		}
		players = append(players, &player)
	}

	return &ListPlayersOutput{
		Players: players,
	}, nil
}

// ClearPlayers deletes the roster from Redis
func (r *redisRepository) ClearPlayers(ctx context.Context, input *ClearPlayersInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	if err := r.client.Del(ctx, rosterKey(input.GameID), playersKey(input.GameID)).Err(); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	return nil
}
