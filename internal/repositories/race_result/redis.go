package race_result

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
	resultsKeyPrefix    = "results:"     // list of result JSON in insertion order
	resultKeysKeyPrefix = "result_keys:" // set of "race:player" keys already used

	maxTxRetries = 5
)

// Config holds configuration for the Redis result repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed result repository
func NewRedis(cfg *Config) (*redisRepository, error) {
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

func resultsKey(gameID string) string {
	return fmt.Sprintf("%s%s", resultsKeyPrefix, gameID)
}

func resultKeysKey(gameID string) string {
	return fmt.Sprintf("%s%s", resultKeysKeyPrefix, gameID)
}

// AddResults appends the batch in one MULTI block. The key set is watched so a
// concurrent writer claiming the same (race, player) aborts this transaction.
func (r *redisRepository) AddResults(ctx context.Context, input *AddResultsInput) error {
	keys, err := validateBatch(input)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	entries := make([]interface{}, 0, len(input.Results))
	members := make([]interface{}, 0, len(keys))
	for i, result := range input.Results {
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		entries = append(entries, resultJSON)
		members = append(members, keys[i])
	}

	listKey := resultsKey(input.GameID)
	setKey := resultKeysKey(input.GameID)

	txf := func(tx *redis.Tx) error {
		used, err := tx.SMIsMember(ctx, setKey, members...).Result()
		if err != nil {
			return err
		}
		for i, exists := range used {
			if exists {
				result := input.Results[i]
				return fmt.Errorf("%w: %s in race %d", ErrDuplicateEntry, result.PlayerName, result.RaceNumber)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, listKey, entries...)
			pipe.SAdd(ctx, setKey, members...)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = r.client.Watch(ctx, txf, setKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrDuplicateEntry) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to save results: %w", err)
}

// ListResults retrieves the log from Redis in insertion order
func (r *redisRepository) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	values, err := r.client.LRange(ctx, resultsKey(input.GameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]*models.RaceResult, 0, len(values))
	for _, value := range values {
		var result models.RaceResult
		if err := json.Unmarshal([]byte(value), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return &ListResultsOutput{
		Results: results,
	}, nil
}

// ClearResults deletes the log from Redis
func (r *redisRepository) ClearResults(ctx context.Context, input *ClearResultsInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	if err := r.client.Del(ctx, resultsKey(input.GameID), resultKeysKey(input.GameID)).Err(); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}

	return nil
}
