package race_result

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/kartboard/internal/models"
)

type memoryLog struct {
	entries []*models.RaceResult
	keys    map[string]struct{}
}

// memoryRepository keeps result logs in process memory
type memoryRepository struct {
	mu   sync.RWMutex
	logs map[string]*memoryLog
}

// NewMemory creates a new in-memory result repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		logs: make(map[string]*memoryLog),
	}
}

// AddResults appends the batch after checking every key against the log
func (r *memoryRepository) AddResults(ctx context.Context, input *AddResultsInput) error {
	keys, err := validateBatch(input)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[input.GameID]
	if !ok {
		log = &memoryLog{keys: make(map[string]struct{})}
		r.logs[input.GameID] = log
	}

	for i, key := range keys {
		if _, exists := log.keys[key]; exists {
			result := input.Results[i]
			return fmt.Errorf("%w: %s in race %d", ErrDuplicateEntry, result.PlayerName, result.RaceNumber)
		}
	}

	for i, result := range input.Results {
		stored := *result
		log.entries = append(log.entries, &stored)
		log.keys[keys[i]] = struct{}{}
	}

	return nil
}

// ListResults returns copies of the log in insertion order
func (r *memoryRepository) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []*models.RaceResult{}
	if log, ok := r.logs[input.GameID]; ok {
		results = make([]*models.RaceResult, 0, len(log.entries))
		for _, entry := range log.entries {
			copied := *entry
			results = append(results, &copied)
		}
	}

	return &ListResultsOutput{
		Results: results,
	}, nil
}

// ClearResults drops the log
func (r *memoryRepository) ClearResults(ctx context.Context, input *ClearResultsInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.logs, input.GameID)
	return nil
}
