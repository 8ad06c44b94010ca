package race_result

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEntry is returned when a player already has a result for the race
	ErrDuplicateEntry = errors.New("result already recorded for player in race")

	// ErrUnknownPlayer is returned by stores that enforce the roster reference
	ErrUnknownPlayer = errors.New("result references a player not on the roster")

	errNoGameID = errors.New("game ID cannot be empty")
	errNilInput = errors.New("input cannot be nil")
)

// validateBatch checks the batch shape and returns the keys it would occupy
func validateBatch(input *AddResultsInput) ([]string, error) {
	if input == nil {
		return nil, errNilInput
	}
	if input.GameID == "" {
		return nil, errNoGameID
	}

	keys := make([]string, 0, len(input.Results))
	seen := make(map[string]struct{}, len(input.Results))
	for i, result := range input.Results {
		switch {
		case result == nil:
			return nil, fmt.Errorf("result %d is nil", i)
		case result.GameID != input.GameID:
			return nil, fmt.Errorf("result %d belongs to game %q", i, result.GameID)
		case result.PlayerName == "":
			return nil, fmt.Errorf("result %d has no player", i)
		case result.RaceNumber < 1:
			return nil, fmt.Errorf("result %d has race number %d", i, result.RaceNumber)
		}

		key := result.Key()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s appears twice in race %d", ErrDuplicateEntry, result.PlayerName, result.RaceNumber)
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys, nil
}
