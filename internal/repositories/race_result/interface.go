package race_result

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/kartboard/internal/repositories/race_result Repository

import (
	"context"
)

// Repository defines the interface for result log persistence.
// The log is append-only; entries are never updated in place.
type Repository interface {
	// AddResults appends a batch of entries for one game. Either every entry is
	// stored or none is; a (race, player) pair seen before fails with ErrDuplicateEntry.
	AddResults(ctx context.Context, input *AddResultsInput) error

	// ListResults retrieves the log in insertion order
	ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error)

	// ClearResults empties the game's log
	ClearResults(ctx context.Context, input *ClearResultsInput) error
}
