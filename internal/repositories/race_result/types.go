package race_result

import "github.com/KirkDiggler/kartboard/internal/models"

// AddResultsInput contains the entries to append
type AddResultsInput struct {
	GameID  string
	Results []*models.RaceResult
}

// ListResultsInput contains parameters for reading a log
type ListResultsInput struct {
	GameID string
}

// ListResultsOutput contains the log in insertion order
type ListResultsOutput struct {
	Results []*models.RaceResult
}

// ClearResultsInput contains parameters for clearing a log
type ClearResultsInput struct {
	GameID string
}
