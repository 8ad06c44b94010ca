package messaging

import (
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// DiceRoller picks among candidate messages
	DiceRoller dice.Roller
}

// GetJoinMessageInput contains parameters for getting a join message
type GetJoinMessageInput struct {
	// PlayerName is the racer who registered
	PlayerName string

	// RacerCount is the roster size including the new racer
	RacerCount int
}

// GetJoinMessageOutput contains the selected join message
type GetJoinMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetRaceResultMessageInput contains parameters for race commentary
type GetRaceResultMessageInput struct {
	// Results are the entries recorded for the race
	Results []*models.RaceResult

	// Leaderboard is the standings after the race
	Leaderboard []*models.LeaderboardRow

	// Finished is true when this was the last race
	Finished bool
}

// GetRaceResultMessageOutput contains the selected race commentary
type GetRaceResultMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetLeaderboardMessageInput contains parameters for leaderboard commentary
type GetLeaderboardMessageInput struct {
	Rows []*models.LeaderboardRow

	// Final is true once every race has been played
	Final bool
}

// GetLeaderboardMessageOutput contains the selected leaderboard commentary
type GetLeaderboardMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// Reason is the rejection label from the game service, empty for
	// unexpected failures
	Reason string
}

// GetErrorMessageOutput contains the selected error title
type GetErrorMessageOutput struct {
	Title string
	Tone  MessageTone
}
