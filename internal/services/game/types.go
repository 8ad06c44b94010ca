package game

import (
	"log/slog"

	"github.com/KirkDiggler/kartboard/internal/common/clock"
	"github.com/KirkDiggler/kartboard/internal/common/uuid"
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/metrics"
	"github.com/KirkDiggler/kartboard/internal/models"
	gameRepo "github.com/KirkDiggler/kartboard/internal/repositories/game"
	playerRepo "github.com/KirkDiggler/kartboard/internal/repositories/player"
	resultRepo "github.com/KirkDiggler/kartboard/internal/repositories/race_result"
)

const (
	defaultMaxRaces     = 10
	defaultDefaultRaces = 3
)

// Config holds configuration for the game service
type Config struct {
	// MaxRaces is the largest number of races a game can be set up with
	MaxRaces int

	// DefaultRaces is used when StartRaces is called without a count
	DefaultRaces int

	// RequireCompleteRaces rejects race submissions that leave out registered players
	RequireCompleteRaces bool

	// Repository dependencies
	GameRepo   gameRepo.Repository
	PlayerRepo playerRepo.Repository
	ResultRepo resultRepo.Repository

	// Service dependencies
	DiceRoller    dice.Roller
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Optional; default to slog.Default() and no metrics
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// CreateGameInput contains parameters for creating a new game
type CreateGameInput struct {
	// ChannelID is the chat channel hosting the game, if any
	ChannelID string
}

// CreateGameOutput contains the created game
type CreateGameOutput struct {
	Game *models.Game
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	GameID string
}

// GetGameOutput contains the requested game
type GetGameOutput struct {
	Game *models.Game
}

// GetGameByChannelInput contains parameters for finding a channel's game
type GetGameByChannelInput struct {
	ChannelID string
}

// ListActiveGamesInput contains parameters for listing games
type ListActiveGamesInput struct{}

// ListActiveGamesOutput contains registering and racing games, oldest first
type ListActiveGamesOutput struct {
	Games []*models.Game
}

// StartRegistrationInput contains parameters for opening registration
type StartRegistrationInput struct {
	GameID string
}

// StartRegistrationOutput contains the updated game
type StartRegistrationOutput struct {
	Game *models.Game
}

// RegisterPlayerInput contains parameters for registering a player
type RegisterPlayerInput struct {
	GameID string

	// Name is trimmed of surrounding whitespace; matching is case-sensitive
	Name string
}

// RegisterPlayerOutput contains the registered player
type RegisterPlayerOutput struct {
	Player *models.Player
}

// ListPlayersInput contains parameters for listing the roster
type ListPlayersInput struct {
	GameID string
}

// ListPlayersOutput contains the roster in registration order
type ListPlayersOutput struct {
	Players []*models.Player
}

// ChooseGameMasterInput contains parameters for drawing a game master
type ChooseGameMasterInput struct {
	GameID string
}

// ChooseGameMasterOutput contains the drawn game master
type ChooseGameMasterOutput struct {
	GameMaster string
	Game       *models.Game
}

// StartRacesInput contains parameters for starting the races
type StartRacesInput struct {
	GameID string

	// TotalRaces is the number of races to play; 0 uses the configured default
	TotalRaces int
}

// StartRacesOutput contains the updated game
type StartRacesOutput struct {
	Game *models.Game
}

// SubmitRaceInput contains one race's finishing positions
type SubmitRaceInput struct {
	GameID string

	// Positions maps player name to finishing position
	Positions map[string]int
}

// SubmitRaceOutput contains the recorded race and the standings after it
type SubmitRaceOutput struct {
	// RaceNumber is the race that was recorded
	RaceNumber int

	// Results are the new entries in roster order
	Results []*models.RaceResult

	// Leaderboard is the live standings including this race
	Leaderboard []*models.LeaderboardRow

	// Finished is true when this was the last race
	Finished bool

	Game *models.Game
}

// RecordResultInput contains a single finishing position
type RecordResultInput struct {
	GameID     string
	RaceNumber int
	PlayerName string
	Position   int
}

// RecordResultOutput contains the stored entry
type RecordResultOutput struct {
	Result *models.RaceResult
}

// ListResultsInput contains parameters for reading the result log
type ListResultsInput struct {
	GameID string
}

// ListResultsOutput contains the result log in insertion order
type ListResultsOutput struct {
	Results []*models.RaceResult
}

// GetLeaderboardInput contains parameters for computing standings
type GetLeaderboardInput struct {
	GameID string
}

// GetLeaderboardOutput contains the ranked standings
type GetLeaderboardOutput struct {
	Rows []*models.LeaderboardRow
	Game *models.Game
}

// ResetGameInput contains parameters for resetting a game
type ResetGameInput struct {
	GameID string
}

// ResetGameOutput contains the reset game
type ResetGameOutput struct {
	Game *models.Game
}

// QuitGameInput contains parameters for leaving the leaderboard
type QuitGameInput struct {
	GameID string
}

// QuitGameOutput contains the game back on the welcome screen
type QuitGameOutput struct {
	Game *models.Game
}

// DeleteGameInput contains parameters for removing a game
type DeleteGameInput struct {
	GameID string
}

// DeleteGameOutput contains the removed game as it was last stored
type DeleteGameOutput struct {
	Game *models.Game
}
