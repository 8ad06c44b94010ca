package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/kartboard/internal/services/game Service

import "context"

// Service defines the interface for game operations
type Service interface {
	// CreateGame opens a new session on the welcome screen
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// GetGame retrieves a session
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameByChannel retrieves the session hosted in a chat channel
	GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameOutput, error)

	// ListActiveGames lists sessions that are registering or racing
	ListActiveGames(ctx context.Context, input *ListActiveGamesInput) (*ListActiveGamesOutput, error)

	// StartRegistration leaves the welcome screen
	StartRegistration(ctx context.Context, input *StartRegistrationInput) (*StartRegistrationOutput, error)

	// RegisterPlayer adds a player to the roster
	RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error)

	// ListPlayers returns the roster in registration order
	ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error)

	// ChooseGameMaster draws a random player from the roster
	ChooseGameMaster(ctx context.Context, input *ChooseGameMasterInput) (*ChooseGameMasterOutput, error)

	// StartRaces closes registration and fixes the number of races
	StartRaces(ctx context.Context, input *StartRacesInput) (*StartRacesOutput, error)

	// SubmitRace records one position per player for the current race and advances
	SubmitRace(ctx context.Context, input *SubmitRaceInput) (*SubmitRaceOutput, error)

	// RecordResult records a single position without advancing the race
	RecordResult(ctx context.Context, input *RecordResultInput) (*RecordResultOutput, error)

	// ListResults returns the result log in insertion order
	ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error)

	// GetLeaderboard returns the current standings
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// ResetGame clears the roster and the result log
	ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error)

	// QuitGame returns a finished session to the welcome screen
	QuitGame(ctx context.Context, input *QuitGameInput) (*QuitGameOutput, error)

	// DeleteGame removes a session with its roster and result log
	DeleteGame(ctx context.Context, input *DeleteGameInput) (*DeleteGameOutput, error)
}
