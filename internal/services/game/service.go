package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/kartboard/internal/common/clock"
	"github.com/KirkDiggler/kartboard/internal/common/uuid"
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/leaderboard"
	"github.com/KirkDiggler/kartboard/internal/metrics"
	"github.com/KirkDiggler/kartboard/internal/models"
	gameRepo "github.com/KirkDiggler/kartboard/internal/repositories/game"
	playerRepo "github.com/KirkDiggler/kartboard/internal/repositories/player"
	resultRepo "github.com/KirkDiggler/kartboard/internal/repositories/race_result"
	"github.com/KirkDiggler/kartboard/internal/scoring"
)

// service implements the Service interface
type service struct {
	maxRaces             int
	defaultRaces         int
	requireCompleteRaces bool

	gameRepo   gameRepo.Repository
	playerRepo playerRepo.Repository
	resultRepo resultRepo.Repository

	diceRoller    dice.Roller
	clock         clock.Clock
	uuidGenerator uuid.UUID
	logger        *slog.Logger
	metrics       metrics.Recorder

	// locks holds one *sync.Mutex per game ID until the game is deleted
	locks sync.Map
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.ResultRepo == nil {
		return nil, ErrNilResultRepo
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	s := &service{
		maxRaces:             cfg.MaxRaces,
		defaultRaces:         cfg.DefaultRaces,
		requireCompleteRaces: cfg.RequireCompleteRaces,
		gameRepo:             cfg.GameRepo,
		playerRepo:           cfg.PlayerRepo,
		resultRepo:           cfg.ResultRepo,
		diceRoller:           cfg.DiceRoller,
		clock:                cfg.Clock,
		uuidGenerator:        cfg.UUIDGenerator,
		logger:               cfg.Logger,
		metrics:              cfg.Metrics,
	}

	if s.maxRaces <= 0 {
		s.maxRaces = defaultMaxRaces
	}
	if s.defaultRaces <= 0 {
		s.defaultRaces = defaultDefaultRaces
	}
	if s.defaultRaces > s.maxRaces {
		return nil, fmt.Errorf("default races %d exceeds max races %d", s.defaultRaces, s.maxRaces)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.Noop{}
	}

	return s, nil
}

// lock serializes mutations of one game and returns the unlock func
func (s *service) lock(gameID string) func() {
	mu, _ := s.locks.LoadOrStore(gameID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// reject logs a refused operation and counts it. Errors outside the game
// taxonomy are storage failures and are logged at error level.
func (s *service) reject(ctx context.Context, op, gameID string, err error) error {
	reason := Reason(err)
	if reason == "" {
		s.logger.ErrorContext(ctx, "operation failed", "op", op, "game_id", gameID, "error", err)
		return err
	}

	s.metrics.Rejected(reason)
	s.logger.InfoContext(ctx, "operation rejected", "op", op, "game_id", gameID, "reason", reason, "error", err)
	return err
}

func (s *service) loadGame(ctx context.Context, gameID string) (*models.Game, error) {
	if gameID == "" {
		return nil, fmt.Errorf("%w: game ID is required", ErrInvalidInput)
	}

	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{
		GameID: gameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// advance moves the game along event or fails with ErrInvalidGameState
func advance(game *models.Game, event models.GameEvent) error {
	next, ok := game.Status.Next(event)
	if !ok {
		return fmt.Errorf("%w: cannot %s while in %s", ErrInvalidGameState, event, game.Status)
	}
	game.Status = next
	return nil
}

func (s *service) saveGame(ctx context.Context, game *models.Game) error {
	game.UpdatedAt = s.clock.Now()
	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (s *service) roster(ctx context.Context, gameID string) ([]*models.Player, error) {
	output, err := s.playerRepo.ListPlayers(ctx, &playerRepo.ListPlayersInput{
		GameID: gameID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return output.Players, nil
}

func (s *service) results(ctx context.Context, gameID string) ([]*models.RaceResult, error) {
	output, err := s.resultRepo.ListResults(ctx, &resultRepo.ListResultsInput{
		GameID: gameID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return output.Results, nil
}

// standings computes the leaderboard from the stored log and roster
func (s *service) standings(ctx context.Context, gameID string) ([]*models.LeaderboardRow, error) {
	results, err := s.results(ctx, gameID)
	if err != nil {
		return nil, err
	}

	players, err := s.roster(ctx, gameID)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(players))
	for _, p := range players {
		order = append(order, p.Name)
	}

	rows, err := leaderboard.Compute(results, order)
	if err != nil {
		if errors.Is(err, leaderboard.ErrMalformedEntry) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
		}
		return nil, err
	}
	return rows, nil
}

// raceStored reports whether every entry of batch is already in the log with
// the same position
func (s *service) raceStored(ctx context.Context, gameID string, batch []*models.RaceResult) (bool, error) {
	logged, err := s.results(ctx, gameID)
	if err != nil {
		return false, err
	}

	positions := make(map[string]int, len(logged))
	for _, r := range logged {
		positions[r.Key()] = r.Position
	}
	for _, r := range batch {
		position, ok := positions[r.Key()]
		if !ok || position != r.Position {
			return false, nil
		}
	}
	return true, nil
}

// translateResultErr maps result log errors onto the game taxonomy
func translateResultErr(err error) error {
	switch {
	case errors.Is(err, resultRepo.ErrDuplicateEntry):
		return fmt.Errorf("%w: %v", ErrDuplicateEntry, err)
	case errors.Is(err, resultRepo.ErrUnknownPlayer):
		return fmt.Errorf("%w: %v", ErrUnknownPlayer, err)
	default:
		return fmt.Errorf("failed to record results: %w", err)
	}
}

// CreateGame creates a new game on the welcome screen
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	now := s.clock.Now()
	game := &models.Game{
		ID:        s.uuidGenerator.NewUUID(),
		ChannelID: input.ChannelID,
		Status:    models.GameStatusWelcome,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, s.reject(ctx, "create_game", game.ID, fmt.Errorf("failed to save game: %w", err))
	}

	s.metrics.GameCreated()
	s.logger.InfoContext(ctx, "game created", "game_id", game.ID, "channel_id", game.ChannelID)

	return &CreateGameOutput{
		Game: game,
	}, nil
}

// GetGame retrieves a game by ID
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// GetGameByChannel retrieves the latest game created in a channel
func (s *service) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*GetGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel ID is required", ErrInvalidInput)
	}

	game, err := s.gameRepo.GetGameByChannel(ctx, &gameRepo.GetGameByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game for channel: %w", err)
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// ListActiveGames lists registering and racing games
func (s *service) ListActiveGames(ctx context.Context, input *ListActiveGamesInput) (*ListActiveGamesOutput, error) {
	output, err := s.gameRepo.GetActiveGames(ctx, &gameRepo.GetActiveGamesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	return &ListActiveGamesOutput{
		Games: output.Games,
	}, nil
}

// StartRegistration moves a game from the welcome screen to registration
func (s *service) StartRegistration(ctx context.Context, input *StartRegistrationInput) (*StartRegistrationOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "start_registration", input.GameID, err)
	}

	if err := advance(game, models.GameEventOpenRegistration); err != nil {
		return nil, s.reject(ctx, "start_registration", input.GameID, err)
	}

	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "start_registration", input.GameID, err)
	}

	return &StartRegistrationOutput{
		Game: game,
	}, nil
}

// RegisterPlayer adds a player to the roster while registration is open
func (s *service) RegisterPlayer(ctx context.Context, input *RegisterPlayerInput) (*RegisterPlayerOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, s.reject(ctx, "register_player", input.GameID, fmt.Errorf("%w: player name cannot be blank", ErrInvalidInput))
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "register_player", input.GameID, err)
	}

	if !game.Status.IsRegistration() {
		err := fmt.Errorf("%w: players can only register during registration, game is in %s", ErrInvalidGameState, game.Status)
		return nil, s.reject(ctx, "register_player", input.GameID, err)
	}

	player := &models.Player{
		GameID:       game.ID,
		Name:         name,
		RegisteredAt: s.clock.Now(),
	}

	err = s.playerRepo.AddPlayer(ctx, &playerRepo.AddPlayerInput{
		Player: player,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerExists) {
			err = fmt.Errorf("%w: %q", ErrAlreadyExists, name)
		} else {
			err = fmt.Errorf("failed to add player: %w", err)
		}
		return nil, s.reject(ctx, "register_player", input.GameID, err)
	}

	s.metrics.PlayerRegistered()
	s.logger.InfoContext(ctx, "player registered", "game_id", game.ID, "player", name)

	return &RegisterPlayerOutput{
		Player: player,
	}, nil
}

// ListPlayers returns the roster in registration order
func (s *service) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	if _, err := s.loadGame(ctx, input.GameID); err != nil {
		return nil, err
	}

	players, err := s.roster(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &ListPlayersOutput{
		Players: players,
	}, nil
}

// ChooseGameMaster draws a random player from the roster; drawing again replaces the pick
func (s *service) ChooseGameMaster(ctx context.Context, input *ChooseGameMasterInput) (*ChooseGameMasterOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "choose_game_master", input.GameID, err)
	}

	if !game.Status.IsRegistration() {
		err := fmt.Errorf("%w: game master is drawn during registration, game is in %s", ErrInvalidGameState, game.Status)
		return nil, s.reject(ctx, "choose_game_master", input.GameID, err)
	}

	players, err := s.roster(ctx, game.ID)
	if err != nil {
		return nil, s.reject(ctx, "choose_game_master", input.GameID, err)
	}
	if len(players) == 0 {
		return nil, s.reject(ctx, "choose_game_master", input.GameID, ErrNoPlayers)
	}

	roll := s.diceRoller.Roll(len(players))
	if roll < 1 || roll > len(players) {
		return nil, s.reject(ctx, "choose_game_master", input.GameID,
			fmt.Errorf("roll %d out of range for %d players", roll, len(players)))
	}

	game.GameMaster = players[roll-1].Name
	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "choose_game_master", input.GameID, err)
	}

	s.logger.InfoContext(ctx, "game master chosen", "game_id", game.ID, "player", game.GameMaster)

	return &ChooseGameMasterOutput{
		GameMaster: game.GameMaster,
		Game:       game,
	}, nil
}

// StartRaces closes registration and begins race 1
func (s *service) StartRaces(ctx context.Context, input *StartRacesInput) (*StartRacesOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	total := input.TotalRaces
	if total == 0 {
		total = s.defaultRaces
	}
	if total < 1 || total > s.maxRaces {
		err := fmt.Errorf("%w: number of races must be between 1 and %d", ErrInvalidInput, s.maxRaces)
		return nil, s.reject(ctx, "start_races", input.GameID, err)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "start_races", input.GameID, err)
	}

	if err := advance(game, models.GameEventStartRaces); err != nil {
		return nil, s.reject(ctx, "start_races", input.GameID, err)
	}

	players, err := s.roster(ctx, game.ID)
	if err != nil {
		return nil, s.reject(ctx, "start_races", input.GameID, err)
	}
	if len(players) == 0 {
		return nil, s.reject(ctx, "start_races", input.GameID, ErrNoPlayers)
	}

	game.TotalRaces = total
	game.CurrentRace = 1
	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "start_races", input.GameID, err)
	}

	s.logger.InfoContext(ctx, "races started", "game_id", game.ID, "total_races", total, "players", len(players))

	return &StartRacesOutput{
		Game: game,
	}, nil
}

// SubmitRace records the current race as one batch, then advances to the next
// race or to the leaderboard after the last one
func (s *service) SubmitRace(ctx context.Context, input *SubmitRaceInput) (*SubmitRaceOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	if len(input.Positions) == 0 {
		return nil, s.reject(ctx, "submit_race", input.GameID, fmt.Errorf("%w: no positions submitted", ErrInvalidInput))
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	if !game.Status.IsRaceInput() {
		err := fmt.Errorf("%w: races are not being played, game is in %s", ErrInvalidGameState, game.Status)
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	players, err := s.roster(ctx, game.ID)
	if err != nil {
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	registered := make(map[string]struct{}, len(players))
	for _, p := range players {
		registered[p.Name] = struct{}{}
	}
	for name := range input.Positions {
		if _, ok := registered[name]; !ok {
			return nil, s.reject(ctx, "submit_race", input.GameID, fmt.Errorf("%w: %q", ErrUnknownPlayer, name))
		}
	}

	if s.requireCompleteRaces && len(input.Positions) < len(players) {
		missing := make([]string, 0, len(players)-len(input.Positions))
		for _, p := range players {
			if _, ok := input.Positions[p.Name]; !ok {
				missing = append(missing, p.Name)
			}
		}
		err := fmt.Errorf("%w: missing %s", ErrIncompleteRace, strings.Join(missing, ", "))
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	raceNumber := game.CurrentRace
	now := s.clock.Now()

	// Roster order keeps the stored log independent of map iteration
	results := make([]*models.RaceResult, 0, len(input.Positions))
	for _, p := range players {
		position, ok := input.Positions[p.Name]
		if !ok {
			continue
		}

		points, err := scoring.Points(position)
		if err != nil {
			err := fmt.Errorf("%w: %s finished %d", ErrInvalidPosition, p.Name, position)
			return nil, s.reject(ctx, "submit_race", input.GameID, err)
		}

		results = append(results, &models.RaceResult{
			GameID:     game.ID,
			RaceNumber: raceNumber,
			PlayerName: p.Name,
			Position:   position,
			Points:     points,
			RecordedAt: now,
		})
	}

	event := models.GameEventSubmitRace
	if raceNumber >= game.TotalRaces {
		event = models.GameEventFinishRaces
	}
	if err := advance(game, event); err != nil {
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	recorded := len(results)
	err = s.resultRepo.AddResults(ctx, &resultRepo.AddResultsInput{
		GameID:  game.ID,
		Results: results,
	})
	if err != nil {
		if !errors.Is(err, resultRepo.ErrDuplicateEntry) {
			return nil, s.reject(ctx, "submit_race", input.GameID, translateResultErr(err))
		}

		// A race stored before a failed save is resumed, not rejected
		stored, lerr := s.raceStored(ctx, game.ID, results)
		if lerr != nil {
			return nil, s.reject(ctx, "submit_race", input.GameID, lerr)
		}
		if !stored {
			return nil, s.reject(ctx, "submit_race", input.GameID, translateResultErr(err))
		}
		s.logger.WarnContext(ctx, "race already in the log, advancing", "game_id", game.ID, "race", raceNumber)
		recorded = 0
	}

	game.CurrentRace++
	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	s.metrics.ResultsRecorded(recorded)
	s.metrics.RaceSubmitted()

	rows, err := s.standings(ctx, game.ID)
	if err != nil {
		return nil, s.reject(ctx, "submit_race", input.GameID, err)
	}

	finished := game.Status.IsLeaderboard()
	s.logger.InfoContext(ctx, "race submitted",
		"game_id", game.ID,
		"race", raceNumber,
		"results", len(results),
		"finished", finished,
	)

	return &SubmitRaceOutput{
		RaceNumber:  raceNumber,
		Results:     results,
		Leaderboard: rows,
		Finished:    finished,
		Game:        game,
	}, nil
}

// RecordResult appends a single entry to the result log
func (s *service) RecordResult(ctx context.Context, input *RecordResultInput) (*RecordResultOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	if input.PlayerName == "" {
		return nil, s.reject(ctx, "record_result", input.GameID, fmt.Errorf("%w: player name is required", ErrInvalidInput))
	}

	points, err := scoring.Points(input.Position)
	if err != nil {
		err := fmt.Errorf("%w: got %d", ErrInvalidPosition, input.Position)
		return nil, s.reject(ctx, "record_result", input.GameID, err)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "record_result", input.GameID, err)
	}

	if !game.Status.IsRaceInput() {
		err := fmt.Errorf("%w: races are not being played, game is in %s", ErrInvalidGameState, game.Status)
		return nil, s.reject(ctx, "record_result", input.GameID, err)
	}

	if input.RaceNumber < 1 || input.RaceNumber > game.TotalRaces {
		err := fmt.Errorf("%w: race number must be between 1 and %d", ErrInvalidInput, game.TotalRaces)
		return nil, s.reject(ctx, "record_result", input.GameID, err)
	}

	_, err = s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		GameID: game.ID,
		Name:   input.PlayerName,
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			err = fmt.Errorf("%w: %q", ErrUnknownPlayer, input.PlayerName)
		} else {
			err = fmt.Errorf("failed to get player: %w", err)
		}
		return nil, s.reject(ctx, "record_result", input.GameID, err)
	}

	result := &models.RaceResult{
		GameID:     game.ID,
		RaceNumber: input.RaceNumber,
		PlayerName: input.PlayerName,
		Position:   input.Position,
		Points:     points,
		RecordedAt: s.clock.Now(),
	}

	err = s.resultRepo.AddResults(ctx, &resultRepo.AddResultsInput{
		GameID:  game.ID,
		Results: []*models.RaceResult{result},
	})
	if err != nil {
		return nil, s.reject(ctx, "record_result", input.GameID, translateResultErr(err))
	}

	s.metrics.ResultsRecorded(1)
	s.logger.InfoContext(ctx, "result recorded",
		"game_id", game.ID,
		"race", result.RaceNumber,
		"player", result.PlayerName,
		"position", result.Position,
	)

	return &RecordResultOutput{
		Result: result,
	}, nil
}

// ListResults returns the result log in insertion order
func (s *service) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	if _, err := s.loadGame(ctx, input.GameID); err != nil {
		return nil, err
	}

	results, err := s.results(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &ListResultsOutput{
		Results: results,
	}, nil
}

// GetLeaderboard computes standings from the result log; it is allowed in any state
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	rows, err := s.standings(ctx, game.ID)
	if err != nil {
		return nil, s.reject(ctx, "get_leaderboard", input.GameID, err)
	}

	return &GetLeaderboardOutput{
		Rows: rows,
		Game: game,
	}, nil
}

// ResetGame wipes the roster and result log and reopens registration
func (s *service) ResetGame(ctx context.Context, input *ResetGameInput) (*ResetGameOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "reset_game", input.GameID, err)
	}

	if err := advance(game, models.GameEventReset); err != nil {
		return nil, s.reject(ctx, "reset_game", input.GameID, err)
	}

	// Results go first so a failure never leaves entries without their players
	if err := s.resultRepo.ClearResults(ctx, &resultRepo.ClearResultsInput{GameID: game.ID}); err != nil {
		return nil, s.reject(ctx, "reset_game", input.GameID, fmt.Errorf("failed to clear results: %w", err))
	}
	if err := s.playerRepo.ClearPlayers(ctx, &playerRepo.ClearPlayersInput{GameID: game.ID}); err != nil {
		return nil, s.reject(ctx, "reset_game", input.GameID, fmt.Errorf("failed to clear players: %w", err))
	}

	game.TotalRaces = 0
	game.CurrentRace = 0
	game.GameMaster = ""
	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "reset_game", input.GameID, err)
	}

	s.metrics.GameReset()
	s.logger.InfoContext(ctx, "game reset", "game_id", game.ID)

	return &ResetGameOutput{
		Game: game,
	}, nil
}

// QuitGame leaves the leaderboard for the welcome screen. The roster is kept
// so the same players can start another set of races; results are cleared.
func (s *service) QuitGame(ctx context.Context, input *QuitGameInput) (*QuitGameOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "quit_game", input.GameID, err)
	}

	if err := advance(game, models.GameEventQuit); err != nil {
		return nil, s.reject(ctx, "quit_game", input.GameID, err)
	}

	if err := s.resultRepo.ClearResults(ctx, &resultRepo.ClearResultsInput{GameID: game.ID}); err != nil {
		return nil, s.reject(ctx, "quit_game", input.GameID, fmt.Errorf("failed to clear results: %w", err))
	}

	game.TotalRaces = 0
	game.CurrentRace = 0
	game.GameMaster = ""
	if err := s.saveGame(ctx, game); err != nil {
		return nil, s.reject(ctx, "quit_game", input.GameID, err)
	}

	s.logger.InfoContext(ctx, "game quit", "game_id", game.ID)

	return &QuitGameOutput{
		Game: game,
	}, nil
}

// DeleteGame removes the game in any state. The result log goes first, then
// the roster, then the game itself, so a failure part way leaves a game that
// can be deleted again.
func (s *service) DeleteGame(ctx context.Context, input *DeleteGameInput) (*DeleteGameOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	unlock := s.lock(input.GameID)
	defer unlock()

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, s.reject(ctx, "delete_game", input.GameID, err)
	}

	if err := s.resultRepo.ClearResults(ctx, &resultRepo.ClearResultsInput{GameID: game.ID}); err != nil {
		return nil, s.reject(ctx, "delete_game", input.GameID, fmt.Errorf("failed to clear results: %w", err))
	}
	if err := s.playerRepo.ClearPlayers(ctx, &playerRepo.ClearPlayersInput{GameID: game.ID}); err != nil {
		return nil, s.reject(ctx, "delete_game", input.GameID, fmt.Errorf("failed to clear players: %w", err))
	}
	if err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{GameID: game.ID}); err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			err = ErrGameNotFound
		} else {
			err = fmt.Errorf("failed to delete game: %w", err)
		}
		return nil, s.reject(ctx, "delete_game", input.GameID, err)
	}

	// Callers already waiting on this lock find the game gone
	s.locks.Delete(game.ID)

	s.logger.InfoContext(ctx, "game deleted", "game_id", game.ID, "channel_id", game.ChannelID)

	return &DeleteGameOutput{
		Game: game,
	}, nil
}
