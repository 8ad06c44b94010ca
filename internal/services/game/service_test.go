package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/kartboard/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/kartboard/internal/common/uuid/mocks"
	diceMocks "github.com/KirkDiggler/kartboard/internal/dice/mocks"
	"github.com/KirkDiggler/kartboard/internal/models"
	gameRepo "github.com/KirkDiggler/kartboard/internal/repositories/game"
	gameMocks "github.com/KirkDiggler/kartboard/internal/repositories/game/mocks"
	playerRepo "github.com/KirkDiggler/kartboard/internal/repositories/player"
	playerMocks "github.com/KirkDiggler/kartboard/internal/repositories/player/mocks"
	resultRepo "github.com/KirkDiggler/kartboard/internal/repositories/race_result"
	resultMocks "github.com/KirkDiggler/kartboard/internal/repositories/race_result/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockGameRepo   *gameMocks.MockRepository
	mockPlayerRepo *playerMocks.MockRepository
	mockResultRepo *resultMocks.MockRepository
	mockDiceRoller *diceMocks.MockRoller
	mockClock      *mocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	gameService    Service
	ctx            context.Context

	// Test data
	testTime      time.Time
	testGameID    string
	testChannelID string

	// Reusable test fixtures
	expectedRoster []*models.Player
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameRepo = gameMocks.NewMockRepository(s.mockCtrl)
	s.mockPlayerRepo = playerMocks.NewMockRepository(s.mockCtrl)
	s.mockResultRepo = resultMocks.NewMockRepository(s.mockCtrl)
	s.mockDiceRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testGameID = "test-game-id"
	s.testChannelID = "test-channel-id"

	// Set up the clock mock to return our test time
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	s.expectedRoster = []*models.Player{
		{GameID: s.testGameID, Name: "Mario", RegisteredAt: s.testTime},
		{GameID: s.testGameID, Name: "Luigi", RegisteredAt: s.testTime},
	}

	var err error
	s.gameService, err = New(&Config{
		GameRepo:      s.mockGameRepo,
		PlayerRepo:    s.mockPlayerRepo,
		ResultRepo:    s.mockResultRepo,
		DiceRoller:    s.mockDiceRoller,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

// gameIn returns a fresh game in the given state
func (s *GameServiceTestSuite) gameIn(status models.GameStatus) *models.Game {
	return &models.Game{
		ID:        s.testGameID,
		Status:    status,
		CreatedAt: s.testTime,
		UpdatedAt: s.testTime,
	}
}

func (s *GameServiceTestSuite) expectGetGame(game *models.Game) {
	s.mockGameRepo.EXPECT().
		GetGame(gomock.Any(), &gameRepo.GetGameInput{GameID: s.testGameID}).
		Return(game, nil)
}

func (s *GameServiceTestSuite) expectRoster() {
	s.mockPlayerRepo.EXPECT().
		ListPlayers(gomock.Any(), &playerRepo.ListPlayersInput{GameID: s.testGameID}).
		Return(&playerRepo.ListPlayersOutput{Players: s.expectedRoster}, nil)
}

func (s *GameServiceTestSuite) TestNewValidatesDependencies() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilGameRepo)

	_, err = New(&Config{GameRepo: s.mockGameRepo})
	s.ErrorIs(err, ErrNilPlayerRepo)

	_, err = New(&Config{GameRepo: s.mockGameRepo, PlayerRepo: s.mockPlayerRepo})
	s.ErrorIs(err, ErrNilResultRepo)

	_, err = New(&Config{
		GameRepo:   s.mockGameRepo,
		PlayerRepo: s.mockPlayerRepo,
		ResultRepo: s.mockResultRepo,
	})
	s.ErrorIs(err, ErrNilDiceRoller)

	_, err = New(&Config{
		GameRepo:   s.mockGameRepo,
		PlayerRepo: s.mockPlayerRepo,
		ResultRepo: s.mockResultRepo,
		DiceRoller: s.mockDiceRoller,
	})
	s.ErrorIs(err, ErrNilClock)

	_, err = New(&Config{
		GameRepo:   s.mockGameRepo,
		PlayerRepo: s.mockPlayerRepo,
		ResultRepo: s.mockResultRepo,
		DiceRoller: s.mockDiceRoller,
		Clock:      s.mockClock,
	})
	s.ErrorIs(err, ErrNilUUIDGenerator)

	_, err = New(&Config{
		GameRepo:      s.mockGameRepo,
		PlayerRepo:    s.mockPlayerRepo,
		ResultRepo:    s.mockResultRepo,
		DiceRoller:    s.mockDiceRoller,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		MaxRaces:      2,
		DefaultRaces:  3,
	})
	s.Error(err)
}

func (s *GameServiceTestSuite) TestCreateGame() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(s.testGameID, input.Game.ID)
			s.Equal(s.testChannelID, input.Game.ChannelID)
			s.Equal(models.GameStatusWelcome, input.Game.Status)
			s.Equal(s.testTime, input.Game.CreatedAt)
			return nil
		})

	output, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{ChannelID: s.testChannelID})
	s.Require().NoError(err)
	s.Equal(s.testGameID, output.Game.ID)
	s.Equal(models.GameStatusWelcome, output.Game.Status)
}

func (s *GameServiceTestSuite) TestCreateGameStorageFailure() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testGameID)
	s.mockGameRepo.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	_, err := s.gameService.CreateGame(s.ctx, &CreateGameInput{})
	s.Require().Error(err)
	s.Empty(Reason(err))
}

func (s *GameServiceTestSuite) TestGetGameNotFound() {
	s.mockGameRepo.EXPECT().
		GetGame(gomock.Any(), &gameRepo.GetGameInput{GameID: s.testGameID}).
		Return(nil, gameRepo.ErrGameNotFound)

	_, err := s.gameService.GetGame(s.ctx, &GetGameInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *GameServiceTestSuite) TestGetGameRequiresID() {
	_, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestStartRegistration() {
	s.expectGetGame(s.gameIn(models.GameStatusWelcome))
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusRegistration, input.Game.Status)
			return nil
		})

	output, err := s.gameService.StartRegistration(s.ctx, &StartRegistrationInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusRegistration, output.Game.Status)
}

func (s *GameServiceTestSuite) TestStartRegistrationFromWrongState() {
	s.expectGetGame(s.gameIn(models.GameStatusRaceInput))

	_, err := s.gameService.StartRegistration(s.ctx, &StartRegistrationInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrInvalidGameState)
}

func (s *GameServiceTestSuite) TestRegisterPlayer() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.mockPlayerRepo.EXPECT().
		AddPlayer(gomock.Any(), &playerRepo.AddPlayerInput{
			Player: &models.Player{GameID: s.testGameID, Name: "Mario", RegisteredAt: s.testTime},
		}).
		Return(nil)

	output, err := s.gameService.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GameID: s.testGameID,
		Name:   "  Mario ",
	})
	s.Require().NoError(err)
	s.Equal("Mario", output.Player.Name)
}

func (s *GameServiceTestSuite) TestRegisterPlayerBlankName() {
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.gameService.RegisterPlayer(s.ctx, &RegisterPlayerInput{
			GameID: s.testGameID,
			Name:   name,
		})
		s.ErrorIs(err, ErrInvalidInput)
	}
}

func (s *GameServiceTestSuite) TestRegisterPlayerDuplicate() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.mockPlayerRepo.EXPECT().
		AddPlayer(gomock.Any(), gomock.Any()).
		Return(playerRepo.ErrPlayerExists)

	_, err := s.gameService.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GameID: s.testGameID,
		Name:   "Mario",
	})
	s.ErrorIs(err, ErrAlreadyExists)
	s.Equal("already_exists", Reason(err))
}

func (s *GameServiceTestSuite) TestRegisterPlayerOutsideRegistration() {
	s.expectGetGame(s.gameIn(models.GameStatusRaceInput))

	_, err := s.gameService.RegisterPlayer(s.ctx, &RegisterPlayerInput{
		GameID: s.testGameID,
		Name:   "Mario",
	})
	s.ErrorIs(err, ErrInvalidGameState)
}

func (s *GameServiceTestSuite) TestChooseGameMaster() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.expectRoster()
	s.mockDiceRoller.EXPECT().Roll(2).Return(2)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal("Luigi", input.Game.GameMaster)
			return nil
		})

	output, err := s.gameService.ChooseGameMaster(s.ctx, &ChooseGameMasterInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal("Luigi", output.GameMaster)
}

func (s *GameServiceTestSuite) TestChooseGameMasterWithoutPlayers() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.mockPlayerRepo.EXPECT().
		ListPlayers(gomock.Any(), gomock.Any()).
		Return(&playerRepo.ListPlayersOutput{Players: []*models.Player{}}, nil)

	_, err := s.gameService.ChooseGameMaster(s.ctx, &ChooseGameMasterInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrNoPlayers)
}

func (s *GameServiceTestSuite) TestStartRaces() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.expectRoster()
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusRaceInput, input.Game.Status)
			s.Equal(defaultDefaultRaces, input.Game.TotalRaces)
			s.Equal(1, input.Game.CurrentRace)
			return nil
		})

	output, err := s.gameService.StartRaces(s.ctx, &StartRacesInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(defaultDefaultRaces, output.Game.TotalRaces)
}

func (s *GameServiceTestSuite) TestStartRacesOutOfRange() {
	for _, total := range []int{-1, defaultMaxRaces + 1} {
		_, err := s.gameService.StartRaces(s.ctx, &StartRacesInput{GameID: s.testGameID, TotalRaces: total})
		s.ErrorIs(err, ErrInvalidInput)
	}
}

func (s *GameServiceTestSuite) TestStartRacesWithoutPlayers() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.mockPlayerRepo.EXPECT().
		ListPlayers(gomock.Any(), gomock.Any()).
		Return(&playerRepo.ListPlayersOutput{Players: []*models.Player{}}, nil)

	_, err := s.gameService.StartRaces(s.ctx, &StartRacesInput{GameID: s.testGameID, TotalRaces: 2})
	s.ErrorIs(err, ErrNoPlayers)
}

func (s *GameServiceTestSuite) racingGame(current, total int) *models.Game {
	game := s.gameIn(models.GameStatusRaceInput)
	game.CurrentRace = current
	game.TotalRaces = total
	return game
}

func (s *GameServiceTestSuite) TestSubmitRaceAdvances() {
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()
	s.mockResultRepo.EXPECT().
		AddResults(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *resultRepo.AddResultsInput) error {
			s.Require().Len(input.Results, 2)
			// Stored in roster order
			s.Equal("Mario", input.Results[0].PlayerName)
			s.Equal(10, input.Results[0].Points)
			s.Equal("Luigi", input.Results[1].PlayerName)
			s.Equal(15, input.Results[1].Points)
			return nil
		})
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusRaceInput, input.Game.Status)
			s.Equal(2, input.Game.CurrentRace)
			return nil
		})
	s.mockResultRepo.EXPECT().
		ListResults(gomock.Any(), gomock.Any()).
		Return(&resultRepo.ListResultsOutput{Results: []*models.RaceResult{
			{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Mario", Position: 3, Points: 10},
			{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Luigi", Position: 1, Points: 15},
		}}, nil)
	s.expectRoster()

	output, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Luigi": 1, "Mario": 3},
	})
	s.Require().NoError(err)
	s.Equal(1, output.RaceNumber)
	s.False(output.Finished)
	s.Require().Len(output.Leaderboard, 2)
	s.Equal("Luigi", output.Leaderboard[0].PlayerName)
	s.Equal(1, output.Leaderboard[0].Rank)
}

func (s *GameServiceTestSuite) TestSubmitLastRaceFinishes() {
	s.expectGetGame(s.racingGame(2, 2))
	s.expectRoster()
	s.mockResultRepo.EXPECT().AddResults(gomock.Any(), gomock.Any()).Return(nil)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusLeaderboard, input.Game.Status)
			s.True(input.Game.RacesComplete())
			return nil
		})
	s.mockResultRepo.EXPECT().
		ListResults(gomock.Any(), gomock.Any()).
		Return(&resultRepo.ListResultsOutput{Results: []*models.RaceResult{}}, nil)
	s.expectRoster()

	output, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1, "Luigi": 2},
	})
	s.Require().NoError(err)
	s.True(output.Finished)
	s.Equal(2, output.RaceNumber)
}

func (s *GameServiceTestSuite) TestSubmitRaceUnknownPlayer() {
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()

	_, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1, "Wario": 2},
	})
	s.ErrorIs(err, ErrUnknownPlayer)
}

func (s *GameServiceTestSuite) TestSubmitRaceInvalidPosition() {
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()

	_, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1, "Luigi": 13},
	})
	s.ErrorIs(err, ErrInvalidPosition)
}

func (s *GameServiceTestSuite) TestSubmitRaceDuplicateEntry() {
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()
	s.mockResultRepo.EXPECT().AddResults(gomock.Any(), gomock.Any()).Return(resultRepo.ErrDuplicateEntry)
	// Mario is already in the log with a different position
	s.mockResultRepo.EXPECT().
		ListResults(gomock.Any(), gomock.Any()).
		Return(&resultRepo.ListResultsOutput{Results: []*models.RaceResult{
			{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Mario", Position: 4, Points: 8},
		}}, nil)

	_, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1},
	})
	s.ErrorIs(err, ErrDuplicateEntry)
}

func (s *GameServiceTestSuite) TestSubmitRaceRetryAfterFailedSave() {
	stored := []*models.RaceResult{
		{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Mario", Position: 1, Points: 15},
		{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Luigi", Position: 2, Points: 12},
	}
	positions := map[string]int{"Mario": 1, "Luigi": 2}

	// First attempt: the batch lands but the game is not saved
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()
	s.mockResultRepo.EXPECT().AddResults(gomock.Any(), gomock.Any()).Return(nil)
	s.mockGameRepo.EXPECT().SaveGame(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{GameID: s.testGameID, Positions: positions})
	s.Require().Error(err)
	s.Empty(Reason(err))

	// Retry: the same batch is already logged, so the race counter moves on
	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()
	s.mockResultRepo.EXPECT().AddResults(gomock.Any(), gomock.Any()).Return(resultRepo.ErrDuplicateEntry)
	s.mockResultRepo.EXPECT().
		ListResults(gomock.Any(), gomock.Any()).
		Return(&resultRepo.ListResultsOutput{Results: stored}, nil).
		Times(2)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(2, input.Game.CurrentRace)
			return nil
		})
	s.expectRoster()

	output, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{GameID: s.testGameID, Positions: positions})
	s.Require().NoError(err)
	s.Equal(1, output.RaceNumber)
	s.Equal(2, output.Game.CurrentRace)
	s.Require().Len(output.Leaderboard, 2)
	s.Equal("Mario", output.Leaderboard[0].PlayerName)
}

func (s *GameServiceTestSuite) TestSubmitRaceWrongState() {
	s.expectGetGame(s.gameIn(models.GameStatusLeaderboard))

	_, err := s.gameService.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1},
	})
	s.ErrorIs(err, ErrInvalidGameState)
}

func (s *GameServiceTestSuite) TestSubmitRaceIncompleteWhenRequired() {
	svc, err := New(&Config{
		GameRepo:             s.mockGameRepo,
		PlayerRepo:           s.mockPlayerRepo,
		ResultRepo:           s.mockResultRepo,
		DiceRoller:           s.mockDiceRoller,
		Clock:                s.mockClock,
		UUIDGenerator:        s.mockUUID,
		RequireCompleteRaces: true,
	})
	s.Require().NoError(err)

	s.expectGetGame(s.racingGame(1, 2))
	s.expectRoster()

	_, err = svc.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.testGameID,
		Positions: map[string]int{"Mario": 1},
	})
	s.ErrorIs(err, ErrIncompleteRace)
	s.Contains(err.Error(), "Luigi")
}

func (s *GameServiceTestSuite) TestRecordResult() {
	s.expectGetGame(s.racingGame(1, 3))
	s.mockPlayerRepo.EXPECT().
		GetPlayer(gomock.Any(), &playerRepo.GetPlayerInput{GameID: s.testGameID, Name: "Mario"}).
		Return(s.expectedRoster[0], nil)
	s.mockResultRepo.EXPECT().
		AddResults(gomock.Any(), &resultRepo.AddResultsInput{
			GameID: s.testGameID,
			Results: []*models.RaceResult{{
				GameID:     s.testGameID,
				RaceNumber: 2,
				PlayerName: "Mario",
				Position:   12,
				Points:     0,
				RecordedAt: s.testTime,
			}},
		}).
		Return(nil)

	output, err := s.gameService.RecordResult(s.ctx, &RecordResultInput{
		GameID:     s.testGameID,
		RaceNumber: 2,
		PlayerName: "Mario",
		Position:   12,
	})
	s.Require().NoError(err)
	s.Equal(0, output.Result.Points)
}

func (s *GameServiceTestSuite) TestRecordResultInvalidPosition() {
	for _, position := range []int{0, 13, -4} {
		_, err := s.gameService.RecordResult(s.ctx, &RecordResultInput{
			GameID:     s.testGameID,
			RaceNumber: 1,
			PlayerName: "Mario",
			Position:   position,
		})
		s.ErrorIs(err, ErrInvalidPosition)
	}
}

func (s *GameServiceTestSuite) TestRecordResultUnknownPlayer() {
	s.expectGetGame(s.racingGame(1, 3))
	s.mockPlayerRepo.EXPECT().
		GetPlayer(gomock.Any(), gomock.Any()).
		Return(nil, playerRepo.ErrPlayerNotFound)

	_, err := s.gameService.RecordResult(s.ctx, &RecordResultInput{
		GameID:     s.testGameID,
		RaceNumber: 1,
		PlayerName: "Wario",
		Position:   1,
	})
	s.ErrorIs(err, ErrUnknownPlayer)
}

func (s *GameServiceTestSuite) TestRecordResultRaceOutOfRange() {
	s.expectGetGame(s.racingGame(1, 3))

	_, err := s.gameService.RecordResult(s.ctx, &RecordResultInput{
		GameID:     s.testGameID,
		RaceNumber: 4,
		PlayerName: "Mario",
		Position:   1,
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *GameServiceTestSuite) TestGetLeaderboardMalformedLog() {
	s.expectGetGame(s.gameIn(models.GameStatusLeaderboard))
	s.mockResultRepo.EXPECT().
		ListResults(gomock.Any(), gomock.Any()).
		Return(&resultRepo.ListResultsOutput{Results: []*models.RaceResult{
			{GameID: s.testGameID, RaceNumber: 1, PlayerName: "Mario", Position: 1, Points: -15},
		}}, nil)
	s.expectRoster()

	_, err := s.gameService.GetLeaderboard(s.ctx, &GetLeaderboardInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrMalformedEntry)
}

func (s *GameServiceTestSuite) TestResetGame() {
	game := s.racingGame(2, 3)
	game.GameMaster = "Mario"
	s.expectGetGame(game)

	gomock.InOrder(
		s.mockResultRepo.EXPECT().
			ClearResults(gomock.Any(), &resultRepo.ClearResultsInput{GameID: s.testGameID}).
			Return(nil),
		s.mockPlayerRepo.EXPECT().
			ClearPlayers(gomock.Any(), &playerRepo.ClearPlayersInput{GameID: s.testGameID}).
			Return(nil),
	)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusRegistration, input.Game.Status)
			s.Zero(input.Game.TotalRaces)
			s.Zero(input.Game.CurrentRace)
			s.Empty(input.Game.GameMaster)
			return nil
		})

	output, err := s.gameService.ResetGame(s.ctx, &ResetGameInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusRegistration, output.Game.Status)
}

func (s *GameServiceTestSuite) TestResetGameClearFailureKeepsState() {
	s.expectGetGame(s.racingGame(2, 3))
	s.mockResultRepo.EXPECT().ClearResults(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.gameService.ResetGame(s.ctx, &ResetGameInput{GameID: s.testGameID})
	s.Require().Error(err)
}

func (s *GameServiceTestSuite) TestQuitGameKeepsRoster() {
	s.expectGetGame(s.gameIn(models.GameStatusLeaderboard))
	s.mockResultRepo.EXPECT().
		ClearResults(gomock.Any(), &resultRepo.ClearResultsInput{GameID: s.testGameID}).
		Return(nil)
	s.mockGameRepo.EXPECT().
		SaveGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *gameRepo.SaveGameInput) error {
			s.Equal(models.GameStatusWelcome, input.Game.Status)
			return nil
		})

	output, err := s.gameService.QuitGame(s.ctx, &QuitGameInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusWelcome, output.Game.Status)
}

func (s *GameServiceTestSuite) TestQuitGameBeforeLeaderboard() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))

	_, err := s.gameService.QuitGame(s.ctx, &QuitGameInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrInvalidGameState)
}

func (s *GameServiceTestSuite) TestDeleteGame() {
	game := s.racingGame(2, 3)
	game.ChannelID = s.testChannelID
	s.expectGetGame(game)

	gomock.InOrder(
		s.mockResultRepo.EXPECT().
			ClearResults(gomock.Any(), &resultRepo.ClearResultsInput{GameID: s.testGameID}).
			Return(nil),
		s.mockPlayerRepo.EXPECT().
			ClearPlayers(gomock.Any(), &playerRepo.ClearPlayersInput{GameID: s.testGameID}).
			Return(nil),
		s.mockGameRepo.EXPECT().
			DeleteGame(gomock.Any(), &gameRepo.DeleteGameInput{GameID: s.testGameID}).
			Return(nil),
	)

	output, err := s.gameService.DeleteGame(s.ctx, &DeleteGameInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(s.testGameID, output.Game.ID)

	// The per-game lock is released with the game
	_, held := s.gameService.(*service).locks.Load(s.testGameID)
	s.False(held)
}

func (s *GameServiceTestSuite) TestDeleteGameNotFound() {
	s.mockGameRepo.EXPECT().
		GetGame(gomock.Any(), gomock.Any()).
		Return(nil, gameRepo.ErrGameNotFound)

	_, err := s.gameService.DeleteGame(s.ctx, &DeleteGameInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *GameServiceTestSuite) TestDeleteGameClearFailureKeepsGame() {
	s.expectGetGame(s.gameIn(models.GameStatusRegistration))
	s.mockResultRepo.EXPECT().ClearResults(gomock.Any(), gomock.Any()).Return(nil)
	s.mockPlayerRepo.EXPECT().ClearPlayers(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.gameService.DeleteGame(s.ctx, &DeleteGameInput{GameID: s.testGameID})
	s.Require().Error(err)
	s.Empty(Reason(err))
}
