package game

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/kartboard/internal/common/clock"
	"github.com/KirkDiggler/kartboard/internal/common/uuid"
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/models"
	gameRepo "github.com/KirkDiggler/kartboard/internal/repositories/game"
	playerRepo "github.com/KirkDiggler/kartboard/internal/repositories/player"
	resultRepo "github.com/KirkDiggler/kartboard/internal/repositories/race_result"
)

// ScenarioTestSuite drives whole games through the in-memory stores
type ScenarioTestSuite struct {
	suite.Suite
	svc    Service
	ctx    context.Context
	gameID string
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupTest() {
	s.ctx = context.Background()

	svc, err := New(&Config{
		GameRepo:      gameRepo.NewMemory(),
		PlayerRepo:    playerRepo.NewMemory(),
		ResultRepo:    resultRepo.NewMemory(),
		DiceRoller:    dice.New(&dice.Config{Seed: 7}),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)
	s.svc = svc

	created, err := s.svc.CreateGame(s.ctx, &CreateGameInput{})
	s.Require().NoError(err)
	s.gameID = created.Game.ID

	_, err = s.svc.StartRegistration(s.ctx, &StartRegistrationInput{GameID: s.gameID})
	s.Require().NoError(err)
}

func (s *ScenarioTestSuite) register(names ...string) {
	for _, name := range names {
		_, err := s.svc.RegisterPlayer(s.ctx, &RegisterPlayerInput{GameID: s.gameID, Name: name})
		s.Require().NoError(err)
	}
}

func (s *ScenarioTestSuite) startRaces(total int) {
	_, err := s.svc.StartRaces(s.ctx, &StartRacesInput{GameID: s.gameID, TotalRaces: total})
	s.Require().NoError(err)
}

func (s *ScenarioTestSuite) submit(positions map[string]int) *SubmitRaceOutput {
	output, err := s.svc.SubmitRace(s.ctx, &SubmitRaceInput{GameID: s.gameID, Positions: positions})
	s.Require().NoError(err)
	return output
}

func (s *ScenarioTestSuite) leaderboard() []*models.LeaderboardRow {
	output, err := s.svc.GetLeaderboard(s.ctx, &GetLeaderboardInput{GameID: s.gameID})
	s.Require().NoError(err)
	return output.Rows
}

func (s *ScenarioTestSuite) TestMarioAndLuigi() {
	s.register("Mario", "Luigi")
	s.startRaces(2)

	first := s.submit(map[string]int{"Mario": 1, "Luigi": 2})
	s.False(first.Finished)
	s.Require().Len(first.Leaderboard, 2)
	s.Equal("Mario", first.Leaderboard[0].PlayerName)

	last := s.submit(map[string]int{"Mario": 3, "Luigi": 1})
	s.True(last.Finished)
	s.Equal(models.GameStatusLeaderboard, last.Game.Status)

	rows := s.leaderboard()
	s.Require().Len(rows, 2)
	s.Equal("Luigi", rows[0].PlayerName)
	s.Equal(27, rows[0].TotalPoints)
	s.Equal(1, rows[0].Rank)
	s.Equal("Mario", rows[1].PlayerName)
	s.Equal(25, rows[1].TotalPoints)
	s.Equal(2, rows[1].Rank)

	// Reading twice without new results gives the same standings
	s.Equal(rows, s.leaderboard())
}

func (s *ScenarioTestSuite) TestTieSkipsRank() {
	s.register("Peach", "Daisy", "Toad")
	s.startRaces(2)

	// Peach 10+10, Daisy 12+8, Toad 10+8
	s.submit(map[string]int{"Peach": 3, "Daisy": 2, "Toad": 3})
	s.submit(map[string]int{"Peach": 3, "Daisy": 4, "Toad": 4})

	rows := s.leaderboard()
	s.Require().Len(rows, 3)
	s.Equal([]string{"Peach", "Daisy", "Toad"}, []string{rows[0].PlayerName, rows[1].PlayerName, rows[2].PlayerName})
	s.Equal([]int{20, 20, 18}, []int{rows[0].TotalPoints, rows[1].TotalPoints, rows[2].TotalPoints})
	s.Equal([]int{1, 1, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func (s *ScenarioTestSuite) TestPartialRaceOmitsSilentPlayers() {
	s.register("Mario", "Luigi", "Yoshi")
	s.startRaces(1)

	output := s.submit(map[string]int{"Mario": 12, "Luigi": 1})
	s.True(output.Finished)

	rows := s.leaderboard()
	s.Require().Len(rows, 2)
	s.Equal("Luigi", rows[0].PlayerName)
	s.Equal("Mario", rows[1].PlayerName)
	s.Equal(0, rows[1].TotalPoints)
}

func (s *ScenarioTestSuite) TestRecordResultThenSubmitRest() {
	s.register("Mario", "Luigi")
	s.startRaces(2)

	_, err := s.svc.RecordResult(s.ctx, &RecordResultInput{
		GameID: s.gameID, RaceNumber: 1, PlayerName: "Mario", Position: 2,
	})
	s.Require().NoError(err)

	_, err = s.svc.RecordResult(s.ctx, &RecordResultInput{
		GameID: s.gameID, RaceNumber: 1, PlayerName: "Mario", Position: 5,
	})
	s.ErrorIs(err, ErrDuplicateEntry)

	// Submitting Mario again for the same race is rejected as a whole
	_, err = s.svc.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.gameID,
		Positions: map[string]int{"Mario": 1, "Luigi": 2},
	})
	s.ErrorIs(err, ErrDuplicateEntry)

	results, err := s.svc.ListResults(s.ctx, &ListResultsInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Len(results.Results, 1)

	output := s.submit(map[string]int{"Luigi": 1})
	s.Equal(1, output.RaceNumber)
	s.Equal(2, output.Game.CurrentRace)
}

func (s *ScenarioTestSuite) TestRejectedOperationsLeaveStateUnchanged() {
	s.register("Mario")

	_, err := s.svc.RegisterPlayer(s.ctx, &RegisterPlayerInput{GameID: s.gameID, Name: "Mario"})
	s.ErrorIs(err, ErrAlreadyExists)

	// Case-sensitive names are distinct players
	s.register("mario")

	players, err := s.svc.ListPlayers(s.ctx, &ListPlayersInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Len(players.Players, 2)

	s.startRaces(1)
	_, err = s.svc.SubmitRace(s.ctx, &SubmitRaceInput{
		GameID:    s.gameID,
		Positions: map[string]int{"Mario": 1, "mario": 0},
	})
	s.ErrorIs(err, ErrInvalidPosition)

	game, err := s.svc.GetGame(s.ctx, &GetGameInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusRaceInput, game.Game.Status)
	s.Equal(1, game.Game.CurrentRace)
	s.Empty(s.leaderboard())
}

func (s *ScenarioTestSuite) TestResetThenLeaderboardIsEmpty() {
	s.register("Mario", "Luigi")
	s.startRaces(1)
	s.submit(map[string]int{"Mario": 1, "Luigi": 2})
	s.Len(s.leaderboard(), 2)

	reset, err := s.svc.ResetGame(s.ctx, &ResetGameInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusRegistration, reset.Game.Status)

	rows := s.leaderboard()
	s.NotNil(rows)
	s.Empty(rows)

	players, err := s.svc.ListPlayers(s.ctx, &ListPlayersInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Empty(players.Players)

	// Names can be reused after a reset
	s.register("Mario")
}

func (s *ScenarioTestSuite) TestQuitReturnsToWelcomeWithRoster() {
	s.register("Mario", "Luigi")
	s.startRaces(1)
	s.submit(map[string]int{"Mario": 1, "Luigi": 2})

	quit, err := s.svc.QuitGame(s.ctx, &QuitGameInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusWelcome, quit.Game.Status)
	s.Empty(s.leaderboard())

	_, err = s.svc.StartRegistration(s.ctx, &StartRegistrationInput{GameID: s.gameID})
	s.Require().NoError(err)

	players, err := s.svc.ListPlayers(s.ctx, &ListPlayersInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Len(players.Players, 2)

	s.startRaces(1)
	s.submit(map[string]int{"Mario": 2, "Luigi": 1})
	rows := s.leaderboard()
	s.Require().Len(rows, 2)
	s.Equal(15, rows[0].TotalPoints)
}

func (s *ScenarioTestSuite) TestGameMasterComesFromRoster() {
	s.register("Mario", "Luigi", "Peach")

	output, err := s.svc.ChooseGameMaster(s.ctx, &ChooseGameMasterInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Contains([]string{"Mario", "Luigi", "Peach"}, output.GameMaster)
}

func (s *ScenarioTestSuite) TestConcurrentRegistrationKeepsNamesUnique() {
	faker := gofakeit.New(11)
	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%d", faker.FirstName(), i%5)
	}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, _ = s.svc.RegisterPlayer(s.ctx, &RegisterPlayerInput{GameID: s.gameID, Name: name})
		}(name)
	}
	wg.Wait()

	players, err := s.svc.ListPlayers(s.ctx, &ListPlayersInput{GameID: s.gameID})
	s.Require().NoError(err)

	seen := make(map[string]bool)
	for _, p := range players.Players {
		s.False(seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
	}

	unique := make(map[string]bool)
	for _, name := range names {
		unique[name] = true
	}
	s.Len(players.Players, len(unique))
}

func (s *ScenarioTestSuite) TestConcurrentSubmissionsRecordRaceOnce() {
	s.register("Mario", "Luigi")
	s.startRaces(3)

	const writers = 6
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.svc.SubmitRace(s.ctx, &SubmitRaceInput{
				GameID:    s.gameID,
				Positions: map[string]int{"Mario": 1, "Luigi": 2},
			})
		}()
	}
	wg.Wait()

	// Each submission landed on its own race until the game finished
	results, err := s.svc.ListResults(s.ctx, &ListResultsInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Len(results.Results, 6)

	game, err := s.svc.GetGame(s.ctx, &GetGameInput{GameID: s.gameID})
	s.Require().NoError(err)
	s.Equal(models.GameStatusLeaderboard, game.Game.Status)
}

func (s *ScenarioTestSuite) TestGamesAreIsolated() {
	s.register("Mario")

	other, err := s.svc.CreateGame(s.ctx, &CreateGameInput{})
	s.Require().NoError(err)

	players, err := s.svc.ListPlayers(s.ctx, &ListPlayersInput{GameID: other.Game.ID})
	s.Require().NoError(err)
	s.Empty(players.Players)

	_, err = s.svc.GetGame(s.ctx, &GetGameInput{GameID: "missing"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ScenarioTestSuite) TestDeleteGameDropsEverything() {
	s.register("Mario", "Luigi")
	s.startRaces(2)
	s.submit(map[string]int{"Mario": 1, "Luigi": 2})

	_, err := s.svc.DeleteGame(s.ctx, &DeleteGameInput{GameID: s.gameID})
	s.Require().NoError(err)

	_, err = s.svc.GetGame(s.ctx, &GetGameInput{GameID: s.gameID})
	s.ErrorIs(err, ErrGameNotFound)

	_, err = s.svc.SubmitRace(s.ctx, &SubmitRaceInput{GameID: s.gameID, Positions: map[string]int{"Mario": 1}})
	s.ErrorIs(err, ErrGameNotFound)

	_, err = s.svc.DeleteGame(s.ctx, &DeleteGameInput{GameID: s.gameID})
	s.ErrorIs(err, ErrGameNotFound)

	active, err := s.svc.ListActiveGames(s.ctx, &ListActiveGamesInput{})
	s.Require().NoError(err)
	s.Empty(active.Games)
}
