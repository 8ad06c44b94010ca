package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/kartboard/internal/leaderboard"
	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/services/game"
	"github.com/KirkDiggler/kartboard/internal/services/game/mocks"
)

func snapshot(t *testing.T) *Snapshot {
	t.Helper()

	results := []*models.RaceResult{
		{GameID: "g1", RaceNumber: 1, PlayerName: "Mario", Position: 1, Points: 15},
		{GameID: "g1", RaceNumber: 1, PlayerName: "Luigi", Position: 2, Points: 12},
		{GameID: "g1", RaceNumber: 2, PlayerName: "Mario", Position: 3, Points: 10},
		{GameID: "g1", RaceNumber: 2, PlayerName: "Luigi", Position: 1, Points: 15},
	}
	rows, err := leaderboard.Compute(results, []string{"Mario", "Luigi"})
	require.NoError(t, err)

	return &Snapshot{
		Game: &models.Game{
			ID:         "g1",
			Status:     models.GameStatusLeaderboard,
			TotalRaces: 2,
			CreatedAt:  time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC),
		},
		Players: []*models.Player{
			{GameID: "g1", Name: "Mario"},
			{GameID: "g1", Name: "Luigi"},
		},
		Results:     results,
		Leaderboard: rows,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)

	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, snapshot(t)))

	var doc yamlDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "g1", doc.Game.ID)
	assert.Equal(t, []string{"Mario", "Luigi"}, doc.Players)
	require.Len(t, doc.Standings, 2)
	assert.Equal(t, yamlRow{Rank: 1, Player: "Luigi", Points: 27, Races: 2}, doc.Standings[0])
	assert.Equal(t, yamlRow{Rank: 2, Player: "Mario", Points: 25, Races: 2}, doc.Standings[1])
	assert.Len(t, doc.Results, 4)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, snapshot(t)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Player", "Points", "Races"},
		{"1", "Luigi", "27", "2"},
		{"2", "Mario", "25", "2"},
	}, rows)

	results, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, []string{"2", "Luigi", "1", "15"}, results[4])
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPNG, snapshot(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestWritePNGWithoutResults(t *testing.T) {
	snap := snapshot(t)
	snap.Results = nil
	snap.Leaderboard = nil

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, snap))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestWriteRejectsNilSnapshot(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, FormatYAML, nil))
	assert.Error(t, Write(&buf, Format("csv"), snapshot(t)))
}

func TestCollect(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	snap := snapshot(t)
	ctx := context.Background()

	svc.EXPECT().GetGame(ctx, &game.GetGameInput{GameID: "g1"}).
		Return(&game.GetGameOutput{Game: snap.Game}, nil)
	svc.EXPECT().ListPlayers(ctx, &game.ListPlayersInput{GameID: "g1"}).
		Return(&game.ListPlayersOutput{Players: snap.Players}, nil)
	svc.EXPECT().ListResults(ctx, &game.ListResultsInput{GameID: "g1"}).
		Return(&game.ListResultsOutput{Results: snap.Results}, nil)
	svc.EXPECT().GetLeaderboard(ctx, &game.GetLeaderboardInput{GameID: "g1"}).
		Return(&game.GetLeaderboardOutput{Rows: snap.Leaderboard, Game: snap.Game}, nil)

	got, err := Collect(ctx, svc, "g1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestCollectStopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	svc.EXPECT().GetGame(gomock.Any(), gomock.Any()).Return(nil, game.ErrGameNotFound)

	_, err := Collect(context.Background(), svc, "missing")
	assert.ErrorIs(t, err, game.ErrGameNotFound)
}
