// Package export writes a game's standings and result log as YAML, an Excel
// workbook or a PNG chart of cumulative points.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/services/game"
)

// Format names an export encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
	FormatPNG  Format = "png"
)

// Snapshot is everything an export needs from one game
type Snapshot struct {
	Game        *models.Game
	Players     []*models.Player
	Results     []*models.RaceResult
	Leaderboard []*models.LeaderboardRow
}

// ParseFormat accepts a format name in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatXLSX, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Write encodes snap in the given format
func Write(w io.Writer, format Format, snap *Snapshot) error {
	if snap == nil || snap.Game == nil {
		return fmt.Errorf("snapshot and game cannot be nil")
	}

	switch format {
	case FormatYAML:
		return WriteYAML(w, snap)
	case FormatXLSX:
		return WriteXLSX(w, snap)
	case FormatPNG:
		return WritePNG(w, snap)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Collect reads everything an export needs from the game service
func Collect(ctx context.Context, svc game.Service, gameID string) (*Snapshot, error) {
	g, err := svc.GetGame(ctx, &game.GetGameInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	players, err := svc.ListPlayers(ctx, &game.ListPlayersInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	results, err := svc.ListResults(ctx, &game.ListResultsInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	board, err := svc.GetLeaderboard(ctx, &game.GetLeaderboardInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Game:        g.Game,
		Players:     players.Players,
		Results:     results.Results,
		Leaderboard: board.Rows,
	}, nil
}
