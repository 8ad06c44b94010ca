// Package terminal drives a game from an interactive line-based session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/scoring"
	"github.com/KirkDiggler/kartboard/internal/services/game"
)

// Config holds configuration for the terminal driver
type Config struct {
	GameService game.Service

	In  io.Reader
	Out io.Writer

	Logger *slog.Logger
}

// Terminal walks one game through the session states using prompts
type Terminal struct {
	gameService game.Service
	scanner     *bufio.Scanner
	out         io.Writer
	logger      *slog.Logger
}

// errExit ends the session at the user's request
var errExit = errors.New("exit")

// New creates a new terminal driver
func New(cfg *Config) (*Terminal, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("input and output cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Terminal{
		gameService: cfg.GameService,
		scanner:     bufio.NewScanner(cfg.In),
		out:         cfg.Out,
		logger:      logger,
	}, nil
}

// Run plays until the user exits or the input ends
func (t *Terminal) Run(ctx context.Context) error {
	created, err := t.gameService.CreateGame(ctx, &game.CreateGameInput{})
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	gameID := created.Game.ID

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := t.gameService.GetGame(ctx, &game.GetGameInput{GameID: gameID})
		if err != nil {
			return fmt.Errorf("failed to load game: %w", err)
		}

		switch current.Game.Status {
		case models.GameStatusWelcome:
			err = t.welcome(ctx, gameID)
		case models.GameStatusRegistration:
			err = t.registration(ctx, gameID)
		case models.GameStatusRaceInput:
			err = t.raceInput(ctx, current.Game)
		case models.GameStatusLeaderboard:
			err = t.finalLeaderboard(ctx, gameID)
		default:
			return fmt.Errorf("unexpected game status %q", current.Game.Status)
		}

		if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
			t.println("Thanks for playing!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// prompt prints label and reads one trimmed line
func (t *Terminal) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.scanner.Text()), nil
}

func (t *Terminal) println(a ...interface{}) {
	fmt.Fprintln(t.out, a...)
}

// report prints a recoverable error and reports whether err was one
func (t *Terminal) report(err error) bool {
	if game.Reason(err) == "" {
		return false
	}
	t.println("!", err.Error())
	return true
}

func (t *Terminal) welcome(ctx context.Context, gameID string) error {
	t.println()
	t.println("=== Kartboard ===")
	t.println("Race scores for up to 12 racers, 15 points for a win.")

	answer, err := t.prompt("Press enter to register players, or type 'exit': ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "exit") {
		return errExit
	}

	_, err = t.gameService.StartRegistration(ctx, &game.StartRegistrationInput{GameID: gameID})
	return err
}

// masterCommand draws a game master during registration
const masterCommand = ":master"

func (t *Terminal) registration(ctx context.Context, gameID string) error {
	t.println()
	t.println("--- Registration ---")
	t.println("Enter one name per line. Type '" + masterCommand + "' to draw a game master, blank line when done.")

	for {
		name, err := t.prompt("Player name: ")
		if err != nil {
			return err
		}

		// Names are case-sensitive, so only the exact command is reserved
		switch name {
		case "":
			return t.startRaces(ctx, gameID)
		case masterCommand:
			output, err := t.gameService.ChooseGameMaster(ctx, &game.ChooseGameMasterInput{GameID: gameID})
			if err != nil {
				if t.report(err) {
					continue
				}
				return err
			}
			t.println("Game master:", output.GameMaster)
			continue
		}

		if _, err := t.gameService.RegisterPlayer(ctx, &game.RegisterPlayerInput{GameID: gameID, Name: name}); err != nil {
			if t.report(err) {
				continue
			}
			return err
		}
	}
}

func (t *Terminal) startRaces(ctx context.Context, gameID string) error {
	for {
		answer, err := t.prompt("How many races? (enter for default): ")
		if err != nil {
			return err
		}

		total := 0
		if answer != "" {
			total, err = strconv.Atoi(answer)
			if err != nil {
				t.println("! enter a whole number")
				continue
			}
		}

		_, err = t.gameService.StartRaces(ctx, &game.StartRacesInput{GameID: gameID, TotalRaces: total})
		if err == nil {
			return nil
		}

		if !t.report(err) {
			return err
		}

		// Nobody registered yet, go back to registration
		if errors.Is(err, game.ErrNoPlayers) {
			return nil
		}
	}
}

func (t *Terminal) raceInput(ctx context.Context, g *models.Game) error {
	players, err := t.gameService.ListPlayers(ctx, &game.ListPlayersInput{GameID: g.ID})
	if err != nil {
		return err
	}

	t.println()
	t.println(fmt.Sprintf("--- Race %d of %d ---", g.CurrentRace, g.TotalRaces))

	positions := make(map[string]int, len(players.Players))
	for _, p := range players.Players {
		position, ok, err := t.promptPosition(p.Name)
		if err != nil {
			return err
		}
		if ok {
			positions[p.Name] = position
		}
	}

	output, err := t.gameService.SubmitRace(ctx, &game.SubmitRaceInput{GameID: g.ID, Positions: positions})
	if err != nil {
		if t.report(err) {
			t.println("! race not recorded, enter it again")
			return nil
		}
		return err
	}

	t.println()
	t.println(fmt.Sprintf("Standings after race %d:", output.RaceNumber))
	return t.render(output.Leaderboard)
}

// promptPosition reads a position for name; a blank line skips the player
func (t *Terminal) promptPosition(name string) (int, bool, error) {
	for {
		answer, err := t.prompt(fmt.Sprintf("  %s position (%d-%d, blank to skip): ", name, scoring.MinPosition, scoring.MaxPosition))
		if err != nil {
			return 0, false, err
		}
		if answer == "" {
			return 0, false, nil
		}

		position, err := strconv.Atoi(answer)
		if err != nil || !scoring.ValidPosition(position) {
			t.println("!", scoring.ErrInvalidPosition.Error())
			continue
		}
		return position, true, nil
	}
}

func (t *Terminal) finalLeaderboard(ctx context.Context, gameID string) error {
	output, err := t.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{GameID: gameID})
	if err != nil {
		return err
	}

	t.println()
	t.println("=== Final Leaderboard ===")
	if err := t.render(output.Rows); err != nil {
		return err
	}

	for {
		answer, err := t.prompt("[r]eset with new players, [q]uit to menu, e[x]it: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "r", "reset":
			_, err = t.gameService.ResetGame(ctx, &game.ResetGameInput{GameID: gameID})
			return err
		case "q", "quit":
			_, err = t.gameService.QuitGame(ctx, &game.QuitGameInput{GameID: gameID})
			return err
		case "x", "exit":
			return errExit
		}
	}
}

func (t *Terminal) render(rows []*models.LeaderboardRow) error {
	if len(rows) == 0 {
		t.println("No results yet.")
		return nil
	}

	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tPOINTS\tRACES")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", row.Rank, row.PlayerName, row.TotalPoints, row.RacesScored)
	}
	return w.Flush()
}
