package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/kartboard/internal/export"
	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/services/game"
	"github.com/KirkDiggler/kartboard/internal/services/messaging"
)

// Subcommand names
const (
	subNew         = "new"
	subRegister    = "register"
	subMaster      = "master"
	subRaces       = "races"
	subResult      = "result"
	subLeaderboard = "leaderboard"
	subChart       = "chart"
	subReset       = "reset"
	subQuit        = "quit"
	subEnd         = "end"
)

// KartCommand handles the /kart command; each channel hosts one game
type KartCommand struct {
	BaseCommand
	gameService      game.Service
	messagingService messaging.Service
	logger           *slog.Logger
}

// request is a parsed /kart invocation
type request struct {
	channelID  string
	caller     string
	subcommand string

	name      string
	races     int
	positions string
}

// NewKartCommand creates a new kart command handler
func NewKartCommand(gameService game.Service, messagingService messaging.Service, logger *slog.Logger) *KartCommand {
	if logger == nil {
		logger = slog.Default()
	}

	return &KartCommand{
		BaseCommand: BaseCommand{
			Name:        "kart",
			Description: "Kart race scorekeeping",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subNew,
					Description: "Open registration for a new game in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subRegister,
					Description: "Register a racer",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Racer name (defaults to you)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subMaster,
					Description: "Draw a random game master",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subRaces,
					Description: "Close registration and start the races",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "count",
							Description: "Number of races",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subResult,
					Description: "Record the current race, e.g. Mario=1, Luigi=2",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "positions",
							Description: "Finishing positions as name=position pairs",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subLeaderboard,
					Description: "Show the standings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subChart,
					Description: "Chart cumulative points per race",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subReset,
					Description: "Clear racers and results and reopen registration",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subQuit,
					Description: "Leave the final leaderboard, keeping the racers",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subEnd,
					Description: "Delete this channel's game with its racers and results",
				},
			},
		},
		gameService:      gameService,
		messagingService: messagingService,
		logger:           logger,
	}
}

// Handle processes a Discord interaction for the kart command
func (c *KartCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	req, err := requestFrom(i)
	if err != nil {
		return respond(s, i, errorReply(err.Error()))
	}

	return respond(s, i, c.run(context.Background(), req))
}

// requestFrom reads the subcommand and its options from an interaction
func requestFrom(i *discordgo.InteractionCreate) (*request, error) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return nil, errors.New("missing subcommand")
	}

	req := &request{
		channelID:  i.ChannelID,
		subcommand: data.Options[0].Name,
	}

	switch {
	case i.Member != nil && i.Member.Nick != "":
		req.caller = i.Member.Nick
	case i.Member != nil && i.Member.User != nil:
		req.caller = i.Member.User.Username
	case i.User != nil:
		req.caller = i.User.Username
	}

	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "name":
			req.name = opt.StringValue()
		case "count":
			req.races = int(opt.IntValue())
		case "positions":
			req.positions = opt.StringValue()
		}
	}

	return req, nil
}

// run executes a request and renders the reply
func (c *KartCommand) run(ctx context.Context, req *request) *reply {
	var (
		r   *reply
		err error
	)

	switch req.subcommand {
	case subNew:
		r, err = c.handleNew(ctx, req)
	case subRegister:
		r, err = c.handleRegister(ctx, req)
	case subMaster:
		r, err = c.handleMaster(ctx, req)
	case subRaces:
		r, err = c.handleRaces(ctx, req)
	case subResult:
		r, err = c.handleResult(ctx, req)
	case subLeaderboard:
		r, err = c.handleLeaderboard(ctx, req)
	case subChart:
		r, err = c.handleChart(ctx, req)
	case subReset:
		r, err = c.handleReset(ctx, req)
	case subQuit:
		r, err = c.handleQuit(ctx, req)
	case subEnd:
		r, err = c.handleEnd(ctx, req)
	default:
		return errorReply(fmt.Sprintf("Unknown subcommand: %s", req.subcommand))
	}

	if err == nil {
		return r
	}

	reason := game.Reason(err)
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		r = errorReply("No game in this channel. Use `/kart new` to start one.")
	case errors.Is(err, game.ErrInvalidGameState):
		r = errorReply(fmt.Sprintf("`/kart %s` is not available right now.", req.subcommand))
	case reason != "":
		r = errorReply(err.Error())
	default:
		c.logger.ErrorContext(ctx, "kart command failed", "subcommand", req.subcommand, "channel_id", req.channelID, "error", err)
		r = errorReply("Something went wrong, try again.")
	}

	if title, err := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{Reason: reason}); err == nil {
		r.title = title.Title
	}
	return r
}

// commentary runs a messaging call and returns its text, or "" if it failed
func (c *KartCommand) commentary(ctx context.Context, get func() (string, error)) string {
	message, err := get()
	if err != nil {
		c.logger.WarnContext(ctx, "failed to get commentary", "error", err)
		return ""
	}
	return message
}

// channelGame returns the game hosted in the request's channel
func (c *KartCommand) channelGame(ctx context.Context, req *request) (*models.Game, error) {
	output, err := c.gameService.GetGameByChannel(ctx, &game.GetGameByChannelInput{
		ChannelID: req.channelID,
	})
	if err != nil {
		return nil, err
	}
	return output.Game, nil
}

func (c *KartCommand) handleNew(ctx context.Context, req *request) (*reply, error) {
	existing, err := c.channelGame(ctx, req)
	if err != nil && !errors.Is(err, game.ErrGameNotFound) {
		return nil, err
	}

	var gameID string
	switch {
	case existing != nil && existing.Status.IsActive():
		return errorReply("There's already a game running in this channel. Finish it or use `/kart reset`."), nil
	case existing != nil && existing.Status.IsWelcome():
		// Reuse the game so racers kept by a quit stay registered
		gameID = existing.ID
	default:
		created, err := c.gameService.CreateGame(ctx, &game.CreateGameInput{ChannelID: req.channelID})
		if err != nil {
			return nil, err
		}
		gameID = created.Game.ID
	}

	if _, err := c.gameService.StartRegistration(ctx, &game.StartRegistrationInput{GameID: gameID}); err != nil {
		return nil, err
	}

	players, err := c.gameService.ListPlayers(ctx, &game.ListPlayersInput{GameID: gameID})
	if err != nil {
		return nil, err
	}

	r := &reply{
		title:       "🏁 Registration open",
		description: "Use `/kart register` to join, then `/kart races` to start.",
	}
	if len(players.Players) > 0 {
		r.fields = []*discordgo.MessageEmbedField{rosterField(players.Players)}
	}
	return r, nil
}

func (c *KartCommand) handleRegister(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	name := req.name
	if strings.TrimSpace(name) == "" {
		name = req.caller
	}

	output, err := c.gameService.RegisterPlayer(ctx, &game.RegisterPlayerInput{
		GameID: g.ID,
		Name:   name,
	})
	if err != nil {
		return nil, err
	}

	players, err := c.gameService.ListPlayers(ctx, &game.ListPlayersInput{GameID: g.ID})
	if err != nil {
		return nil, err
	}

	return &reply{
		title:  fmt.Sprintf("%s joined the race", output.Player.Name),
		fields: []*discordgo.MessageEmbedField{rosterField(players.Players)},
		footer: c.commentary(ctx, func() (string, error) {
			msg, err := c.messagingService.GetJoinMessage(ctx, &messaging.GetJoinMessageInput{
				PlayerName: output.Player.Name,
				RacerCount: len(players.Players),
			})
			if err != nil {
				return "", err
			}
			return msg.Message, nil
		}),
	}, nil
}

func (c *KartCommand) handleMaster(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	output, err := c.gameService.ChooseGameMaster(ctx, &game.ChooseGameMasterInput{GameID: g.ID})
	if err != nil {
		return nil, err
	}

	return &reply{
		title:       "🎲 Game master",
		description: fmt.Sprintf("**%s** picks the cups and reports the results.", output.GameMaster),
	}, nil
}

func (c *KartCommand) handleRaces(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	output, err := c.gameService.StartRaces(ctx, &game.StartRacesInput{
		GameID:     g.ID,
		TotalRaces: req.races,
	})
	if err != nil {
		return nil, err
	}

	return &reply{
		title:       fmt.Sprintf("🏎️ %d races, start your engines", output.Game.TotalRaces),
		description: "Report each race with `/kart result positions:Mario=1, Luigi=2`.",
	}, nil
}

func (c *KartCommand) handleResult(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	positions, err := ParsePositions(req.positions)
	if err != nil {
		return nil, err
	}

	output, err := c.gameService.SubmitRace(ctx, &game.SubmitRaceInput{
		GameID:    g.ID,
		Positions: positions,
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Race %d of %d", output.RaceNumber, output.Game.TotalRaces)
	if output.Finished {
		title = "🏆 Final leaderboard"
	}

	return &reply{
		title:       title,
		description: renderStandings(output.Leaderboard),
		fields:      []*discordgo.MessageEmbedField{raceField(output.Results)},
		footer: c.commentary(ctx, func() (string, error) {
			msg, err := c.messagingService.GetRaceResultMessage(ctx, &messaging.GetRaceResultMessageInput{
				Results:     output.Results,
				Leaderboard: output.Leaderboard,
				Finished:    output.Finished,
			})
			if err != nil {
				return "", err
			}
			return msg.Message, nil
		}),
	}, nil
}

func (c *KartCommand) handleLeaderboard(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	output, err := c.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{GameID: g.ID})
	if err != nil {
		return nil, err
	}

	title := "Leaderboard"
	switch {
	case output.Game.Status.IsLeaderboard():
		title = "🏆 Final leaderboard"
	case output.Game.Status.IsRaceInput():
		title = fmt.Sprintf("Leaderboard after %d of %d races", output.Game.CurrentRace-1, output.Game.TotalRaces)
	}

	return &reply{
		title:       title,
		description: renderStandings(output.Rows),
		footer: c.commentary(ctx, func() (string, error) {
			msg, err := c.messagingService.GetLeaderboardMessage(ctx, &messaging.GetLeaderboardMessageInput{
				Rows:  output.Rows,
				Final: output.Game.Status.IsLeaderboard(),
			})
			if err != nil {
				return "", err
			}
			return msg.Message, nil
		}),
	}, nil
}

func (c *KartCommand) handleChart(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	snap, err := export.Collect(ctx, c.gameService, g.ID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatPNG, snap); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return &reply{
		title:       "📈 Points per race",
		description: renderStandings(snap.Leaderboard),
		files: []*discordgo.File{
			{
				Name:        "kartboard.png",
				ContentType: export.FormatPNG.ContentType(),
				Reader:      &buf,
			},
		},
	}, nil
}

func (c *KartCommand) handleReset(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := c.gameService.ResetGame(ctx, &game.ResetGameInput{GameID: g.ID}); err != nil {
		return nil, err
	}

	return &reply{
		title:       "Game reset",
		description: "Racers and results are cleared. Registration is open again.",
	}, nil
}

func (c *KartCommand) handleQuit(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := c.gameService.QuitGame(ctx, &game.QuitGameInput{GameID: g.ID}); err != nil {
		return nil, err
	}

	return &reply{
		title:       "Thanks for racing!",
		description: "Use `/kart new` to race again with the same racers.",
	}, nil
}

func (c *KartCommand) handleEnd(ctx context.Context, req *request) (*reply, error) {
	g, err := c.channelGame(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := c.gameService.DeleteGame(ctx, &game.DeleteGameInput{GameID: g.ID}); err != nil {
		return nil, err
	}

	return &reply{
		title:       "Game over",
		description: "The game, its racers and its results are gone. Use `/kart new` to start fresh.",
	}, nil
}

var rankEmojis = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// renderStandings formats leaderboard rows one per line
func renderStandings(rows []*models.LeaderboardRow) string {
	if len(rows) == 0 {
		return "No results yet."
	}

	var b strings.Builder
	for _, row := range rows {
		rank, ok := rankEmojis[row.Rank]
		if !ok {
			rank = fmt.Sprintf("#%d", row.Rank)
		}
		fmt.Fprintf(&b, "%s **%s**: %d pts (%d races)\n", rank, row.PlayerName, row.TotalPoints, row.RacesScored)
	}
	return b.String()
}

func rosterField(players []*models.Player) *discordgo.MessageEmbedField {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("Racers (%d)", len(players)),
		Value: strings.Join(names, ", "),
	}
}

func raceField(results []*models.RaceResult) *discordgo.MessageEmbedField {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("P%d %s +%d", r.Position, r.PlayerName, r.Points))
	}
	return &discordgo.MessageEmbedField{
		Name:  "This race",
		Value: strings.Join(lines, "\n"),
	}
}
