package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/KirkDiggler/kartboard/internal/app"
	"github.com/KirkDiggler/kartboard/internal/config"
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/export"
	"github.com/KirkDiggler/kartboard/internal/handlers/api"
	"github.com/KirkDiggler/kartboard/internal/handlers/discord"
	"github.com/KirkDiggler/kartboard/internal/handlers/terminal"
	"github.com/KirkDiggler/kartboard/internal/services/messaging"
)

const (
	configFlag = "config"
	gameFlag   = "game"
	formatFlag = "format"
	outputFlag = "output"

	stdoutName = "-"

	shutdownTimeout = 10 * time.Second
)

var version = "v0.1.0-dev"

func main() {
	cliApp := &cli.App{
		Name:    "kartboard",
		Usage:   "Scorekeeping for kart race nights",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
				EnvVars: []string{"KARTBOARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "Run a game in this terminal",
				Action: play,
			},
			{
				Name:   "serve",
				Usage:  "Serve the JSON API and metrics",
				Action: serve,
			},
			{
				Name:   "bot",
				Usage:  "Run the Discord bot",
				Action: bot,
			},
			{
				Name:  "export",
				Usage: "Write a game's standings and results to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     gameFlag,
						Aliases:  []string{"g"},
						Usage:    "ID of the game to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    formatFlag,
						Aliases: []string{"f"},
						Usage:   "yaml, xlsx or png",
						Value:   string(export.FormatYAML),
					},
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "File to write, or \"-\" for stdout",
						Value:   stdoutName,
					},
				},
				Action: exportGame,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "kartboard:", err)
		os.Exit(1)
	}
}

// start loads configuration and wires the game service
func start(cCtx *cli.Context) (*app.App, error) {
	cfg, err := config.Load(cCtx.String(configFlag))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return app.New(cCtx.Context, cfg, os.Stderr)
}

func play(cCtx *cli.Context) error {
	a, err := start(cCtx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term, err := terminal.New(&terminal.Config{
		GameService: a.GameService,
		In:          os.Stdin,
		Out:         os.Stdout,
		Logger:      a.Logger,
	})
	if err != nil {
		return err
	}

	return term.Run(ctx)
}

func serve(cCtx *cli.Context) error {
	a, err := start(cCtx)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := api.New(&api.Config{
		GameService: a.GameService,
		Metrics:     promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		MetricsPath: a.Config.HTTP.MetricsPath,
		Logger:      a.Logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func bot(cCtx *cli.Context) error {
	a, err := start(cCtx)
	if err != nil {
		return err
	}
	defer a.Close()

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{
		DiceRoller: dice.New(&dice.Config{}),
	})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	b, err := discord.New(&discord.Config{
		Token:            a.Config.Discord.Token,
		ApplicationID:    a.Config.Discord.ApplicationID,
		GuildID:          a.Config.Discord.GuildID,
		GameService:      a.GameService,
		MessagingService: messagingSvc,
		Logger:           a.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create Discord bot: %w", err)
	}

	if err := b.Start(); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := b.Stop(); err != nil {
		a.Logger.Error("error stopping bot", "error", err)
	}

	a.Logger.Info("bot has been shut down")
	return nil
}

func exportGame(cCtx *cli.Context) error {
	format, err := export.ParseFormat(cCtx.String(formatFlag))
	if err != nil {
		return err
	}

	a, err := start(cCtx)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := export.Collect(cCtx.Context, a.GameService, cCtx.String(gameFlag))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := cCtx.String(outputFlag); path != stdoutName {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return export.Write(out, format, snap)
}
