// Package app wires configuration into a ready game service and the
// infrastructure behind it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/kartboard/internal/common/clock"
	"github.com/KirkDiggler/kartboard/internal/common/uuid"
	"github.com/KirkDiggler/kartboard/internal/config"
	"github.com/KirkDiggler/kartboard/internal/dice"
	"github.com/KirkDiggler/kartboard/internal/metrics"
	gameRepo "github.com/KirkDiggler/kartboard/internal/repositories/game"
	playerRepo "github.com/KirkDiggler/kartboard/internal/repositories/player"
	"github.com/KirkDiggler/kartboard/internal/repositories/postgres"
	resultRepo "github.com/KirkDiggler/kartboard/internal/repositories/race_result"
	"github.com/KirkDiggler/kartboard/internal/services/game"
)

const connectTimeout = 5 * time.Second

// App holds the wired service and everything that must be closed with it
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Registry    *prometheus.Registry
	GameService game.Service

	closers []func() error
}

// repositories is one storage backend's set of stores
type repositories struct {
	games   gameRepo.Repository
	players playerRepo.Repository
	results resultRepo.Repository
}

// New connects the configured storage backend and builds the game service.
// Logs go to logOut.
func New(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	logger := cfg.Log.NewLogger(logOut)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recorder, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
	}

	repos, err := a.connect(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	svc, err := game.New(&game.Config{
		MaxRaces:             cfg.Game.MaxRaces,
		DefaultRaces:         cfg.Game.DefaultRaces,
		RequireCompleteRaces: cfg.Game.RequireCompleteRaces,
		GameRepo:             repos.games,
		PlayerRepo:           repos.players,
		ResultRepo:           repos.results,
		DiceRoller:           dice.New(&dice.Config{}),
		Clock:                clock.New(),
		UUIDGenerator:        uuid.New(),
		Logger:               logger,
		Metrics:              recorder,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}
	a.GameService = svc

	logger.Info("game service ready", "storage", cfg.Storage.Backend)
	return a, nil
}

// connect opens the configured backend
func (a *App) connect(ctx context.Context) (*repositories, error) {
	switch a.Config.Storage.Backend {
	case config.BackendMemory:
		return &repositories{
			games:   gameRepo.NewMemory(),
			players: playerRepo.NewMemory(),
			results: resultRepo.NewMemory(),
		}, nil
	case config.BackendRedis:
		return a.connectRedis(ctx)
	case config.BackendPostgres:
		return a.connectPostgres(ctx)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.Config.Storage.Backend)
	}
}

func (a *App) connectRedis(ctx context.Context) (*repositories, error) {
	cfg := a.Config.Storage.Redis
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	games, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create game repository: %w", err)
	}

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create player repository: %w", err)
	}

	results, err := resultRepo.NewRedis(&resultRepo.Config{RedisClient: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create race result repository: %w", err)
	}

	a.Logger.Info("connected to redis", "addr", cfg.Addr, "db", cfg.DB)
	return &repositories{games: games, players: players, results: results}, nil
}

func (a *App) connectPostgres(ctx context.Context) (*repositories, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := postgres.Connect(connectCtx, &postgres.Config{DSN: a.Config.Storage.Postgres.DSN})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if err := postgres.CreateSchema(ctx, db); err != nil {
		return nil, err
	}

	players, err := playerRepo.NewPostgres(&playerRepo.PostgresConfig{DB: db})
	if err != nil {
		return nil, fmt.Errorf("failed to create player repository: %w", err)
	}

	results, err := resultRepo.NewPostgres(&resultRepo.PostgresConfig{DB: db})
	if err != nil {
		return nil, fmt.Errorf("failed to create race result repository: %w", err)
	}

	games, err := gameRepo.NewPostgres(&gameRepo.PostgresConfig{DB: db})
	if err != nil {
		return nil, fmt.Errorf("failed to create game repository: %w", err)
	}

	a.Logger.Info("connected to postgres")
	return &repositories{games: games, players: players, results: results}, nil
}

// Close releases storage connections in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
