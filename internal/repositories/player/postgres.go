package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/repositories/postgres"
)

// PostgresConfig holds configuration for the Postgres player repository
type PostgresConfig struct {
	// DB is an open bun connection with the schema in place
	DB *bun.DB
}

// postgresRepository implements the Repository interface on the players table
type postgresRepository struct {
	db *bun.DB
}

// NewPostgres creates a new Postgres-backed player repository
func NewPostgres(cfg *PostgresConfig) (*postgresRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("database cannot be nil")
	}

	return &postgresRepository{
		db: cfg.DB,
	}, nil
}

// AddPlayer inserts a player; the unique (game_id, name) key rejects duplicates
func (r *postgresRepository) AddPlayer(ctx context.Context, input *AddPlayerInput) error {
	if err := validatePlayer(input); err != nil {
		return err
	}

	row := &postgres.PlayerRow{
		GameID:       input.Player.GameID,
		Name:         input.Player.Name,
		RegisteredAt: input.Player.RegisteredAt,
	}

	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrPlayerExists
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}

	return nil
}

// GetPlayer retrieves a player by name
func (r *postgresRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if err := validateGetInput(input); err != nil {
		return nil, err
	}

	row := new(postgres.PlayerRow)
	err := r.db.NewSelect().
		Model(row).
		Where("game_id = ?", input.GameID).
		Where("name = ?", input.Name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return toModel(row), nil
}

// ListPlayers retrieves the roster ordered by insertion
func (r *postgresRepository) ListPlayers(ctx context.Context, input *ListPlayersInput) (*ListPlayersOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	var rows []postgres.PlayerRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("game_id = ?", input.GameID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	players := make([]*models.Player, 0, len(rows))
	for i := range rows {
		players = append(players, toModel(&rows[i]))
	}

	return &ListPlayersOutput{
		Players: players,
	}, nil
}

// ClearPlayers deletes the game's roster; results cascade with it
func (r *postgresRepository) ClearPlayers(ctx context.Context, input *ClearPlayersInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	_, err := r.db.NewDelete().
		Model((*postgres.PlayerRow)(nil)).
		Where("game_id = ?", input.GameID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	return nil
}

func toModel(row *postgres.PlayerRow) *models.Player {
	return &models.Player{
		GameID:       row.GameID,
		Name:         row.Name,
		RegisteredAt: row.RegisteredAt,
	}
}
