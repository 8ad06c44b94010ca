package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/repositories/postgres"
)

// PostgresConfig holds configuration for the Postgres game repository
type PostgresConfig struct {
	// DB is an open bun connection with the schema in place
	DB *bun.DB
}

// postgresRepository implements the Repository interface on the games and
// game_channels tables
type postgresRepository struct {
	db *bun.DB
}

// NewPostgres creates a new Postgres-backed game repository
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

// SaveGame upserts the game and points its channel at it
func (r *postgresRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	if input.Game.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	row := toRow(input.Game)
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(row).
			On("CONFLICT (id) DO UPDATE").
			Set("channel_id = EXCLUDED.channel_id").
			Set("status = EXCLUDED.status").
			Set("total_races = EXCLUDED.total_races").
			Set("current_race = EXCLUDED.current_race").
			Set("game_master = EXCLUDED.game_master").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}

		if row.ChannelID == "" {
			return nil
		}

		_, err = tx.NewInsert().
			Model(&postgres.GameChannelRow{ChannelID: row.ChannelID, GameID: row.ID}).
			On("CONFLICT (channel_id) DO UPDATE").
			Set("game_id = EXCLUDED.game_id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to map channel: %w", err)
		}
		return nil
	})
}

// GetGame retrieves a game by ID
func (r *postgresRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	row := new(postgres.GameRow)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", input.GameID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return toGame(row), nil
}

// GetGameByChannel retrieves the game the channel was last mapped to
func (r *postgresRepository) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	row := new(postgres.GameRow)
	err := r.db.NewSelect().
		Model(row).
		Join("JOIN game_channels AS gc ON gc.game_id = g.id").
		Where("gc.channel_id = ?", input.ChannelID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by channel: %w", err)
	}

	return toGame(row), nil
}

// DeleteGame removes the game; its channel mapping cascades with it
func (r *postgresRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	res, err := r.db.NewDelete().
		Model((*postgres.GameRow)(nil)).
		Where("id = ?", input.GameID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if affected == 0 {
		return ErrGameNotFound
	}

	return nil
}

// GetActiveGames lists registering and racing games, oldest first
func (r *postgresRepository) GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error) {
	var rows []postgres.GameRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("status IN (?)", bun.In([]string{
			string(models.GameStatusRegistration),
			string(models.GameStatusRaceInput),
		})).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games: %w", err)
	}

	games := make([]*models.Game, 0, len(rows))
	for i := range rows {
		games = append(games, toGame(&rows[i]))
	}

	return &GetActiveGamesOutput{
		Games: games,
	}, nil
}

func toRow(game *models.Game) *postgres.GameRow {
	return &postgres.GameRow{
		ID:          game.ID,
		ChannelID:   game.ChannelID,
		Status:      string(game.Status),
		TotalRaces:  game.TotalRaces,
		CurrentRace: game.CurrentRace,
		GameMaster:  game.GameMaster,
		CreatedAt:   game.CreatedAt,
		UpdatedAt:   game.UpdatedAt,
	}
}

func toGame(row *postgres.GameRow) *models.Game {
	return &models.Game{
		ID:          row.ID,
		ChannelID:   row.ChannelID,
		Status:      models.GameStatus(row.Status),
		TotalRaces:  row.TotalRaces,
		CurrentRace: row.CurrentRace,
		GameMaster:  row.GameMaster,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
