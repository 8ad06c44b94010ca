package race_result

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/KirkDiggler/kartboard/internal/models"
	"github.com/KirkDiggler/kartboard/internal/repositories/postgres"
)

// PostgresConfig holds configuration for the Postgres result repository
type PostgresConfig struct {
	// DB is an open bun connection with the schema in place
	DB *bun.DB
}

// postgresRepository implements the Repository interface on the race_results table
type postgresRepository struct {
	db *bun.DB
}

// NewPostgres creates a new Postgres-backed result repository
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

// AddResults inserts the batch in a single transaction. The table's unique key
// rejects repeated (race, player) pairs and the foreign key rejects names that
// are not on the roster.
func (r *postgresRepository) AddResults(ctx context.Context, input *AddResultsInput) error {
	if _, err := validateBatch(input); err != nil {
		return err
	}
	if len(input.Results) == 0 {
		return nil
	}

	rows := make([]*postgres.RaceResultRow, 0, len(input.Results))
	for _, result := range input.Results {
		rows = append(rows, &postgres.RaceResultRow{
			GameID:     result.GameID,
			RaceNumber: result.RaceNumber,
			PlayerName: result.PlayerName,
			Position:   result.Position,
			Points:     result.Points,
			RecordedAt: result.RecordedAt,
		})
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	switch {
	case err == nil:
		return nil
	case postgres.IsUniqueViolation(err):
		return ErrDuplicateEntry
	case postgres.IsForeignKeyViolation(err):
		return ErrUnknownPlayer
	default:
		return fmt.Errorf("failed to insert results: %w", err)
	}
}

// ListResults retrieves the log ordered by insertion
func (r *postgresRepository) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errNoGameID
	}

	var rows []postgres.RaceResultRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("game_id = ?", input.GameID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*models.RaceResult, 0, len(rows))
	for i := range rows {
		results = append(results, toModel(&rows[i]))
	}

	return &ListResultsOutput{
		Results: results,
	}, nil
}

// ClearResults deletes the game's log
func (r *postgresRepository) ClearResults(ctx context.Context, input *ClearResultsInput) error {
	if input == nil || input.GameID == "" {
		return errNoGameID
	}

	_, err := r.db.NewDelete().
		Model((*postgres.RaceResultRow)(nil)).
		Where("game_id = ?", input.GameID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}

	return nil
}

func toModel(row *postgres.RaceResultRow) *models.RaceResult {
	return &models.RaceResult{
		GameID:     row.GameID,
		RaceNumber: row.RaceNumber,
		PlayerName: row.PlayerName,
		Position:   row.Position,
		Points:     row.Points,
		RecordedAt: row.RecordedAt,
	}
}
