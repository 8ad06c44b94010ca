// Package postgrestest starts a throwaway Postgres for repository tests.
package postgrestest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/KirkDiggler/kartboard/internal/repositories/postgres"
)

const imageName = "postgres:16-alpine"

// NewDSN starts a Postgres container and returns its connection string.
// The test is skipped in -short mode or when no container runtime is
// available.
func NewDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		imageName,
		tcpostgres.WithDatabase("kartboard"),
		tcpostgres.WithUsername("kartboard"),
		tcpostgres.WithPassword("kartboard"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// NewDB starts a container with NewDSN, creates the schema and returns a
// connected bun.DB
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &postgres.Config{DSN: NewDSN(t)})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, postgres.CreateSchema(ctx, db))
	return db
}

// Truncate empties every table
func Truncate(t *testing.T, db *bun.DB) {
	t.Helper()

	_, err := db.NewTruncateTable().
		Model((*postgres.RaceResultRow)(nil)).
		Exec(context.Background())
	require.NoError(t, err)

	_, err = db.NewTruncateTable().
		Model((*postgres.PlayerRow)(nil)).
		Cascade().
		Exec(context.Background())
	require.NoError(t, err)

	// Channel mappings go with their games
	_, err = db.NewTruncateTable().
		Model((*postgres.GameRow)(nil)).
		Cascade().
		Exec(context.Background())
	require.NoError(t, err)
}
