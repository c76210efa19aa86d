package gormdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/lauzhack/pictorial/internal/repository/gormdb"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm/logger"
)

// TestRepositories_Postgres runs the repository suites against a real
// PostgreSQL container. Skipped with -short or when Docker is unavailable.
func TestRepositories_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_pictorial"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gormdb.NewConnection(dsn, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	t.Run("users", func(t *testing.T) {
		runUserRepositoryTests(t, db)
	})
	t.Run("generations", func(t *testing.T) {
		runGenerationRepositoryTests(t, db)
	})
}
