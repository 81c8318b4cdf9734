//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bagdasarian/leadpipe/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	database, _ := setupTestDBWithDSN(t)
	return database
}

// setupTestDBWithDSN дополнительно возвращает строку подключения к контейнеру
func setupTestDBWithDSN(t *testing.T) (*sql.DB, string) {
	ctx := context.Background()

	// Поднимаем Postgres через testcontainers
	postgresContainer, err := postgres.Run(ctx, "postgres:17.7",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, database.Ping())

	// Накатываем встроенные миграции тем же кодом, что и команда migrate
	applied, err := db.Migrate(ctx, connStr)
	require.NoError(t, err, "не удалось применить миграции")
	require.NotEmpty(t, applied)

	t.Cleanup(func() {
		database.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return database, connStr
}
