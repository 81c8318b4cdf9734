//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/leadpipe/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	database, dsn := setupTestDBWithDSN(t)
	ctx := context.Background()

	applied, err := db.Migrate(ctx, dsn)
	require.NoError(t, err)
	assert.Empty(t, applied, "повторный запуск ничего не применяет")

	var version int
	var dirty bool
	require.NoError(t, database.QueryRowContext(ctx,
		"SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty))
	assert.Equal(t, 1, version)
	assert.False(t, dirty)

	// общий пул остается рабочим после закрытия соединения миграций
	require.NoError(t, database.PingContext(ctx))
}
