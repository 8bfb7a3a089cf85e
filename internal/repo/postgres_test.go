package repo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestPool использует TEST_DATABASE_URL, если она задана,
// иначе поднимает PostgreSQL в testcontainers. Без Docker тест пропускается.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		_, filename, _, _ := runtime.Caller(0)
		projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
		migration := filepath.Join(projectRoot, "migrations", "001_create_kv_store.up.sql")

		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			postgres.WithInitScripts(migration),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			t.Skipf("postgres container not available: %v", err)
		}
		t.Cleanup(func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Errorf("Failed to terminate container: %v", err)
			}
		})

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	return pool
}

func TestPostgresKV(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	kv := NewPostgresKV(pool)
	require.NoError(t, kv.EnsureSchema(ctx))
	_, err := pool.Exec(ctx, "TRUNCATE kv_store")
	require.NoError(t, err)

	testKVContract(t, kv)
}
