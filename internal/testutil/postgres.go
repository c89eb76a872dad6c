// Package testutil starts disposable Postgres instances for repository
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"dreamvisualizer/internal/infra"
)

const (
	pgUser     = "dream"
	pgPassword = "dream"
	pgDatabase = "dreamvisualizer_test"
)

// TestDB is a migrated database running in a throwaway container.
type TestDB struct {
	URL    string
	Pool   *pgxpool.Pool
	Runner *infra.SQLRunner
}

// SetupTestDB starts postgres:16, applies the embedded migrations and
// registers cleanup on t. The test is skipped under -short or when Docker
// cannot be reached.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)

	m, err := infra.NewMigrator(url)
	if err != nil {
		t.Fatalf("init migrator: %v", err)
	}
	if err := m.Up(); err != nil {
		_ = m.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	_ = m.Close()

	pool, err := infra.NewDBPool(ctx, &infra.Config{DatabaseURL: url})
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{URL: url, Pool: pool, Runner: infra.NewSQLRunner(pool, zerolog.Nop())}
}
