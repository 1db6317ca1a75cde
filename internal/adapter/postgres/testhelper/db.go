// Package testhelper provides a migrated PostgreSQL for repository
// integration tests and seed helpers for the rows they depend on.
package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/dualtrack-backend/migrations"
)

const (
	image    = "postgres:17-alpine"
	user     = "dualtrack"
	password = "dualtrack"
	dbName   = "dualtrack_test"
)

var shared struct {
	once sync.Once
	dsn  string
	err  error
}

// SetupTestDB returns a pool on a PostgreSQL container shared by the whole
// test binary. The container is started and migrated on first use; the pool
// is closed via t.Cleanup. Skipped under -short.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("testhelper: postgres container skipped in -short mode")
	}

	shared.once.Do(func() {
		shared.dsn, shared.err = startDatabase()
	})
	if shared.err != nil {
		t.Fatalf("testhelper: setup test database: %v", shared.err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, shared.dsn)
	if err != nil {
		t.Fatalf("testhelper: connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func startDatabase() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbName,
			},
			// The entrypoint restarts the server once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if _, err := migrations.Up(ctx, db); err != nil {
		return "", err
	}
	return dsn, nil
}
