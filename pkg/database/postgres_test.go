package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.Password = "secret"

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=velora_hotel sslmode=disable",
		cfg.DSN(),
	)
}

func TestNewPostgres_InvalidDSN(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.Port = -1
	cfg.SSLMode = "not-a-mode"

	_, err := NewPostgres(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewPostgres_Unreachable(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MaxRetries = 1
	cfg.RetryInterval = 10 * time.Millisecond
	cfg.ConnectTimeout = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewPostgres(ctx, cfg)
	assert.Error(t, err)
}

func TestPostgresDB_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := DefaultPostgresConfig()
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	cfg.Password = os.Getenv("TEST_DB_PASSWORD")

	ctx := context.Background()
	db, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck(ctx))
	require.NoError(t, db.Migrate(ctx,
		`CREATE TEMP TABLE IF NOT EXISTS migrate_check (id INT)`,
		`INSERT INTO migrate_check VALUES (1)`,
	))
}
