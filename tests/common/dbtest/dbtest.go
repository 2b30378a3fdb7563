//go:build integration

// Package dbtest wires repository suites to a disposable Postgres database.
// Point TEST_DATABASE_URL at an empty database; the schema is applied on first
// use and Reset truncates everything between tests.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var (
	setupOnce sync.Once
	pool      *pgxpool.Pool
	setupErr  error
)

// Setup returns a pool against the test database, applying
// migrations/schema.sql the first time it runs. Tests are skipped when
// TEST_DATABASE_URL is not set.
func Setup(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	setupOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, setupErr = pgxpool.New(ctx, dsn)
		if setupErr != nil {
			return
		}

		var applied bool
		if setupErr = pool.QueryRow(ctx,
			"SELECT to_regclass('public.reservations') IS NOT NULL").Scan(&applied); setupErr != nil {
			return
		}
		if applied {
			return
		}

		schema, err := os.ReadFile(schemaPath())
		if err != nil {
			setupErr = err
			return
		}
		_, setupErr = pool.Exec(ctx, string(schema))
	})
	require.NoError(t, setupErr)
	return pool
}

func schemaPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", "schema.sql")
}

// Reset truncates every table so each test starts from an empty database.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE notification_jobs, ratings, reservations,
		         accommodation_universities, accommodations, members, universities
		CASCADE`)
	require.NoError(t, err)
}

// ---- seeding helpers ----

func CreateUniversity(t *testing.T, pool *pgxpool.Pool, code string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO universities (code, name) VALUES ($1, $1) ON CONFLICT (code) DO NOTHING", code)
	require.NoError(t, err)
}

func CreateMember(t *testing.T, pool *pgxpool.Pool, uid, name, university string) {
	t.Helper()

	CreateUniversity(t, pool, university)
	_, err := pool.Exec(context.Background(),
		"INSERT INTO members (uid, name, university_code) VALUES ($1, $2, $3)", uid, name, university)
	require.NoError(t, err)
}

func CreateAccommodation(t *testing.T, pool *pgxpool.Pool, from, until time.Time, universities ...string) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO accommodations (id, address, available_from, available_until, daily_price, beds, bedrooms)
		VALUES ($1, '12 Oil Street, North Point', $2, $3, 480, 2, 1)`, id, from, until)
	require.NoError(t, err)

	for _, code := range universities {
		CreateUniversity(t, pool, code)
		_, err := pool.Exec(ctx,
			"INSERT INTO accommodation_universities (accommodation_id, university_code) VALUES ($1, $2)", id, code)
		require.NoError(t, err)
	}
	return id
}
