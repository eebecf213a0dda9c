// Package dbtest opens the integration test database.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/stay-booking-backend/internal/db"
	"github.com/stretchr/testify/require"
)

// Open connects to TEST_DB_DSN, applies migrations and empties every table.
// The test is skipped when TEST_DB_DSN is unset.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE public.bookings, public.availability_windows, public.properties CASCADE`)
	require.NoError(t, err)

	return pool
}

// CreateProperty inserts a property and returns its id.
func CreateProperty(t *testing.T, pool *pgxpool.Pool, title string, pricePerNight int64) string {
	t.Helper()

	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO public.properties (title, price_per_night) VALUES ($1, $2) RETURNING id`,
		title, pricePerNight,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
