package availability

import (
	"context"
	"testing"

	"github.com/nekogravitycat/stay-booking-backend/internal/db/dbtest"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgxStore(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	pid := dbtest.CreateProperty(t, pool, "Cabin", 100)
	s := NewPgxStore(pool)

	jan := window(pid, "2025-01-01", "2025-01-31")
	require.NoError(t, s.AddWindow(ctx, jan))
	assert.NotEmpty(t, jan.ID)

	assert.ErrorIs(t, s.AddWindow(ctx, window(pid, "2025-01-20", "2025-02-05")), ErrWindowOverlap)
	require.NoError(t, s.AddWindow(ctx, window(pid, "2025-01-31", "2025-02-05")))

	ok, err := s.Contains(ctx, pid, date.MustParse("2025-01-10"), date.MustParse("2025-01-12"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Contains(ctx, pid, date.MustParse("2024-12-30"), date.MustParse("2025-01-02"))
	require.NoError(t, err)
	assert.False(t, ok)

	windows, err := s.ListWindows(ctx, pid)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, jan.ID, windows[0].ID)
	assert.True(t, windows[0].StartDate.Equal(date.MustParse("2025-01-01")))

	other := dbtest.CreateProperty(t, pool, "Loft", 100)
	assert.ErrorIs(t, s.RemoveWindow(ctx, other, jan.ID), ErrNotFound)
	require.NoError(t, s.RemoveWindow(ctx, pid, jan.ID))
	assert.ErrorIs(t, s.RemoveWindow(ctx, pid, jan.ID), ErrNotFound)
}
