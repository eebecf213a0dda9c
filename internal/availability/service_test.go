package availability

import (
	"context"
	"testing"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/date"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, string) {
	t.Helper()
	props := property.NewService(property.NewMemoryRepository())
	p, err := props.Create(context.Background(), property.CreateRequest{Title: "Cabin", PricePerNight: 100})
	require.NoError(t, err)
	return NewService(NewMemoryStore(), props, logger.Discard()), p.ID
}

func TestServiceAddWindow(t *testing.T) {
	ctx := context.Background()
	svc, pid := newTestService(t)

	_, err := svc.AddWindow(ctx, pid, date.MustParse("2025-01-31"), date.MustParse("2025-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.AddWindow(ctx, pid, date.MustParse("2025-01-01"), date.MustParse("2025-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.AddWindow(ctx, "missing", date.MustParse("2025-01-01"), date.MustParse("2025-01-31"))
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	w, err := svc.AddWindow(ctx, pid, date.MustParse("2025-01-01"), date.MustParse("2025-01-31"))
	require.NoError(t, err)
	assert.Equal(t, pid, w.PropertyID)

	_, err = svc.AddWindow(ctx, pid, date.MustParse("2025-01-20"), date.MustParse("2025-02-05"))
	assert.ErrorIs(t, err, ErrWindowOverlap)
}

func TestServiceListWindows(t *testing.T) {
	ctx := context.Background()
	svc, pid := newTestService(t)

	_, err := svc.ListWindows(ctx, "missing")
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	windows, err := svc.ListWindows(ctx, pid)
	require.NoError(t, err)
	assert.Empty(t, windows)
}
