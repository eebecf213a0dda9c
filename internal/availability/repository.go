package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nekogravitycat/stay-booking-backend/internal/db"
)

type pgxStore struct {
	q db.Querier
}

// NewPgxStore returns a Store over q, which may be a pool or a transaction.
func NewPgxStore(q db.Querier) Store {
	return &pgxStore{q: q}
}

func (s *pgxStore) AddWindow(ctx context.Context, w *Window) error {
	// Insert only when no window of the property intersects [start, end).
	// The exclusion constraint covers writers racing past this check.
	const query = `
		INSERT INTO public.availability_windows (property_id, start_date, end_date)
		SELECT $1::uuid, $2::date, $3::date
		WHERE NOT EXISTS (
			SELECT 1 FROM public.availability_windows
			WHERE property_id = $1::uuid AND start_date < $3::date AND end_date > $2::date
		)
		RETURNING id, created_at
	`
	err := s.q.QueryRow(ctx, query, w.PropertyID, w.StartDate, w.EndDate).Scan(&w.ID, &w.CreatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrWindowOverlap
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation:
			return ErrWindowOverlap
		case pgerrcode.ForeignKeyViolation:
			return ErrPropertyNotFound
		}
	}
	return fmt.Errorf("add window failed: %w", err)
}

func (s *pgxStore) RemoveWindow(ctx context.Context, propertyID, windowID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.availability_windows").
		Where(squirrel.Eq{"id": windowID, "property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove window query failed: %w", err)
	}

	ct, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove window failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgxStore) Contains(ctx context.Context, propertyID string, start, end time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.availability_windows").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.LtOrEq{"start_date": start}).
		Where(squirrel.GtOrEq{"end_date": end}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build contains query failed: %w", err)
	}

	var covered bool
	if err := s.q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&covered); err != nil {
		return false, fmt.Errorf("check coverage failed: %w", err)
	}
	return covered, nil
}

func (s *pgxStore) ListWindows(ctx context.Context, propertyID string) ([]*Window, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "property_id", "start_date", "end_date", "created_at").
		From("public.availability_windows").
		Where(squirrel.Eq{"property_id": propertyID}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list windows query failed: %w", err)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list windows failed: %w", err)
	}
	defer rows.Close()

	windows := []*Window{}
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.ID, &w.PropertyID, &w.StartDate, &w.EndDate, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan window failed: %w", err)
		}
		windows = append(windows, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list windows failed: %w", err)
	}
	return windows, nil
}
