package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nekogravitycat/stay-booking-backend/internal/db"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var bookingColumns = []string{
	"id", "property_id", "guest_id", "start_date", "end_date",
	"nightly_rate", "total_price", "status",
	"guest_name", "guest_email", "guest_phone",
	"created_at", "updated_at",
}

// likeEscaper makes a search term match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type pgxLedger struct {
	q db.Querier
}

// NewPgxLedger returns a Ledger over q, which may be a pool or a transaction.
func NewPgxLedger(q db.Querier) Ledger {
	return &pgxLedger{q: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*Booking, error) {
	var (
		b                  Booking
		name, email, phone *string
	)
	if err := row.Scan(
		&b.ID, &b.PropertyID, &b.GuestID, &b.StartDate, &b.EndDate,
		&b.NightlyRate, &b.TotalPrice, &b.Status,
		&name, &email, &phone,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if name != nil || email != nil || phone != nil {
		b.Contact = &GuestContact{Name: deref(name), Email: deref(email), Phone: deref(phone)}
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *pgxLedger) ActiveOverlap(ctx context.Context, propertyID string, start, end time.Time) (bool, error) {
	// Half-open intersection: existing.start < end AND existing.end > start
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.Eq{"status": []Status{StatusPending, StatusConfirmed}}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxLedger) Insert(ctx context.Context, b *Booking) error {
	var name, email, phone *string
	if b.Contact != nil {
		name, email, phone = nullable(b.Contact.Name), nullable(b.Contact.Email), nullable(b.Contact.Phone)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"property_id", "guest_id", "start_date", "end_date",
			"nightly_rate", "total_price", "status",
			"guest_name", "guest_email", "guest_phone",
		).
		Values(
			b.PropertyID, b.GuestID, b.StartDate, b.EndDate,
			b.NightlyRate, b.TotalPrice, StatusPending,
			name, email, phone,
		).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				return apperror.Wrap(err, ErrOverlap)
			case pgerrcode.ForeignKeyViolation:
				return ErrPropertyNotFound
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxLedger) UpdateStatus(ctx context.Context, id string, expected, next Status) (*Booking, bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": expected}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err == nil {
		return b, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("update booking status failed: %w", err)
	}

	// Either the booking does not exist or it already left expected.
	b, err = r.Find(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, false, nil
}

func (r *pgxLedger) Find(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxLedger) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	filter.normalize()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	where := squirrel.And{}
	if filter.PropertyID != "" {
		where = append(where, squirrel.Eq{"property_id": filter.PropertyID})
	}
	if filter.GuestID != "" {
		where = append(where, squirrel.Eq{"guest_id": filter.GuestID})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"guest_email": pattern},
			squirrel.Expr("property_id IN (SELECT id FROM public.properties WHERE title ILIKE ?)", pattern),
		})
	}

	countSQL, countArgs, err := psql.Select("count(*)").From("public.bookings").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bookings query failed: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings failed: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}
