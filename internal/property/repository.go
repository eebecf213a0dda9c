package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Property) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.properties").
		Columns("title", "price_per_night").
		Values(p.Title, p.PricePerNight).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("create property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "title", "price_per_night", "created_at").
		From("public.properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get property query failed: %w", err)
	}

	var p Property
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Title, &p.PricePerNight, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property failed: %w", err)
	}
	return &p, nil
}
