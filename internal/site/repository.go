package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/campsite-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, s *Site) error
	GetByID(ctx context.Context, id string) (*Site, error)
	GetByCode(ctx context.Context, code string) (*Site, error)
	List(ctx context.Context, filter Filter) ([]*Site, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *Site) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.sites").
		Columns("code", "capacity", "description").
		Values(s.Code, s.Capacity, s.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create site query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("create site failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Site, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByCode(ctx context.Context, code string) (*Site, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code})
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Eq) (*Site, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "code", "capacity", "description", "created_at").
		From("public.sites").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get site query failed: %w", err)
	}

	var s Site
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.Code, &s.Capacity, &s.Description, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get site failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Site, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "code", "capacity", "description", "created_at").
		From("public.sites")

	if filter.CodePrefix != "" {
		query = query.Where(squirrel.Like{"code": filter.CodePrefix + "%"})
	}

	sql, args, err := query.OrderBy("code ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sites query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list sites failed: %w", err)
	}
	defer rows.Close()

	var sites []*Site
	for rows.Next() {
		var s Site
		if err := rows.Scan(&s.ID, &s.Code, &s.Capacity, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan site failed: %w", err)
		}
		sites = append(sites, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites failed: %w", err)
	}

	return sites, nil
}
