package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/campsite-booking-backend/internal/db"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

type Repository interface {
	site.OccupancyReader

	// WithSiteLock runs fn while holding the exclusive admission token of siteID.
	// Everything fn does through the context it receives commits or fails as a unit.
	// Waiting longer than the configured lock timeout yields ErrLockTimeout.
	WithSiteLock(ctx context.Context, siteID string, fn func(ctx context.Context) error) error

	// HasOverlap reports whether a CONFIRMED booking on siteID shares a day with [start, end].
	HasOverlap(ctx context.Context, siteID string, start, end time.Time) (bool, error)

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateStatus stores b.Status and refreshes b.UpdatedAt.
	UpdateStatus(ctx context.Context, b *Booking) error
}

var selectColumns = []string{
	"r.id", "r.site_id", "s.code", "r.customer_name", "r.phone_number",
	"r.start_date", "r.end_date", "r.status", "r.confirmation_code",
	"r.created_at", "r.updated_at",
}

type pgxRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewPgxRepository(pool *pgxpool.Pool, lockTimeout time.Duration) Repository {
	return &pgxRepository{pool: pool, lockTimeout: lockTimeout}
}

// lockTimeoutMillis rounds d up to whole milliseconds, never below 1.
// A value of 0 would disable the Postgres lock timeout.
func lockTimeoutMillis(d time.Duration) int64 {
	ms := int64((d + time.Millisecond - 1) / time.Millisecond)
	return max(ms, 1)
}

func (r *pgxRepository) WithSiteLock(ctx context.Context, siteID string, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.pool)

		// SET does not accept bind parameters.
		if _, err := conn.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMillis(r.lockTimeout))); err != nil {
			return fmt.Errorf("set lock timeout failed: %w", err)
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Select("id").
			From("public.sites").
			Where(squirrel.Eq{"id": siteID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build lock site query failed: %w", err)
		}

		var lockedID string
		if err := conn.QueryRow(ctx, query, args...).Scan(&lockedID); err != nil {
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				return ErrSiteNotFound
			case db.IsLockNotAvailable(err):
				return ErrLockTimeout
			default:
				return fmt.Errorf("lock site failed: %w", err)
			}
		}

		return fn(ctx)
	})
}

func (r *pgxRepository) HasOverlap(ctx context.Context, siteID string, start, end time.Time) (bool, error) {
	// Inclusive ranges overlap when start1 <= end2 AND end1 >= start2.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"site_id": siteID}).
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) OccupiedSiteIDs(ctx context.Context, start, end time.Time) (map[string]struct{}, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("DISTINCT site_id").
		From("public.reservations").
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build occupied sites query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list occupied sites failed: %w", err)
	}
	defer rows.Close()

	occupied := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan occupied site failed: %w", err)
		}
		occupied[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list occupied sites failed: %w", err)
	}
	return occupied, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("site_id", "customer_name", "phone_number", "start_date", "end_date", "status", "confirmation_code").
		Values(b.SiteID, b.CustomerName, b.PhoneNumber, b.StartDate, b.EndDate, b.Status, b.ConfirmationCode).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if db.IsExclusionViolation(err) {
			return fmt.Errorf("%w: %w", ErrOverlapConstraint, err)
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(selectColumns...).
		From("public.reservations r").
		Join("public.sites s ON r.site_id = s.id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(selectColumns, "count(*) OVER() AS total_count")...).
		From("public.reservations r").
		Join("public.sites s ON r.site_id = s.id")

	if filter.CustomerName != "" {
		query = query.Where(squirrel.Eq{"r.customer_name": filter.CustomerName})
	}
	if filter.PhoneNumber != "" {
		query = query.Where(squirrel.Eq{"r.phone_number": filter.PhoneNumber})
	}
	if filter.SiteID != "" {
		query = query.Where(squirrel.Eq{"r.site_id": filter.SiteID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"r.end_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"r.start_date": *filter.To})
	}

	page := filter.pagination()
	query = query.OrderBy("r.start_date ASC", "r.created_at ASC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset()))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.SiteID, &b.SiteCode, &b.CustomerName, &b.PhoneNumber,
			&b.StartDate, &b.EndDate, &b.Status, &b.ConfirmationCode,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if db.IsExclusionViolation(err) {
			return fmt.Errorf("%w: %w", ErrOverlapConstraint, err)
		}
		return fmt.Errorf("update reservation failed: %w", err)
	}
	return nil
}

func scanBooking(row pgx.Row, b *Booking) error {
	return row.Scan(
		&b.ID, &b.SiteID, &b.SiteCode, &b.CustomerName, &b.PhoneNumber,
		&b.StartDate, &b.EndDate, &b.Status, &b.ConfirmationCode,
		&b.CreatedAt, &b.UpdatedAt,
	)
}
