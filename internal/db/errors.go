package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// HasCode reports whether err is a Postgres error with the given SQLSTATE.
func HasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsUniqueViolation reports a duplicate key error.
func IsUniqueViolation(err error) bool {
	return HasCode(err, pgerrcode.UniqueViolation)
}

// IsLockNotAvailable reports that lock_timeout expired while waiting for a row lock.
func IsLockNotAvailable(err error) bool {
	return HasCode(err, pgerrcode.LockNotAvailable)
}

// IsExclusionViolation reports that an EXCLUDE constraint rejected the row.
func IsExclusionViolation(err error) bool {
	return HasCode(err, pgerrcode.ExclusionViolation)
}
