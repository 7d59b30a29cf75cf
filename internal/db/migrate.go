package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables the application needs if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// No arguments, so pgx sends it over the simple protocol and multiple statements are allowed.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}
	return nil
}
