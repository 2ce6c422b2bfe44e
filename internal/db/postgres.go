package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// New opens a database/sql handle (lib/pq) for the audit repository.
func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

// NewPool creates a pgx connection pool for the listing repository.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, url)
}
