// Package store is the relational persistence layer. It follows a
// queries-object pattern: narrow methods with params structs over a DBTX so
// callers can pass either the pooled handle or a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is the subset of database/sql used by queries.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrNotFound reports that the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Queries bundles all database operations.
type Queries struct {
	db DBTX
}

// New creates a Queries over the given handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
