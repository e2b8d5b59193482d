// Package sqlstore implements the repositories on database/sql for both
// PostgreSQL (pgx) and SQLite (modernc).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"habitfree/internal/db"
	"habitfree/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store provides database backed user, habit and message operations.
type Store struct {
	db     *sql.DB
	driver string
}

// New creates a new store instance for the given driver name.
func New(database *sql.DB, driver string) *Store {
	return &Store{db: database, driver: driver}
}

func (s *Store) q(query string) string {
	return db.Rebind(s.driver, query)
}

// withTx runs fn in a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
