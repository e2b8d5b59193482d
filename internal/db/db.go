package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"habitfree/internal/config"
)

// Connect initializes a sql.DB for the configured driver: pgx for
// PostgreSQL, modernc sqlite for local and test deployments.
func Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite", cfg.SQLitePath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
		if err != nil {
			return nil, err
		}
		// sqlite has a single writer; one connection serializes transactions.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Rebind rewrites "?" placeholders into the driver's bind syntax.
func Rebind(driver, query string) string {
	if driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
