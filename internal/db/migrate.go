package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations
var migrationFS embed.FS

// Migrations returns the embedded migration files for a driver.
func Migrations(driver string) (fs.FS, error) {
	return fs.Sub(migrationFS, path.Join("migrations", driver))
}

// RunMigrations executes SQL files from the provided filesystem sequentially.
func RunMigrations(ctx context.Context, database *sql.DB, driver string, migrations fs.FS) error {
	if err := ensureMigrationTable(ctx, database); err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		version, err := parseVersion(entry.Name())
		if err != nil {
			return fmt.Errorf("parse migration version: %w", err)
		}

		applied, err := isApplied(ctx, database, driver, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrations, entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if err := applyMigration(ctx, database, driver, version, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Migrate applies the embedded migrations for driver.
func Migrate(ctx context.Context, database *sql.DB, driver string) error {
	migrations, err := Migrations(driver)
	if err != nil {
		return err
	}
	return RunMigrations(ctx, database, driver, migrations)
}

// AppliedVersions lists applied migration versions in ascending order.
func AppliedVersions(ctx context.Context, database *sql.DB) ([]int, error) {
	rows, err := database.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func ensureMigrationTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            version BIGINT PRIMARY KEY,
            applied_at TIMESTAMP NOT NULL
        )`)
	return err
}

func parseVersion(name string) (int, error) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid migration name: %s", name)
	}
	return strconv.Atoi(parts[0])
}

func isApplied(ctx context.Context, db *sql.DB, driver string, version int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, Rebind(driver, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?"), version).Scan(&count)
	return count > 0, err
}

func applyMigration(ctx context.Context, db *sql.DB, driver string, version int, sqlStmt string) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, sqlStmt); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, Rebind(driver, "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)"), version, time.Now().UTC()); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
