package database

import (
	"database/sql"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SscSPs/cash_memo_ledger/migrations"
)

// MigratePostgres applies every pending "up" migration to the database at databaseURL.
// It uses its own short-lived connection, closed before returning.
// The boolean result reports whether anything was applied.
func MigratePostgres(databaseURL string) (bool, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return false, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return false, fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		_ = db.Close()
		return false, fmt.Errorf("could not open embedded postgres migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return false, fmt.Errorf("could not create migrate instance: %w", err)
	}

	applied, upErr := up(m)

	// Closing the instance also closes db.
	sourceErr, dbErr := m.Close()
	if upErr != nil {
		return false, upErr
	}
	if sourceErr != nil {
		return false, fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("migration database error: %w", dbErr)
	}
	return applied, nil
}

// MigrateSQLite applies every pending "up" migration to db.
// The migrate instance is not closed since that would close db, which stays in use.
func MigrateSQLite(db *sql.DB) (bool, error) {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return false, fmt.Errorf("could not create sqlite driver instance for migrations: %w", err)
	}

	source, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return false, fmt.Errorf("could not open embedded sqlite migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return false, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return up(m)
}

func up(m *migrate.Migrate) (bool, error) {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return true, nil
}
