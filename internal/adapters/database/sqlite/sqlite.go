// Package sqlite is the embedded single-file store, used when no PostgreSQL
// server is available. All writes go through one connection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cash_memo_ledger/pkg/database"
	"github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the database at path and applies pending migrations.
// Use ":memory:" for a throwaway database.
func Open(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// One connection serialises writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database %s: %w", path, err)
	}

	applied, err := database.MigrateSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if applied {
		slog.Info("SQLite migrations applied", slog.String("path", path))
	}
	return db, nil
}

// NewRepositoryProvider wires every repository onto db.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CashMemoRepo: NewCashMemoRepository(db),
		Health:       healthChecker{db: db},
	}
}

type healthChecker struct {
	db *sql.DB
}

func (h healthChecker) Ping(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		return apperrors.Upstream("sqlite ping failed", err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Upstream("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Upstream("failed to commit transaction", err)
	}
	return nil
}

// mapError turns driver failures into application errors. Errors that already
// carry an application sentinel are returned unchanged.
func mapError(message string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{apperrors.ErrNotFound, apperrors.ErrConflict, apperrors.ErrDuplicate, apperrors.ErrUpstream} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, message)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, message)
	}
	return apperrors.Upstream(message, err)
}
