package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository owns the pool shared by the PostgreSQL repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// WithTx runs fn in a read-committed transaction and commits when fn succeeds.
// Rollback after a successful commit is a no-op, so the deferred call is
// always safe.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.Upstream("begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
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
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, message)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, message, pgErr.ConstraintName)
	}
	return apperrors.Upstream(message, err)
}
