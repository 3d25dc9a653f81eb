package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName = "cash-memo-ledger"
	pingTimeout     = 5 * time.Second
)

// NewPgxPool opens the ledger's PostgreSQL pool. Every session runs in UTC so
// memo_date values never shift across a day boundary. When enableCheck is set
// the pool must answer a ping before it is returned.
func NewPgxPool(ctx context.Context, databaseURL string, enableCheck bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	params := poolCfg.ConnConfig.RuntimeParams
	params["timezone"] = "UTC"
	if _, set := params["application_name"]; !set {
		params["application_name"] = applicationName
	}
	if poolCfg.MaxConnIdleTime == 0 || poolCfg.MaxConnIdleTime > 5*time.Minute {
		poolCfg.MaxConnIdleTime = 5 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if !enableCheck {
		return pool, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	slog.InfoContext(ctx, "PostgreSQL reachable",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)
	return pool, nil
}

// ClosePgxPool closes pool; a nil pool is ignored.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("PostgreSQL connection pool closed")
}
