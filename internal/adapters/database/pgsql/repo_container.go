package pgsql

import (
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto dbPool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CashMemoRepo: newPgxCashMemoRepository(dbPool),
		Health:       dbPool,
	}
}
