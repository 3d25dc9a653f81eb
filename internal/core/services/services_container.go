package services

import (
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// store and publisher are built by the caller so tests and main can pick their adapters.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, store cache.Store, publisher events.Publisher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		CashMemo: NewCashMemoService(
			repos.CashMemoRepo,
			WithCache(store, cfg.CacheTTL),
			WithPublisher(publisher),
		),
		Reporting: NewReportingService(repos.CashMemoRepo),
		Party:     NewPartyService(repos.CashMemoRepo, store, cfg.CacheTTL),
	}
}
