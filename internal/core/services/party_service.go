package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/pagination"
)

const (
	defaultTransactionsLimit = 50
	maxTransactionsLimit     = 200
)

// partyService derives per-party views from cash memo entries and caches them.
type partyService struct {
	BaseService
	partyReader portsrepo.PartyEntryReader
}

// NewPartyService creates a party service. A nil store disables caching.
func NewPartyService(partyReader portsrepo.PartyEntryReader, store cache.Store, ttl time.Duration) portssvc.PartySvc {
	return &partyService{
		BaseService: BaseService{Cache: store, CacheTTL: ttl, component: "party"},
		partyReader: partyReader,
	}
}

var _ portssvc.PartySvc = (*partyService)(nil)

func validPartyKind(kind domain.PartyKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, kind)
	}
	return nil
}

func (s *partyService) ListParties(ctx context.Context, kind domain.PartyKind) ([]domain.PartySummary, error) {
	if err := validPartyKind(kind); err != nil {
		return nil, err
	}
	key := partyListKey(kind)
	var cached []domain.PartySummary
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	memos, err := s.partyReader.ListMemosByPartyKind(ctx, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash memos by party kind", slog.String("party_kind", string(kind)))
		return nil, err
	}
	parties := accounting.SummarizeParties(memos, kind)
	s.cachePut(ctx, key, parties)
	return parties, nil
}

func (s *partyService) GetPartySummary(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartySummary, error) {
	if err := validPartyKind(kind); err != nil {
		return nil, err
	}
	key := partyDetailKey(kind, partyID)
	var cached domain.PartySummary
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	memos, err := s.partyReader.ListMemosByParty(ctx, kind, partyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash memos by party",
			slog.String("party_kind", string(kind)),
			slog.String("party_id", partyID))
		return nil, err
	}
	summary, ok := accounting.SummarizeParty(memos, kind, partyID)
	if !ok {
		return nil, fmt.Errorf("%w: no entries reference %s %s", apperrors.ErrNotFound, kind, partyID)
	}
	s.cachePut(ctx, key, summary)
	return &summary, nil
}

func (s *partyService) ListPartyTransactions(ctx context.Context, kind domain.PartyKind, partyID string, limit int, nextToken *string) (*domain.PartyTransactionsPage, error) {
	if err := validPartyKind(kind); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTransactionsLimit
	}
	if limit > maxTransactionsLimit {
		limit = maxTransactionsLimit
	}

	key := partyTransactionsKey(kind, partyID, limit, nextToken)
	var cached domain.PartyTransactionsPage
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	memos, err := s.partyReader.ListMemosByParty(ctx, kind, partyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash memos by party",
			slog.String("party_kind", string(kind)),
			slog.String("party_id", partyID))
		return nil, err
	}

	rows := accounting.PartyTransactions(memos, kind, partyID)
	page, next, err := pagination.Page(rows, limit, nextToken, func(r domain.ReportEntry) pagination.Cursor {
		return pagination.Cursor{Date: r.Date, EntryID: r.EntryID}
	})
	if err != nil {
		return nil, err
	}
	result := &domain.PartyTransactionsPage{Transactions: page, NextToken: next}
	if result.Transactions == nil {
		result.Transactions = []domain.ReportEntry{}
	}
	s.cachePut(ctx, key, result)
	return result, nil
}
