package services

import (
	"context"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
)

// PartySvc exposes the per-party views derived from cash memo entries.
type PartySvc interface {
	ListParties(ctx context.Context, kind domain.PartyKind) ([]domain.PartySummary, error)
	GetPartySummary(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartySummary, error)
	ListPartyTransactions(ctx context.Context, kind domain.PartyKind, partyID string, limit int, nextToken *string) (*domain.PartyTransactionsPage, error)
}
