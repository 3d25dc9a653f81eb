package services

import (
	"context"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
)

// ReportingService defines the cross-day views over cash memos.
// Reports always read the store and never the cache.
type ReportingService interface {
	// EntriesReport flattens, filters and totals entries across a date range.
	EntriesReport(ctx context.Context, filter domain.EntriesFilter) (*domain.EntriesReport, error)

	// ListMemoSummaries returns one summary per memo in [start, end], ascending.
	ListMemoSummaries(ctx context.Context, start, end time.Time) ([]domain.MemoSummary, error)
}
