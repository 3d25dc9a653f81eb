package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	memoReader portsrepo.CashMemoReader
}

// NewReportingService creates a new reporting service. It never consults the cache.
func NewReportingService(memoReader portsrepo.CashMemoReader) portssvc.ReportingService {
	return &reportingService{BaseService: BaseService{component: "reporting"}, memoReader: memoReader}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// EntriesReport validates the filter before touching the store.
func (s *reportingService) EntriesReport(ctx context.Context, filter domain.EntriesFilter) (*domain.EntriesReport, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	memos, err := s.memoReader.ListMemosInRange(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to load cash memos for entries report",
			slog.String("start_date", domain.FormatDate(filter.StartDate)),
			slog.String("end_date", domain.FormatDate(filter.EndDate)))
		return nil, err
	}

	report, err := accounting.BuildEntriesReport(memos, filter)
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Entries report built",
		slog.Int("memos", len(memos)),
		slog.Int("entries", report.Summary.Count))
	return report, nil
}

func (s *reportingService) ListMemoSummaries(ctx context.Context, start, end time.Time) ([]domain.MemoSummary, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", apperrors.ErrValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate %s is after endDate %s", apperrors.ErrValidation, domain.FormatDate(start), domain.FormatDate(end))
	}

	memos, err := s.memoReader.ListMemosInRange(ctx, domain.NormalizeDate(start), domain.NormalizeDate(end))
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash memos",
			slog.String("start_date", domain.FormatDate(start)),
			slog.String("end_date", domain.FormatDate(end)))
		return nil, err
	}

	summaries := make([]domain.MemoSummary, 0, len(memos))
	for _, m := range memos {
		summaries = append(summaries, accounting.SummarizeMemo(m))
	}
	return summaries, nil
}
