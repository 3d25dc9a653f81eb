package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FlattenMemo turns a memo's entries into report rows: credits first, then debits,
// each side in insertion order.
func FlattenMemo(memo *domain.CashMemo) []domain.ReportEntry {
	rows := make([]domain.ReportEntry, 0, memo.EntryCount())
	for _, side := range [][]domain.Entry{memo.CreditEntries, memo.DebitEntries} {
		for _, e := range side {
			rows = append(rows, toReportEntry(memo, e))
		}
	}
	return rows
}

func toReportEntry(memo *domain.CashMemo, e domain.Entry) domain.ReportEntry {
	row := domain.ReportEntry{
		MemoID:        memo.MemoID,
		Date:          memo.MemoDate,
		Kind:          e.Kind,
		EntryID:       e.EntryID,
		Category:      e.Category(),
		Name:          e.Name,
		Description:   e.Description,
		PaymentMethod: e.PaymentMethod,
		Amount:        e.Amount,
		CreatedAt:     e.CreatedAt,
	}
	if p := e.RelatedParty(); p != nil {
		row.RelatedParty = p.Name
		row.RelatedPartyID = p.ID
	}
	return row
}

// MatchesFilter applies the optional filters of f to a single entry.
// The date range is not checked here.
func MatchesFilter(e domain.Entry, f domain.EntriesFilter) bool {
	if f.Category != nil && e.Category() != *f.Category {
		return false
	}
	if f.RelatedPartyID != nil && *f.RelatedPartyID != "" {
		found := false
		for _, p := range e.Parties() {
			if p.ID == *f.RelatedPartyID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DescriptionContains != nil && *f.DescriptionContains != "" {
		needle := strings.ToLower(*f.DescriptionContains)
		if !strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	return true
}

func inRange(d time.Time, f domain.EntriesFilter) bool {
	d = domain.NormalizeDate(d)
	return !d.Before(domain.NormalizeDate(f.StartDate)) && !d.After(domain.NormalizeDate(f.EndDate))
}

// BuildEntriesReport flattens and filters the entries of memos and totals the result.
// Rows are ordered by date ascending; within a day credits precede debits and each
// side keeps insertion order.
func BuildEntriesReport(memos []*domain.CashMemo, f domain.EntriesFilter) (*domain.EntriesReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	days := make([]*domain.CashMemo, 0, len(memos))
	for _, m := range memos {
		if m != nil && inRange(m.MemoDate, f) {
			days = append(days, m)
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].MemoDate.Before(days[j].MemoDate)
	})

	report := &domain.EntriesReport{Entries: []domain.ReportEntry{}}
	totalCredit, totalDebit := decimal.Zero, decimal.Zero
	for _, memo := range days {
		for _, side := range [][]domain.Entry{memo.CreditEntries, memo.DebitEntries} {
			for _, e := range side {
				if !MatchesFilter(e, f) {
					continue
				}
				report.Entries = append(report.Entries, toReportEntry(memo, e))
				if e.Kind == domain.CreditEntry {
					totalCredit = totalCredit.Add(e.Amount)
				} else {
					totalDebit = totalDebit.Add(e.Amount)
				}
			}
		}
	}

	report.Summary = domain.ReportSummary{
		TotalCredit:    totalCredit.Round(2),
		TotalDebit:     totalDebit.Round(2),
		ClosingBalance: totalCredit.Sub(totalDebit).Round(2),
		Count:          len(report.Entries),
	}
	return report, nil
}
