package accounting

import (
	"sort"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type partyKey struct {
	id   string
	kind domain.PartyKind
}

// SummarizeParties groups the entries of memos by every party of the given kind
// they reference. Summaries are ordered by party name, then ID.
func SummarizeParties(memos []*domain.CashMemo, kind domain.PartyKind) []domain.PartySummary {
	byParty := make(map[partyKey]*domain.PartySummary)
	for _, memo := range memos {
		for _, side := range [][]domain.Entry{memo.CreditEntries, memo.DebitEntries} {
			for _, e := range side {
				for _, p := range e.Parties() {
					if p.Kind != kind {
						continue
					}
					k := partyKey{id: p.ID, kind: p.Kind}
					s, ok := byParty[k]
					if !ok {
						s = &domain.PartySummary{Party: p, TotalCredit: decimal.Zero, TotalDebit: decimal.Zero}
						byParty[k] = s
					}
					addToSummary(s, memo, e, p)
				}
			}
		}
	}

	out := make([]domain.PartySummary, 0, len(byParty))
	for _, s := range byParty {
		s.Net = s.TotalCredit.Sub(s.TotalDebit)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Party.Name != out[j].Party.Name {
			return out[i].Party.Name < out[j].Party.Name
		}
		return out[i].Party.ID < out[j].Party.ID
	})
	return out
}

func addToSummary(s *domain.PartySummary, memo *domain.CashMemo, e domain.Entry, p domain.PartyRef) {
	if e.Kind == domain.CreditEntry {
		s.TotalCredit = s.TotalCredit.Add(e.Amount)
	} else {
		s.TotalDebit = s.TotalDebit.Add(e.Amount)
	}
	s.EntryCount++
	if s.LastActivity == nil || memo.MemoDate.After(*s.LastActivity) {
		d := memo.MemoDate
		s.LastActivity = &d
	}
	// the most recent label wins
	if p.Name != "" && memo.MemoDate.Equal(*s.LastActivity) {
		s.Party.Name = p.Name
	}
}

// SummarizeParty returns the summary of one party, or ok=false when no entry references it.
func SummarizeParty(memos []*domain.CashMemo, kind domain.PartyKind, partyID string) (domain.PartySummary, bool) {
	for _, s := range SummarizeParties(memos, kind) {
		if s.Party.ID == partyID {
			return s, true
		}
	}
	return domain.PartySummary{}, false
}

// PartyTransactions lists, oldest first, every entry that references the party.
func PartyTransactions(memos []*domain.CashMemo, kind domain.PartyKind, partyID string) []domain.ReportEntry {
	sorted := make([]*domain.CashMemo, len(memos))
	copy(sorted, memos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MemoDate.Before(sorted[j].MemoDate)
	})

	rows := []domain.ReportEntry{}
	for _, memo := range sorted {
		for _, side := range [][]domain.Entry{memo.CreditEntries, memo.DebitEntries} {
			for _, e := range side {
				if referencesParty(e, kind, partyID) {
					rows = append(rows, toReportEntry(memo, e))
				}
			}
		}
	}
	return rows
}

func referencesParty(e domain.Entry, kind domain.PartyKind, partyID string) bool {
	for _, p := range e.Parties() {
		if p.Kind == kind && p.ID == partyID {
			return true
		}
	}
	return false
}
