package accounting

import (
	"fmt"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals are the derived figures of a single cash memo.
type Totals struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// SumEntries adds up the amounts of entries.
func SumEntries(entries []domain.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// TotalCredit is the opening balance plus every credit amount.
func TotalCredit(opening decimal.Decimal, credits []domain.Entry) decimal.Decimal {
	return opening.Add(SumEntries(credits)).Round(2)
}

// TotalDebit is the sum of every debit amount.
func TotalDebit(debits []domain.Entry) decimal.Decimal {
	return SumEntries(debits).Round(2)
}

// ClosingBalance is TotalCredit minus TotalDebit.
func ClosingBalance(opening decimal.Decimal, credits, debits []domain.Entry) decimal.Decimal {
	return TotalCredit(opening, credits).Sub(TotalDebit(debits))
}

// CashMemoTotals derives the totals of memo. A nil memo counts as a day with no
// entries whose opening balance is fallbackOpening.
func CashMemoTotals(memo *domain.CashMemo, fallbackOpening decimal.Decimal) Totals {
	if memo == nil {
		opening := fallbackOpening.Round(2)
		return Totals{
			OpeningBalance: opening,
			TotalCredit:    opening,
			TotalDebit:     decimal.Zero,
			ClosingBalance: opening,
		}
	}
	credit := TotalCredit(memo.OpeningBalance, memo.CreditEntries)
	debit := TotalDebit(memo.DebitEntries)
	return Totals{
		OpeningBalance: memo.OpeningBalance.Round(2),
		TotalCredit:    credit,
		TotalDebit:     debit,
		ClosingBalance: credit.Sub(debit),
	}
}

// MemoClosingBalance is a shorthand for the closing balance of an existing memo.
func MemoClosingBalance(memo *domain.CashMemo) decimal.Decimal {
	return CashMemoTotals(memo, decimal.Zero).ClosingBalance
}

// SummarizeMemo builds the list view of a memo.
func SummarizeMemo(memo *domain.CashMemo) domain.MemoSummary {
	t := CashMemoTotals(memo, decimal.Zero)
	return domain.MemoSummary{
		MemoID:         memo.MemoID,
		Date:           memo.MemoDate,
		Status:         memo.Status,
		OpeningBalance: t.OpeningBalance,
		TotalCredit:    t.TotalCredit,
		TotalDebit:     t.TotalDebit,
		ClosingBalance: t.ClosingBalance,
		EntryCount:     memo.EntryCount(),
		Version:        memo.Version,
	}
}

// ValidateChain checks that memos are strictly ascending by date. Callers that walk
// a balance chain rely on this ordering.
func ValidateChain(memos []*domain.CashMemo) error {
	for i := 1; i < len(memos); i++ {
		if !memos[i].MemoDate.After(memos[i-1].MemoDate) {
			return fmt.Errorf("cash memos out of order: %s does not follow %s",
				domain.FormatDate(memos[i].MemoDate), domain.FormatDate(memos[i-1].MemoDate))
		}
	}
	return nil
}

// ChainStep describes what recomputing one day of a balance chain decided.
type ChainStep struct {
	Memo       *domain.CashMemo
	NewOpening decimal.Decimal
	Changed    bool
	Drifted    bool
}

// PlanRecompute walks memos (ascending) starting from the closing balance of the day
// before the first memo. Draft days take the running balance as their opening balance.
// Posted days keep their snapshot and are flagged as drifted when it disagrees; the
// chain then continues from the posted day's own closing balance.
func PlanRecompute(startingBalance decimal.Decimal, memos []*domain.CashMemo) ([]ChainStep, error) {
	if err := ValidateChain(memos); err != nil {
		return nil, err
	}
	running := startingBalance.Round(2)
	steps := make([]ChainStep, 0, len(memos))
	for _, memo := range memos {
		step := ChainStep{Memo: memo, NewOpening: memo.OpeningBalance}
		if memo.IsPosted() {
			step.Drifted = !memo.OpeningBalance.Equal(running)
			running = MemoClosingBalance(memo)
		} else {
			step.Changed = !memo.OpeningBalance.Equal(running)
			step.NewOpening = running
			running = ClosingBalance(running, memo.CreditEntries, memo.DebitEntries)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
