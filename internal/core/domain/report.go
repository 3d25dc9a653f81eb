package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntriesFilter selects entries across a range of cash memos.
// All set filters apply conjunctively.
type EntriesFilter struct {
	StartDate           time.Time
	EndDate             time.Time
	Category            *Category
	RelatedPartyID      *string
	DescriptionContains *string
}

// Validate rejects an inverted range before anything is queried.
func (f EntriesFilter) Validate() error {
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", apperrors.ErrValidation)
	}
	if f.StartDate.After(f.EndDate) {
		return fmt.Errorf("%w: startDate %s is after endDate %s", apperrors.ErrValidation, FormatDate(f.StartDate), FormatDate(f.EndDate))
	}
	if f.Category != nil && !f.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, *f.Category)
	}
	return nil
}

// ReportEntry is one flattened entry tagged with the memo it came from.
type ReportEntry struct {
	MemoID         string          `json:"memoId"`
	Date           time.Time       `json:"date"`
	Kind           EntryKind       `json:"kind"`
	EntryID        string          `json:"entryId"`
	Category       Category        `json:"category,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	RelatedParty   string          `json:"relatedParty,omitempty"`
	RelatedPartyID string          `json:"relatedPartyId,omitempty"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ReportSummary totals the filtered entries only. Opening balances are not included.
type ReportSummary struct {
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Count          int             `json:"count"`
}

// EntriesReport is the result of an entries query.
type EntriesReport struct {
	Entries []ReportEntry `json:"entries"`
	Summary ReportSummary `json:"summary"`
}

// MemoSummary is a one-line view of a cash memo with derived totals.
type MemoSummary struct {
	MemoID         string          `json:"id"`
	Date           time.Time       `json:"date"`
	Status         MemoStatus      `json:"status"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	EntryCount     int             `json:"entryCount"`
	Version        int64           `json:"version"`
}

// RecomputeResult lists the days whose opening balance was rewritten and the posted
// days whose frozen snapshot no longer matches the chain.
type RecomputeResult struct {
	Updated []time.Time `json:"updated"`
	Drifted []time.Time `json:"drifted"`
}
