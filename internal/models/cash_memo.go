package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashMemo is a row of the cash_memos table. Totals are never stored.
type CashMemo struct {
	MemoID         string          `json:"memoID"`
	MemoDate       time.Time       `json:"memoDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Notes          string          `json:"notes"`
	Status         string          `json:"status"`
	Version        int64           `json:"version"`
	PostedAt       *time.Time      `json:"postedAt"`
	PostedBy       *string         `json:"postedBy"`
	AuditFields
}

// CashMemoEntry is a row of the cash_memo_entries table. Relations of both entry
// kinds share nullable columns; the kind decides which are set.
type CashMemoEntry struct {
	EntryID       string          `json:"entryID"`
	MemoID        string          `json:"memoID"`
	Kind          string          `json:"kind"`
	Position      int             `json:"position"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Category      *string         `json:"category"`
	AccountID     *string         `json:"accountID"`
	AccountName   *string         `json:"accountName"`
	PartyID       *string         `json:"partyID"`
	PartyKind     *string         `json:"partyKind"`
	PartyName     *string         `json:"partyName"`
	Image         *string         `json:"image"`
	CreatedAt     time.Time       `json:"createdAt"`
}
