package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartySummary aggregates every entry that references a party.
type PartySummary struct {
	Party        PartyRef        `json:"party"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	Net          decimal.Decimal `json:"net"`
	EntryCount   int             `json:"entryCount"`
	LastActivity *time.Time      `json:"lastActivity,omitempty"`
}

// PartyTransactionsPage is one page of a party's history, oldest first.
type PartyTransactionsPage struct {
	Transactions []ReportEntry `json:"transactions"`
	NextToken    *string       `json:"nextToken,omitempty"`
}
