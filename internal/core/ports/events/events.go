// Package events defines how the ledger announces changes to other systems.
package events

import (
	"context"
	"time"
)

const (
	// CashMemoPosted is emitted once a cash memo is frozen.
	CashMemoPosted = "cash_memo.posted"
	// CashMemoEntriesChanged is emitted after entries or notes of a memo change.
	CashMemoEntriesChanged = "cash_memo.entries_changed"
	// CashMemoRecomputed is emitted after opening balances were rewritten.
	CashMemoRecomputed = "cash_memo.recomputed"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	MemoID     string    `json:"memoId"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
