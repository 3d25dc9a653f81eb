package services

import (
	"context"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MutationMeta identifies who is changing a memo and, optionally, which version
// they based the change on. A nil ExpectedVersion makes the write unconditional.
type MutationMeta struct {
	UserID          string
	ExpectedVersion *int64
}

// CreateMemoInput holds the data for creating a cash memo. The opening balance is
// always resolved server-side.
type CreateMemoInput struct {
	Date          time.Time
	CreditEntries []domain.Entry
	DebitEntries  []domain.Entry
	Notes         string
}

// EntrySet is a full replacement for both sides of a memo.
type EntrySet struct {
	CreditEntries []domain.Entry
	DebitEntries  []domain.Entry
}

// ReplaceMemoInput replaces entries, notes, or both. Nil fields are left as they are.
type ReplaceMemoInput struct {
	Entries *EntrySet
	Notes   *string
}

// CashMemoReaderSvc defines read operations for cash memos.
type CashMemoReaderSvc interface {
	// GetMemoByDate returns the memo for date or apperrors.ErrNotFound.
	GetMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error)

	// GetMemoByID returns the memo with memoID or apperrors.ErrNotFound.
	GetMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error)

	// ResolveOpeningBalance returns the closing balance of the latest memo before date,
	// or zero. Fails with apperrors.ErrDuplicate when date already has a memo.
	ResolveOpeningBalance(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

// CashMemoWriterSvc defines the mutations of cash memos.
type CashMemoWriterSvc interface {
	CreateMemo(ctx context.Context, input CreateMemoInput, meta MutationMeta) (*domain.CashMemo, error)

	// AddEntry appends an entry to the memo for date, creating the memo when needed.
	AddEntry(ctx context.Context, date time.Time, entry domain.Entry, meta MutationMeta) (*domain.CashMemo, error)

	// AddEntryToMemo appends an entry to an existing memo.
	AddEntryToMemo(ctx context.Context, memoID string, entry domain.Entry, meta MutationMeta) (*domain.CashMemo, error)

	EditEntry(ctx context.Context, date time.Time, kind domain.EntryKind, entryID string, patch domain.EntryPatch, meta MutationMeta) (*domain.CashMemo, error)

	DeleteEntry(ctx context.Context, date time.Time, kind domain.EntryKind, ref domain.EntryRef, meta MutationMeta) (*domain.CashMemo, error)

	ReplaceMemo(ctx context.Context, memoID string, input ReplaceMemoInput, meta MutationMeta) (*domain.CashMemo, error)

	// SaveNotes is allowed whatever the memo status.
	SaveNotes(ctx context.Context, date time.Time, notes string, meta MutationMeta) (*domain.CashMemo, error)

	// PostMemo freezes a draft memo.
	PostMemo(ctx context.Context, memoID string, meta MutationMeta) (*domain.CashMemo, error)

	// RecomputeForward re-chains opening balances of draft memos dated on or after from.
	RecomputeForward(ctx context.Context, from time.Time, meta MutationMeta) (*domain.RecomputeResult, error)
}

// CashMemoSvcFacade combines all cash memo service interfaces.
type CashMemoSvcFacade interface {
	CashMemoReaderSvc
	CashMemoWriterSvc
}
