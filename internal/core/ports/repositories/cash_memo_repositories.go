package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
)

// CashMemoReader defines read operations for cash memos.
// Every returned memo carries both entry sequences in insertion order.
type CashMemoReader interface {
	// FindMemoByID retrieves a cash memo by its unique identifier.
	FindMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error)

	// FindMemoByDate retrieves the cash memo for a calendar date, or apperrors.ErrNotFound.
	FindMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error)

	// FindLatestMemoBefore retrieves the most recent cash memo strictly before date,
	// or apperrors.ErrNotFound when there is none.
	FindLatestMemoBefore(ctx context.Context, date time.Time) (*domain.CashMemo, error)

	// ListMemosInRange retrieves memos whose date falls in [start, end], ascending by date.
	ListMemosInRange(ctx context.Context, start, end time.Time) ([]*domain.CashMemo, error)

	// ListMemosFrom retrieves memos dated on or after from, ascending by date.
	ListMemosFrom(ctx context.Context, from time.Time) ([]*domain.CashMemo, error)
}

// MemoUpdate is a conditional write: it only applies when the stored version
// still equals PreviousVersion.
type MemoUpdate struct {
	Memo            domain.CashMemo
	PreviousVersion int64
}

// CashMemoWriter defines write operations for cash memos.
type CashMemoWriter interface {
	// SaveMemo inserts a new memo with its entries. A memo already existing for the
	// same date fails with apperrors.ErrDuplicate.
	SaveMemo(ctx context.Context, memo domain.CashMemo) error

	// UpdateMemo rewrites the memo header and entries. A version mismatch fails with
	// apperrors.ErrConflict and a missing memo with apperrors.ErrNotFound.
	UpdateMemo(ctx context.Context, update MemoUpdate) error

	// UpdateMemos applies several updates atomically: all succeed or none do.
	UpdateMemos(ctx context.Context, updates []MemoUpdate) error
}

// PartyEntryReader finds memos through the parties their entries reference.
type PartyEntryReader interface {
	// ListMemosByPartyKind retrieves every memo with at least one entry referencing
	// a party of kind, ascending by date.
	ListMemosByPartyKind(ctx context.Context, kind domain.PartyKind) ([]*domain.CashMemo, error)

	// ListMemosByParty retrieves every memo with at least one entry referencing the
	// given party, ascending by date.
	ListMemosByParty(ctx context.Context, kind domain.PartyKind, partyID string) ([]*domain.CashMemo, error)
}

// CashMemoRepositoryFacade combines all cash memo repository interfaces.
// This is a facade for clients that need access to all operations.
type CashMemoRepositoryFacade interface {
	CashMemoReader
	CashMemoWriter
	PartyEntryReader
}
