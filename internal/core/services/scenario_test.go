package services_test

import (
	"context"
	"testing"

	cacheadapter "github.com/SscSPs/cash_memo_ledger/internal/adapters/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/core/services"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A two-day ledger against a real store: the second day chains off the first,
// and posting the first freezes it.
func TestCashMemoLifecycle(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	meta := portssvc.MutationMeta{UserID: "owner"}
	repo := sqlite.NewCashMemoRepository(db)
	svc := services.NewCashMemoService(repo, services.WithCache(cacheadapter.NewMemoryStore(), 0))

	first, err := svc.AddEntry(ctx, dayA, creditEntry("", "Counter sale", "1000"), meta)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", accounting.MemoClosingBalance(first).StringFixed(2))

	opening, err := svc.ResolveOpeningBalance(ctx, dayB)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", opening.StringFixed(2))

	second, err := svc.AddEntry(ctx, dayB, debitEntry("", "Shop rent", "300", domain.CategoryRent), meta)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", second.OpeningBalance.StringFixed(2))
	assert.Equal(t, "700.00", accounting.MemoClosingBalance(second).StringFixed(2))

	posted, err := svc.PostMemo(ctx, first.MemoID, meta)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoPosted, posted.Status)
	assert.Equal(t, int64(2), posted.Version)

	_, err = svc.AddEntry(ctx, dayA, creditEntry("", "Late sale", "5"), meta)
	assert.ErrorIs(t, err, apperrors.ErrImmutable)

	_, err = svc.PostMemo(ctx, first.MemoID, meta)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

	stale := int64(1)
	_, err = svc.SaveNotes(ctx, dayB, "paid in cash", portssvc.MutationMeta{UserID: "owner", ExpectedVersion: &stale})
	require.NoError(t, err)
	_, err = svc.SaveNotes(ctx, dayB, "again", portssvc.MutationMeta{UserID: "owner", ExpectedVersion: &stale})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	reporting := services.NewReportingService(repo)
	summaries, err := reporting.ListMemoSummaries(ctx, dayA, dayB)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "700.00", summaries[1].ClosingBalance.StringFixed(2))

	parties := services.NewPartyService(repo, nil, 0)
	account, err := parties.GetPartySummary(ctx, domain.PartyAccount, "acc-x")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", account.TotalCredit.StringFixed(2))
}
