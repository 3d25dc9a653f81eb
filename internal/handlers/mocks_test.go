package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CashMemoService ---
type MockCashMemoService struct {
	mock.Mock
}

var _ portssvc.CashMemoSvcFacade = (*MockCashMemoService)(nil)

func (m *MockCashMemoService) memo(args mock.Arguments) (*domain.CashMemo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashMemo), args.Error(1)
}

func (m *MockCashMemoService) GetMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date))
}

func (m *MockCashMemoService) GetMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, memoID))
}

func (m *MockCashMemoService) ResolveOpeningBalance(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCashMemoService) CreateMemo(ctx context.Context, input portssvc.CreateMemoInput, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, input, meta))
}

func (m *MockCashMemoService) AddEntry(ctx context.Context, date time.Time, entry domain.Entry, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date, entry, meta))
}

func (m *MockCashMemoService) AddEntryToMemo(ctx context.Context, memoID string, entry domain.Entry, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, memoID, entry, meta))
}

func (m *MockCashMemoService) EditEntry(ctx context.Context, date time.Time, kind domain.EntryKind, entryID string, patch domain.EntryPatch, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date, kind, entryID, patch, meta))
}

func (m *MockCashMemoService) DeleteEntry(ctx context.Context, date time.Time, kind domain.EntryKind, ref domain.EntryRef, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date, kind, ref, meta))
}

func (m *MockCashMemoService) ReplaceMemo(ctx context.Context, memoID string, input portssvc.ReplaceMemoInput, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, memoID, input, meta))
}

func (m *MockCashMemoService) SaveNotes(ctx context.Context, date time.Time, notes string, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date, notes, meta))
}

func (m *MockCashMemoService) PostMemo(ctx context.Context, memoID string, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, memoID, meta))
}

func (m *MockCashMemoService) RecomputeForward(ctx context.Context, from time.Time, meta portssvc.MutationMeta) (*domain.RecomputeResult, error) {
	args := m.Called(ctx, from, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecomputeResult), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) EntriesReport(ctx context.Context, filter domain.EntriesFilter) (*domain.EntriesReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntriesReport), args.Error(1)
}

func (m *MockReportingService) ListMemoSummaries(ctx context.Context, start, end time.Time) ([]domain.MemoSummary, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemoSummary), args.Error(1)
}

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

var _ portssvc.PartySvc = (*MockPartyService)(nil)

func (m *MockPartyService) ListParties(ctx context.Context, kind domain.PartyKind) ([]domain.PartySummary, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartySummary), args.Error(1)
}

func (m *MockPartyService) GetPartySummary(ctx context.Context, kind domain.PartyKind, partyID string) (*domain.PartySummary, error) {
	args := m.Called(ctx, kind, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartySummary), args.Error(1)
}

func (m *MockPartyService) ListPartyTransactions(ctx context.Context, kind domain.PartyKind, partyID string, limit int, nextToken *string) (*domain.PartyTransactionsPage, error) {
	args := m.Called(ctx, kind, partyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyTransactionsPage), args.Error(1)
}

// fakeHealth reports err on every ping.
type fakeHealth struct {
	err error
}

func (f fakeHealth) Ping(context.Context) error {
	return f.err
}
