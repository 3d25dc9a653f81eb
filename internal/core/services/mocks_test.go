package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock CashMemoRepository ---
type MockCashMemoRepository struct {
	mock.Mock
}

var _ portsrepo.CashMemoRepositoryFacade = (*MockCashMemoRepository)(nil)

func (m *MockCashMemoRepository) memo(args mock.Arguments) (*domain.CashMemo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashMemo), args.Error(1)
}

func (m *MockCashMemoRepository) memos(args mock.Arguments) ([]*domain.CashMemo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CashMemo), args.Error(1)
}

func (m *MockCashMemoRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, memoID))
}

func (m *MockCashMemoRepository) FindMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date))
}

func (m *MockCashMemoRepository) FindLatestMemoBefore(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return m.memo(m.Called(ctx, date))
}

func (m *MockCashMemoRepository) ListMemosInRange(ctx context.Context, start, end time.Time) ([]*domain.CashMemo, error) {
	return m.memos(m.Called(ctx, start, end))
}

func (m *MockCashMemoRepository) ListMemosFrom(ctx context.Context, from time.Time) ([]*domain.CashMemo, error) {
	return m.memos(m.Called(ctx, from))
}

func (m *MockCashMemoRepository) ListMemosByPartyKind(ctx context.Context, kind domain.PartyKind) ([]*domain.CashMemo, error) {
	return m.memos(m.Called(ctx, kind))
}

func (m *MockCashMemoRepository) ListMemosByParty(ctx context.Context, kind domain.PartyKind, partyID string) ([]*domain.CashMemo, error) {
	return m.memos(m.Called(ctx, kind, partyID))
}

func (m *MockCashMemoRepository) SaveMemo(ctx context.Context, memo domain.CashMemo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockCashMemoRepository) UpdateMemo(ctx context.Context, update portsrepo.MemoUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockCashMemoRepository) UpdateMemos(ctx context.Context, updates []portsrepo.MemoUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
