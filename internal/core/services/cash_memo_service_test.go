package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	cacheadapter "github.com/SscSPs/cash_memo_ledger/internal/adapters/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/core/services"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	dayA     = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	dayB     = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	dayC     = time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	dayD     = time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func creditEntry(id, name, amt string) domain.Entry {
	return domain.Entry{
		EntryID: id, Kind: domain.CreditEntry, Name: name, Amount: amount(amt), PaymentMethod: domain.PaymentCash,
		Credit: &domain.CreditDetails{Account: domain.PartyRef{ID: "acc-x", Kind: domain.PartyAccount, Name: "Account X"}},
	}
}

func debitEntry(id, name, amt string, category domain.Category) domain.Entry {
	return domain.Entry{
		EntryID: id, Kind: domain.DebitEntry, Name: name, Amount: amount(amt), PaymentMethod: domain.PaymentCash,
		Debit: &domain.DebitDetails{Category: category},
	}
}

func draftMemo(id string, date time.Time, opening string, credits []domain.Entry, debits []domain.Entry) *domain.CashMemo {
	m := domain.NewCashMemo(id, date, amount(opening), "user-1", date)
	if credits != nil {
		m.CreditEntries = credits
	}
	if debits != nil {
		m.DebitEntries = debits
	}
	return m
}

func postedMemo(id string, date time.Time, opening string, credits []domain.Entry, debits []domain.Entry) *domain.CashMemo {
	m := draftMemo(id, date, opening, credits, debits)
	_ = m.Post("user-1", date)
	return m
}

type CashMemoServiceTestSuite struct {
	suite.Suite
	repo      *MockCashMemoRepository
	publisher *MockPublisher
	store     *cacheadapter.MemoryStore
	service   portssvc.CashMemoSvcFacade
	ctx       context.Context
	meta      portssvc.MutationMeta
	ids       int
}

func TestCashMemoServiceSuite(t *testing.T) {
	suite.Run(t, new(CashMemoServiceTestSuite))
}

func (s *CashMemoServiceTestSuite) nextID() string {
	s.ids++
	return fmt.Sprintf("id-%d", s.ids)
}

func (s *CashMemoServiceTestSuite) SetupTest() {
	s.repo = new(MockCashMemoRepository)
	s.publisher = new(MockPublisher)
	s.store = cacheadapter.NewMemoryStore()
	s.ctx = context.Background()
	s.meta = portssvc.MutationMeta{UserID: "user-1"}
	s.ids = 0
	s.service = services.NewCashMemoService(s.repo,
		services.WithCache(s.store, time.Minute),
		services.WithPublisher(s.publisher),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(s.nextID),
	)
}

func (s *CashMemoServiceTestSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *CashMemoServiceTestSuite) expectEvent(eventType string) *mock.Call {
	return s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == eventType
	})).Return(nil)
}

func (s *CashMemoServiceTestSuite) cached(key string) bool {
	_, ok, _ := s.store.Get(s.ctx, key)
	return ok
}

func (s *CashMemoServiceTestSuite) TestGetMemoByDate_CachesReads() {
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "1000")}, nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil).Once()

	first, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.Require().NoError(err)
	second, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.Require().NoError(err)

	s.Equal("memo-a", first.MemoID)
	s.Equal("memo-a", second.MemoID)
	s.True(second.CreditEntries[0].Amount.Equal(amount("1000")))
	s.True(s.cached("cashmemo:date:2025-01-01"))
}

func (s *CashMemoServiceTestSuite) TestGetMemoByDate_MissIsNotCached() {
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(nil, apperrors.ErrNotFound).Twice()

	_, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.service.GetMemoByDate(s.ctx, dayA)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CashMemoServiceTestSuite) TestResolveOpeningBalance() {
	s.Run("no prior day", func() {
		s.SetupTest()
		s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)
		s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)

		balance, err := s.service.ResolveOpeningBalance(s.ctx, dayB)
		s.Require().NoError(err)
		s.True(balance.IsZero())
	})

	s.Run("prior day closing balance", func() {
		s.SetupTest()
		prior := draftMemo("memo-a", dayA, "0",
			[]domain.Entry{creditEntry("c1", "Sale", "1000")},
			[]domain.Entry{debitEntry("d1", "Rent", "500", domain.CategoryRent)})
		s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)
		s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(prior, nil)

		balance, err := s.service.ResolveOpeningBalance(s.ctx, dayB)
		s.Require().NoError(err)
		s.Equal("500.00", balance.StringFixed(2))
	})

	s.Run("existing day is rejected", func() {
		s.SetupTest()
		s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(draftMemo("memo-b", dayB, "0", nil, nil), nil)

		_, err := s.service.ResolveOpeningBalance(s.ctx, dayB)
		s.ErrorIs(err, apperrors.ErrDuplicate)
	})
}

func (s *CashMemoServiceTestSuite) TestCreateMemo() {
	prior := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "1000")}, nil)
	var saved domain.CashMemo
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound).Once()
	s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(prior, nil)
	s.repo.On("SaveMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.CashMemo)
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(&saved, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	memo, err := s.service.CreateMemo(s.ctx, portssvc.CreateMemoInput{
		Date:         dayB,
		DebitEntries: []domain.Entry{debitEntry("client-id", "Rent", "300", domain.CategoryRent)},
		Notes:        "first day of rent",
	}, s.meta)

	s.Require().NoError(err)
	s.Equal("id-1", memo.MemoID)
	s.Equal("1000.00", memo.OpeningBalance.StringFixed(2))
	s.Equal("first day of rent", memo.Notes)
	s.Require().Len(memo.DebitEntries, 1)
	s.Equal("id-2", memo.DebitEntries[0].EntryID, "client supplied IDs are replaced")
	s.Equal(fixedNow, memo.DebitEntries[0].CreatedAt)
	s.Equal("700.00", accounting.MemoClosingBalance(memo).StringFixed(2))
}

func (s *CashMemoServiceTestSuite) TestCreateMemo_InvalidEntryStoresNothing() {
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)
	s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)

	_, err := s.service.CreateMemo(s.ctx, portssvc.CreateMemoInput{
		Date:          dayB,
		CreditEntries: []domain.Entry{creditEntry("", "Sale", "0.001")},
	}, s.meta)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.repo.AssertNotCalled(s.T(), "SaveMemo", mock.Anything, mock.Anything)
}

func (s *CashMemoServiceTestSuite) TestAddEntry_CreatesDayLazily() {
	prior := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "1000")}, nil)
	var saved domain.CashMemo
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound).Once()
	s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(prior, nil)
	s.repo.On("SaveMemo", mock.Anything, mock.MatchedBy(func(m domain.CashMemo) bool {
		return m.OpeningBalance.Equal(amount("1000")) && len(m.DebitEntries) == 1
	})).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.CashMemo)
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(&saved, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	memo, err := s.service.AddEntry(s.ctx, dayB, debitEntry("", "Rent", "300", domain.CategoryRent), s.meta)

	s.Require().NoError(err)
	s.Equal(int64(1), memo.Version)
	s.Equal("id-2", memo.DebitEntries[0].EntryID)
	s.Equal("700.00", accounting.MemoClosingBalance(memo).StringFixed(2))
}

func (s *CashMemoServiceTestSuite) TestAddEntry_ConcurrentCreationAppendsToExistingDay() {
	existing := draftMemo("memo-b", dayB, "0", []domain.Entry{creditEntry("c1", "Sale", "10")}, nil)
	var updated domain.CashMemo
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound).Once()
	s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(nil, apperrors.ErrNotFound)
	s.repo.On("SaveMemo", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: memo_date", apperrors.ErrDuplicate))
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(existing, nil).Once()
	s.repo.On("UpdateMemo", mock.Anything, mock.MatchedBy(func(u portsrepo.MemoUpdate) bool {
		return u.PreviousVersion == 1 && u.Memo.Version == 2 && len(u.Memo.CreditEntries) == 2
	})).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayB).Return(&updated, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	memo, err := s.service.AddEntry(s.ctx, dayB, creditEntry("", "Late sale", "5"), s.meta)

	s.Require().NoError(err)
	s.Equal("memo-b", memo.MemoID)
	s.Len(memo.CreditEntries, 2)
}

func (s *CashMemoServiceTestSuite) TestAddEntry_PostedDayIsImmutable() {
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(postedMemo("memo-a", dayA, "0", nil, nil), nil)

	_, err := s.service.AddEntry(s.ctx, dayA, creditEntry("", "Sale", "1"), s.meta)

	s.ErrorIs(err, apperrors.ErrImmutable)
	s.repo.AssertNotCalled(s.T(), "UpdateMemo", mock.Anything, mock.Anything)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)
}

func (s *CashMemoServiceTestSuite) TestAddEntryToMemo_UnknownMemo() {
	s.repo.On("FindMemoByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.AddEntryToMemo(s.ctx, "nope", creditEntry("", "Sale", "1"), s.meta)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CashMemoServiceTestSuite) TestEditEntry_ExpectedVersionMismatch() {
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "10")}, nil)
	memo.Version = 4
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil)

	name := "Renamed"
	stale := int64(3)
	_, err := s.service.EditEntry(s.ctx, dayA, domain.CreditEntry, "c1", domain.EntryPatch{Name: &name},
		portssvc.MutationMeta{UserID: "user-1", ExpectedVersion: &stale})

	s.ErrorIs(err, apperrors.ErrConflict)
	s.repo.AssertNotCalled(s.T(), "UpdateMemo", mock.Anything, mock.Anything)
}

func (s *CashMemoServiceTestSuite) TestEditEntry_InvalidatesAfterWriteThenRefetches() {
	customer := creditEntry("c1", "Sale", "10")
	customer.Credit.Customer = &domain.PartyRef{ID: "cust-1", Kind: domain.PartyCustomer, Name: "Gupta"}
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{customer}, nil)
	var updated domain.CashMemo

	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil).Twice()
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(&updated, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	_, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.Require().NoError(err)
	for _, key := range []string{"party:customer:cust-1", "party:customer:list", "party:customer:cust-1:transactions:50:first", "party:account:acc-x"} {
		s.Require().NoError(s.store.Set(s.ctx, key, []byte(`{}`), time.Minute))
	}

	amt := amount("12.345")
	result, err := s.service.EditEntry(s.ctx, dayA, domain.CreditEntry, "c1", domain.EntryPatch{Amount: &amt}, s.meta)
	s.Require().NoError(err)
	s.Equal("12.35", result.CreditEntries[0].Amount.StringFixed(2))
	s.Equal(int64(2), result.Version)

	for _, key := range []string{"party:customer:cust-1", "party:customer:list", "party:customer:cust-1:transactions:50:first", "party:account:acc-x"} {
		s.False(s.cached(key), key)
	}

	again, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.Require().NoError(err)
	s.Equal(int64(2), again.Version, "re-read after the write is what gets cached")
}

func (s *CashMemoServiceTestSuite) TestEditEntry_FailedWriteKeepsCache() {
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "10")}, nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil)
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Return(apperrors.Upstream("store down", errors.New("connection refused")))

	_, err := s.service.GetMemoByDate(s.ctx, dayA)
	s.Require().NoError(err)

	name := "Renamed"
	_, err = s.service.EditEntry(s.ctx, dayA, domain.CreditEntry, "c1", domain.EntryPatch{Name: &name}, s.meta)

	s.ErrorIs(err, apperrors.ErrUpstream)
	s.True(s.cached("cashmemo:date:2025-01-01"))
}

func (s *CashMemoServiceTestSuite) TestDeleteEntry() {
	memo := draftMemo("memo-a", dayA, "0", nil, []domain.Entry{
		debitEntry("d1", "Tea", "20", domain.CategoryOther),
		debitEntry("d2", "Tea", "20", domain.CategoryOther),
	})
	var updated domain.CashMemo
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil).Once()
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil).Once()
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(&updated, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	result, err := s.service.DeleteEntry(s.ctx, dayA, domain.DebitEntry, domain.EntryRef{EntryID: "d2"}, s.meta)
	s.Require().NoError(err)
	s.Require().Len(result.DebitEntries, 1)
	s.Equal("d1", result.DebitEntries[0].EntryID)
}

func (s *CashMemoServiceTestSuite) TestDeleteEntry_UnknownID() {
	memo := draftMemo("memo-a", dayA, "0", nil, []domain.Entry{debitEntry("d1", "Tea", "20", domain.CategoryOther)})
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil)

	_, err := s.service.DeleteEntry(s.ctx, dayA, domain.DebitEntry, domain.EntryRef{EntryID: "d9"}, s.meta)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CashMemoServiceTestSuite) TestReplaceMemo_KeepsKnownEntryIdentity() {
	original := creditEntry("c1", "Sale", "10")
	original.CreatedAt = dayA
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{original}, []domain.Entry{debitEntry("d1", "Tea", "5", domain.CategoryOther)})
	var updated domain.CashMemo
	s.repo.On("FindMemoByID", mock.Anything, "memo-a").Return(memo, nil)
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(&updated, nil)
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	edited := creditEntry("c1", "Sale (corrected)", "11")
	notes := "recounted"
	result, err := s.service.ReplaceMemo(s.ctx, "memo-a", portssvc.ReplaceMemoInput{
		Entries: &portssvc.EntrySet{CreditEntries: []domain.Entry{edited, creditEntry("", "Cash from bank", "100")}},
		Notes:   &notes,
	}, s.meta)

	s.Require().NoError(err)
	s.Require().Len(result.CreditEntries, 2)
	s.Equal("c1", result.CreditEntries[0].EntryID)
	s.Equal(dayA, result.CreditEntries[0].CreatedAt)
	s.Equal("id-1", result.CreditEntries[1].EntryID)
	s.Empty(result.DebitEntries)
	s.Equal("recounted", result.Notes)
}

func (s *CashMemoServiceTestSuite) TestReplaceMemo_RepeatedEntryIDIsValidation() {
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "10")}, nil)
	s.repo.On("FindMemoByID", mock.Anything, "memo-a").Return(memo, nil).Once()

	_, err := s.service.ReplaceMemo(s.ctx, "memo-a", portssvc.ReplaceMemoInput{
		Entries: &portssvc.EntrySet{CreditEntries: []domain.Entry{
			creditEntry("c1", "Sale", "10"),
			creditEntry("c1", "Sale", "10"),
		}},
	}, s.meta)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.repo.AssertNotCalled(s.T(), "UpdateMemo", mock.Anything, mock.Anything)
}

func (s *CashMemoServiceTestSuite) TestSaveNotes_AllowedOnPostedMemo() {
	memo := postedMemo("memo-a", dayA, "0", nil, nil)
	var updated domain.CashMemo
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil).Once()
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(&updated, nil).Once()
	s.expectEvent(events.CashMemoEntriesChanged).Once()

	result, err := s.service.SaveNotes(s.ctx, dayA, "bank closed", s.meta)

	s.Require().NoError(err)
	s.Equal("bank closed", result.Notes)
	s.Equal(domain.MemoPosted, result.Status)
}

func (s *CashMemoServiceTestSuite) TestPostMemo() {
	memo := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "1000")}, nil)
	var updated domain.CashMemo
	s.repo.On("FindMemoByID", mock.Anything, "memo-a").Return(memo, nil)
	s.repo.On("UpdateMemo", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		updated = args.Get(1).(portsrepo.MemoUpdate).Memo
	}).Return(nil)
	s.repo.On("FindMemoByDate", mock.Anything, dayA).Return(&updated, nil)
	s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		payload, ok := e.Payload.(map[string]any)
		return ok && e.Type == events.CashMemoPosted && e.Date == "2025-01-01" &&
			payload["closingBalance"].(decimal.Decimal).Equal(amount("1000"))
	})).Return(errors.New("broker unreachable")).Once()

	result, err := s.service.PostMemo(s.ctx, "memo-a", s.meta)

	s.Require().NoError(err, "publish failures never fail a committed write")
	s.Equal(domain.MemoPosted, result.Status)
	s.Require().NotNil(result.PostedAt)
	s.Equal(fixedNow, *result.PostedAt)
}

func (s *CashMemoServiceTestSuite) TestPostMemo_InvalidTransitions() {
	s.repo.On("FindMemoByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)
	s.repo.On("FindMemoByID", mock.Anything, "memo-a").Return(postedMemo("memo-a", dayA, "0", nil, nil), nil)

	_, err := s.service.PostMemo(s.ctx, "missing", s.meta)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	_, err = s.service.PostMemo(s.ctx, "memo-a", s.meta)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	s.repo.AssertNotCalled(s.T(), "UpdateMemo", mock.Anything, mock.Anything)
}

func (s *CashMemoServiceTestSuite) TestRecomputeForward() {
	prior := draftMemo("memo-a", dayA, "0", []domain.Entry{creditEntry("c1", "Sale", "1000")}, nil)
	b := draftMemo("memo-b", dayB, "0", nil, []domain.Entry{debitEntry("d1", "Rent", "300", domain.CategoryRent)})
	c := postedMemo("memo-c", dayC, "100", []domain.Entry{creditEntry("c2", "Sale", "50")}, nil)
	d := draftMemo("memo-d", dayD, "0", nil, nil)

	s.repo.On("ListMemosFrom", mock.Anything, dayB).Return([]*domain.CashMemo{b, c, d}, nil)
	s.repo.On("FindLatestMemoBefore", mock.Anything, dayB).Return(prior, nil)
	s.repo.On("UpdateMemos", mock.Anything, mock.MatchedBy(func(updates []portsrepo.MemoUpdate) bool {
		return len(updates) == 2 &&
			updates[0].Memo.MemoID == "memo-b" && updates[0].Memo.OpeningBalance.Equal(amount("1000")) &&
			updates[1].Memo.MemoID == "memo-d" && updates[1].Memo.OpeningBalance.Equal(amount("150")) &&
			updates[0].PreviousVersion == 1 && updates[0].Memo.Version == 2
	})).Return(nil)
	s.expectEvent(events.CashMemoRecomputed).Twice()

	result, err := s.service.RecomputeForward(s.ctx, dayB, s.meta)

	s.Require().NoError(err)
	s.Equal([]time.Time{dayB, dayD}, result.Updated)
	s.Equal([]time.Time{dayC}, result.Drifted)
}

func (s *CashMemoServiceTestSuite) TestRecomputeForward_NothingToDo() {
	s.repo.On("ListMemosFrom", mock.Anything, dayB).Return([]*domain.CashMemo{}, nil)

	result, err := s.service.RecomputeForward(s.ctx, dayB, s.meta)

	s.Require().NoError(err)
	s.Empty(result.Updated)
	s.Empty(result.Drifted)
	s.repo.AssertNotCalled(s.T(), "UpdateMemos", mock.Anything, mock.Anything)
}

func TestCashMemoService_WithoutCacheOrPublisher(t *testing.T) {
	repo := new(MockCashMemoRepository)
	memo := draftMemo("memo-a", dayA, "0", nil, nil)
	repo.On("FindMemoByDate", mock.Anything, dayA).Return(memo, nil).Twice()

	svc := services.NewCashMemoService(repo)
	for i := 0; i < 2; i++ {
		got, err := svc.GetMemoByDate(context.Background(), dayA)
		assert.NoError(t, err)
		assert.Equal(t, "memo-a", got.MemoID)
	}
	repo.AssertExpectations(t)
}
