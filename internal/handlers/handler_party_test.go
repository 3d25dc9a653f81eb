package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func mazdoorSummary() domain.PartySummary {
	last := testDay
	return domain.PartySummary{
		Party:        domain.PartyRef{ID: "m-1", Kind: domain.PartyMazdoor, Name: "Ramesh"},
		TotalCredit:  decimal.Zero,
		TotalDebit:   decimal.NewFromInt(500),
		Net:          decimal.NewFromInt(-500),
		EntryCount:   1,
		LastActivity: &last,
	}
}

func (s *CashMemoHandlerTestSuite) TestListParties() {
	s.partySvc.On("ListParties", mock.Anything, domain.PartyMazdoor).
		Return([]domain.PartySummary{mazdoorSummary()}, nil).Once()

	w := s.do(http.MethodGet, "/parties/mazdoor", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"Ramesh"`)
}

func (s *CashMemoHandlerTestSuite) TestListParties_UnknownKind() {
	s.partySvc.On("ListParties", mock.Anything, domain.PartyKind("vendor")).
		Return(nil, fmt.Errorf("%w: unknown party kind", apperrors.ErrValidation)).Once()

	w := s.do(http.MethodGet, "/parties/vendor", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CashMemoHandlerTestSuite) TestGetParty() {
	summary := mazdoorSummary()
	s.partySvc.On("GetPartySummary", mock.Anything, domain.PartyMazdoor, "m-1").Return(&summary, nil).Once()

	w := s.do(http.MethodGet, "/parties/mazdoor/m-1", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.PartySummaryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(1, resp.EntryCount)
}

func (s *CashMemoHandlerTestSuite) TestGetParty_NotFound() {
	s.partySvc.On("GetPartySummary", mock.Anything, domain.PartySupplier, "s-9").
		Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/parties/supplier/s-9", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CashMemoHandlerTestSuite) TestListPartyTransactions() {
	next := "token-2"
	s.partySvc.On("ListPartyTransactions", mock.Anything, domain.PartyMazdoor, "m-1", 2,
		mock.MatchedBy(func(tok *string) bool { return tok != nil && *tok == "token-1" })).
		Return(&domain.PartyTransactionsPage{
			Transactions: []domain.ReportEntry{{MemoID: "memo-1", Date: testDay, Kind: domain.DebitEntry, EntryID: "d-1", Amount: decimal.NewFromInt(500)}},
			NextToken:    &next,
		}, nil).Once()

	w := s.do(http.MethodGet, "/parties/mazdoor/m-1/transactions?limit=2&nextToken=token-1", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"token-2"`)
}

func (s *CashMemoHandlerTestSuite) TestListPartyTransactions_DefaultLimit() {
	s.partySvc.On("ListPartyTransactions", mock.Anything, domain.PartyAccount, "acc-1", 50, (*string)(nil)).
		Return(&domain.PartyTransactionsPage{}, nil).Once()

	w := s.do(http.MethodGet, "/parties/account/acc-1/transactions", nil, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *CashMemoHandlerTestSuite) TestListPartyTransactions_LimitTooLarge() {
	w := s.do(http.MethodGet, "/parties/account/acc-1/transactions?limit=500", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}
