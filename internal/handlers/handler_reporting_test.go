package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (s *CashMemoHandlerTestSuite) TestEntriesReport() {
	end := testDay.AddDate(0, 0, 30)
	report := &domain.EntriesReport{
		Entries: []domain.ReportEntry{{
			MemoID: "memo-1", Date: testDay, Kind: domain.DebitEntry, EntryID: "d-1",
			Category: domain.CategoryMazdoor, Name: "Wages", RelatedParty: "Ramesh", RelatedPartyID: "m-1",
			PaymentMethod: domain.PaymentCash, Amount: decimal.NewFromInt(500), CreatedAt: testDay,
		}},
		Summary: domain.ReportSummary{
			TotalCredit: decimal.Zero, TotalDebit: decimal.NewFromInt(500),
			ClosingBalance: decimal.NewFromInt(-500), Count: 1,
		},
	}
	s.reportingSvc.On("EntriesReport", mock.Anything, mock.MatchedBy(func(f domain.EntriesFilter) bool {
		return f.StartDate.Equal(testDay) && f.EndDate.Equal(end) &&
			f.Category != nil && *f.Category == domain.CategoryMazdoor &&
			f.RelatedPartyID != nil && *f.RelatedPartyID == "m-1" &&
			f.DescriptionContains == nil
	})).Return(report, nil).Once()

	w := s.do(http.MethodGet, "/daily-cash-memos/entries?startDate=2025-01-02&endDate=2025-02-01&category=mazdoor&mazdoorId=m-1", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.EntriesReportResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Entries, 1)
	s.Equal("Ramesh", resp.Entries[0].RelatedParty)
	s.Equal(1, resp.Summary.Count)
	s.True(resp.Summary.ClosingBalance.Equal(decimal.NewFromInt(-500)))
}

func (s *CashMemoHandlerTestSuite) TestEntriesReport_TwoPartyFilters() {
	w := s.do(http.MethodGet, "/daily-cash-memos/entries?startDate=2025-01-01&endDate=2025-01-31&mazdoorId=m-1&customerId=c-1", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.reportingSvc.AssertNotCalled(s.T(), "EntriesReport", mock.Anything, mock.Anything)
}

func (s *CashMemoHandlerTestSuite) TestEntriesReport_MissingRange() {
	w := s.do(http.MethodGet, "/daily-cash-memos/entries?startDate=2025-01-01", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CashMemoHandlerTestSuite) TestEntriesReport_InvertedRange() {
	s.reportingSvc.On("EntriesReport", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: startDate after endDate", apperrors.ErrValidation)).Once()

	w := s.do(http.MethodGet, "/daily-cash-memos/entries?startDate=2025-02-01&endDate=2025-01-01", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *CashMemoHandlerTestSuite) TestListMemoSummaries() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.reportingSvc.On("ListMemoSummaries", mock.Anything, start, testDay).Return([]domain.MemoSummary{
		{MemoID: "memo-0", Date: start, Status: domain.MemoPosted, OpeningBalance: decimal.Zero,
			TotalCredit: decimal.NewFromInt(1000), TotalDebit: decimal.Zero, ClosingBalance: decimal.NewFromInt(1000), EntryCount: 1, Version: 2},
		{MemoID: "memo-1", Date: testDay, Status: domain.MemoDraft, OpeningBalance: decimal.NewFromInt(1000),
			TotalCredit: decimal.NewFromInt(200), TotalDebit: decimal.NewFromInt(500), ClosingBalance: decimal.NewFromInt(700), EntryCount: 2, Version: 3},
	}, nil).Once()

	w := s.do(http.MethodGet, "/daily-cash-memos?startDate=2025-01-01&endDate=2025-01-02", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"memo-0"`)
	s.Contains(w.Body.String(), `"2025-01-02"`)
}

func (s *CashMemoHandlerTestSuite) TestListMemoSummaries_BadDate() {
	w := s.do(http.MethodGet, "/daily-cash-memos?startDate=yesterday&endDate=2025-01-02", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}
