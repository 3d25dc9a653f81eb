package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntriesReportParams defines query parameters for the entries report.
// At most one of the party filters may be set.
type EntriesReportParams struct {
	StartDate   string `form:"startDate" binding:"required"`
	EndDate     string `form:"endDate" binding:"required"`
	Category    string `form:"category"`
	MazdoorID   string `form:"mazdoorId"`
	CustomerID  string `form:"customerId"`
	SupplierID  string `form:"supplierId"`
	AccountID   string `form:"accountId"`
	Description string `form:"description"`
}

// ToDomainFilter parses the dates and collapses the party filters into one.
func (p EntriesReportParams) ToDomainFilter() (domain.EntriesFilter, error) {
	start, err := domain.ParseDate(p.StartDate)
	if err != nil {
		return domain.EntriesFilter{}, err
	}
	end, err := domain.ParseDate(p.EndDate)
	if err != nil {
		return domain.EntriesFilter{}, err
	}
	filter := domain.EntriesFilter{StartDate: start, EndDate: end}

	if c := strings.TrimSpace(p.Category); c != "" {
		category := domain.Category(c)
		filter.Category = &category
	}
	partyID := ""
	for _, id := range []string{p.MazdoorID, p.CustomerID, p.SupplierID, p.AccountID} {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if partyID != "" && partyID != id {
			return domain.EntriesFilter{}, fmt.Errorf("%w: only one party filter may be set", apperrors.ErrValidation)
		}
		partyID = id
	}
	if partyID != "" {
		filter.RelatedPartyID = &partyID
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		filter.DescriptionContains = &d
	}
	return filter, nil
}

// DateRangeParams defines the inclusive range of the memo list.
type DateRangeParams struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
}

// ReportEntryResponse is one row of the entries report.
type ReportEntryResponse struct {
	MemoID         string          `json:"memoId"`
	Date           string          `json:"date"`
	Kind           string          `json:"kind"`
	EntryID        string          `json:"entryId"`
	Category       string          `json:"category,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	RelatedParty   string          `json:"relatedParty,omitempty"`
	RelatedPartyID string          `json:"relatedPartyId,omitempty"`
	PaymentMethod  string          `json:"paymentMethod"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// EntriesReportResponse represents the entries report response
type EntriesReportResponse struct {
	Entries []ReportEntryResponse `json:"entries"`
	Summary struct {
		TotalCredit    decimal.Decimal `json:"totalCredit"`
		TotalDebit     decimal.Decimal `json:"totalDebit"`
		ClosingBalance decimal.Decimal `json:"closingBalance"`
		Count          int             `json:"count"`
	} `json:"summary"`
}

// MemoSummaryResponse is one line of the memo list.
type MemoSummaryResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Status         string          `json:"status"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	EntryCount     int             `json:"entryCount"`
	Version        int64           `json:"version"`
}

// ListMemoSummariesResponse wraps the memo list.
type ListMemoSummariesResponse struct {
	Memos []MemoSummaryResponse `json:"memos"`
}

// ToReportEntryResponse converts a domain.ReportEntry to its DTO.
func ToReportEntryResponse(e domain.ReportEntry) ReportEntryResponse {
	return ReportEntryResponse{
		MemoID:         e.MemoID,
		Date:           domain.FormatDate(e.Date),
		Kind:           string(e.Kind),
		EntryID:        e.EntryID,
		Category:       string(e.Category),
		Name:           e.Name,
		Description:    e.Description,
		RelatedParty:   e.RelatedParty,
		RelatedPartyID: e.RelatedPartyID,
		PaymentMethod:  string(e.PaymentMethod),
		Amount:         e.Amount,
		CreatedAt:      e.CreatedAt,
	}
}

func toReportEntryResponses(entries []domain.ReportEntry) []ReportEntryResponse {
	res := make([]ReportEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToReportEntryResponse(e)
	}
	return res
}

// ToEntriesReportResponse converts a domain.EntriesReport to a DTO response
func ToEntriesReportResponse(report *domain.EntriesReport) EntriesReportResponse {
	response := EntriesReportResponse{Entries: toReportEntryResponses(report.Entries)}
	response.Summary.TotalCredit = report.Summary.TotalCredit
	response.Summary.TotalDebit = report.Summary.TotalDebit
	response.Summary.ClosingBalance = report.Summary.ClosingBalance
	response.Summary.Count = report.Summary.Count
	return response
}

// ToListMemoSummariesResponse converts memo summaries to a DTO response
func ToListMemoSummariesResponse(summaries []domain.MemoSummary) ListMemoSummariesResponse {
	res := ListMemoSummariesResponse{Memos: make([]MemoSummaryResponse, len(summaries))}
	for i, s := range summaries {
		res.Memos[i] = MemoSummaryResponse{
			ID:             s.MemoID,
			Date:           domain.FormatDate(s.Date),
			Status:         string(s.Status),
			OpeningBalance: s.OpeningBalance,
			TotalCredit:    s.TotalCredit,
			TotalDebit:     s.TotalDebit,
			ClosingBalance: s.ClosingBalance,
			EntryCount:     s.EntryCount,
			Version:        s.Version,
		}
	}
	return res
}
