package dto

import (
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPartyTransactionsParams defines query parameters for a party history page.
type ListPartyTransactionsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// PartySummaryResponse defines the data returned for a party.
type PartySummaryResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	Net          decimal.Decimal `json:"net"`
	EntryCount   int             `json:"entryCount"`
	LastActivity *string         `json:"lastActivity,omitempty"`
}

// ListPartiesResponse wraps the party list.
type ListPartiesResponse struct {
	Parties []PartySummaryResponse `json:"parties"`
}

// PartyTransactionsResponse is one page of a party's history.
type PartyTransactionsResponse struct {
	Transactions []ReportEntryResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToPartySummaryResponse converts a domain.PartySummary to its DTO.
func ToPartySummaryResponse(s domain.PartySummary) PartySummaryResponse {
	resp := PartySummaryResponse{
		ID:          s.Party.ID,
		Kind:        string(s.Party.Kind),
		Name:        s.Party.Name,
		TotalCredit: s.TotalCredit,
		TotalDebit:  s.TotalDebit,
		Net:         s.Net,
		EntryCount:  s.EntryCount,
	}
	if s.LastActivity != nil {
		resp.LastActivity = formatDatePtr(*s.LastActivity)
	}
	return resp
}

func formatDatePtr(t time.Time) *string {
	s := domain.FormatDate(t)
	return &s
}

// ToListPartiesResponse converts party summaries to a DTO response
func ToListPartiesResponse(parties []domain.PartySummary) ListPartiesResponse {
	res := ListPartiesResponse{Parties: make([]PartySummaryResponse, len(parties))}
	for i, p := range parties {
		res.Parties[i] = ToPartySummaryResponse(p)
	}
	return res
}

// ToPartyTransactionsResponse converts a history page to its DTO.
func ToPartyTransactionsResponse(page *domain.PartyTransactionsPage) PartyTransactionsResponse {
	return PartyTransactionsResponse{
		Transactions: toReportEntryResponses(page.Transactions),
		NextToken:    page.NextToken,
	}
}
