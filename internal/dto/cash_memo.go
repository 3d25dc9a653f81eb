package dto

import (
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PartyRefRequest references an account, customer, supplier or mazdoor.
// Name is the display label captured with the entry.
type PartyRefRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

// EntryRequest defines a credit or debit entry as sent by the dashboard.
// Account and Customer apply to credits, Category and Party to debits.
type EntryRequest struct {
	ID            string           `json:"id"` // Optional: keeps the identity of an existing entry on bulk replace
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description" binding:"max=1000"`
	Amount        decimal.Decimal  `json:"amount" binding:"amount2dp"`
	PaymentMethod string           `json:"paymentMethod" binding:"omitempty,oneof=cash cheque bank_transfer online"`
	Image         string           `json:"image"`
	Account       *PartyRefRequest `json:"account"`
	Customer      *PartyRefRequest `json:"customer"`
	Category      string           `json:"category"`
	Party         *PartyRefRequest `json:"party"`
}

// ToDomain converts the request into an entry of the given kind.
// Relation rules are checked by the domain, not here.
func (r EntryRequest) ToDomain(kind domain.EntryKind) domain.Entry {
	e := domain.Entry{
		EntryID:       r.ID,
		Kind:          kind,
		Name:          r.Name,
		Description:   r.Description,
		Amount:        r.Amount,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Image:         r.Image,
	}
	switch kind {
	case domain.CreditEntry:
		e.Credit = creditDetails(r.Account, r.Customer)
	case domain.DebitEntry:
		e.Debit = debitDetails(domain.Category(r.Category), r.Party)
	}
	return e
}

func creditDetails(account, customer *PartyRefRequest) *domain.CreditDetails {
	details := &domain.CreditDetails{}
	if account != nil {
		details.Account = domain.PartyRef{ID: account.ID, Kind: domain.PartyAccount, Name: account.Name}
	}
	if customer != nil {
		details.Customer = &domain.PartyRef{ID: customer.ID, Kind: domain.PartyCustomer, Name: customer.Name}
	}
	return details
}

func debitDetails(category domain.Category, party *PartyRefRequest) *domain.DebitDetails {
	details := &domain.DebitDetails{Category: category}
	if party != nil {
		details.Party = &domain.PartyRef{ID: party.ID, Kind: category.PartyKind(), Name: party.Name}
	}
	return details
}

// ToDomainEntries converts a side of a memo.
func ToDomainEntries(kind domain.EntryKind, reqs []EntryRequest) []domain.Entry {
	entries := make([]domain.Entry, len(reqs))
	for i, r := range reqs {
		entries[i] = r.ToDomain(kind)
	}
	return entries
}

// CreateCashMemoRequest defines the data needed to open a new day.
// OpeningBalance is accepted for compatibility and ignored: the server resolves it.
type CreateCashMemoRequest struct {
	Date           string           `json:"date" binding:"required"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	CreditEntries  []EntryRequest   `json:"creditEntries" binding:"dive"`
	DebitEntries   []EntryRequest   `json:"debitEntries" binding:"dive"`
	Notes          string           `json:"notes" binding:"max=5000"`
}

// ReplaceCashMemoRequest replaces the entries of a day, its notes, or both.
// Entries are replaced only when both sides are supplied.
type ReplaceCashMemoRequest struct {
	CreditEntries   []EntryRequest `json:"creditEntries" binding:"omitempty,dive"`
	DebitEntries    []EntryRequest `json:"debitEntries" binding:"omitempty,dive"`
	Notes           *string        `json:"notes" binding:"omitempty,max=5000"`
	ExpectedVersion *int64         `json:"expectedVersion"`
}

// EditEntryRequest carries the fields of an entry to change. Omitted fields are kept.
// Account and Customer are replaced together, as are Category and Party.
type EditEntryRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=1000"`
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,amount2dp"`
	PaymentMethod *string          `json:"paymentMethod" binding:"omitempty,oneof=cash cheque bank_transfer online"`
	Image         *string          `json:"image"`
	Account       *PartyRefRequest `json:"account" binding:"required_with=Customer"`
	Customer      *PartyRefRequest `json:"customer"`
	Category      *string          `json:"category" binding:"required_with=Party"`
	Party         *PartyRefRequest `json:"party"`
}

// ToDomainPatch converts the request into a patch.
func (r EditEntryRequest) ToDomainPatch() domain.EntryPatch {
	patch := domain.EntryPatch{
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
		Image:       r.Image,
	}
	if r.PaymentMethod != nil {
		pm := domain.PaymentMethod(*r.PaymentMethod)
		patch.PaymentMethod = &pm
	}
	if r.Account != nil {
		patch.Credit = creditDetails(r.Account, r.Customer)
	}
	if r.Category != nil {
		patch.Debit = debitDetails(domain.Category(*r.Category), r.Party)
	}
	return patch
}

// SaveNotesRequest replaces the notes of a day.
type SaveNotesRequest struct {
	Notes string `json:"notes" binding:"max=5000"`
}

// DateParams is used by endpoints that need a single calendar date.
type DateParams struct {
	Date string `form:"date" binding:"required"`
}

// RecomputeParams selects the first day to re-chain.
type RecomputeParams struct {
	FromDate string `form:"fromDate" binding:"required"`
}

// PartyRefResponse mirrors domain.PartyRef.
type PartyRefResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount"`
	PaymentMethod string            `json:"paymentMethod"`
	Image         string            `json:"image,omitempty"`
	Account       *PartyRefResponse `json:"account,omitempty"`
	Customer      *PartyRefResponse `json:"customer,omitempty"`
	Category      string            `json:"category,omitempty"`
	Party         *PartyRefResponse `json:"party,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// CashMemoResponse defines the data returned for a day, derived totals included.
type CashMemoResponse struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreditEntries  []EntryResponse `json:"creditEntries"`
	DebitEntries   []EntryResponse `json:"debitEntries"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Notes          string          `json:"notes"`
	Status         string          `json:"status"`
	Version        int64           `json:"version"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	PostedBy       *string         `json:"postedBy,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy  string          `json:"lastUpdatedBy"`
}

// PreviousBalanceResponse is the opening balance a new day on Date would get.
type PreviousBalanceResponse struct {
	Date            string          `json:"date"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
}

// RecomputeResponse lists the days touched by a recompute.
type RecomputeResponse struct {
	Updated []string `json:"updated"`
	Drifted []string `json:"drifted"`
}

func toPartyRefResponse(p *domain.PartyRef) *PartyRefResponse {
	if p == nil {
		return nil
	}
	return &PartyRefResponse{ID: p.ID, Kind: string(p.Kind), Name: p.Name}
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(e domain.Entry) EntryResponse {
	resp := EntryResponse{
		ID:            e.EntryID,
		Kind:          string(e.Kind),
		Name:          e.Name,
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: string(e.PaymentMethod),
		Image:         e.Image,
		CreatedAt:     e.CreatedAt,
	}
	if e.Credit != nil {
		account := e.Credit.Account
		resp.Account = toPartyRefResponse(&account)
		resp.Customer = toPartyRefResponse(e.Credit.Customer)
	}
	if e.Debit != nil {
		resp.Category = string(e.Debit.Category)
		resp.Party = toPartyRefResponse(e.Debit.Party)
	}
	return resp
}

func toEntryResponses(entries []domain.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(e)
	}
	return res
}

// ToCashMemoResponse converts a domain.CashMemo to CashMemoResponse DTO
func ToCashMemoResponse(m *domain.CashMemo) CashMemoResponse {
	totals := accounting.CashMemoTotals(m, decimal.Zero)
	return CashMemoResponse{
		ID:             m.MemoID,
		Date:           domain.FormatDate(m.MemoDate),
		OpeningBalance: totals.OpeningBalance,
		CreditEntries:  toEntryResponses(m.CreditEntries),
		DebitEntries:   toEntryResponses(m.DebitEntries),
		TotalCredit:    totals.TotalCredit,
		TotalDebit:     totals.TotalDebit,
		ClosingBalance: totals.ClosingBalance,
		Notes:          m.Notes,
		Status:         string(m.Status),
		Version:        m.Version,
		PostedAt:       m.PostedAt,
		PostedBy:       m.PostedBy,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
		LastUpdatedAt:  m.LastUpdatedAt,
		LastUpdatedBy:  m.LastUpdatedBy,
	}
}

// ToRecomputeResponse converts a domain.RecomputeResult to RecomputeResponse DTO
func ToRecomputeResponse(r *domain.RecomputeResult) RecomputeResponse {
	return RecomputeResponse{Updated: formatDates(r.Updated), Drifted: formatDates(r.Drifted)}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = domain.FormatDate(d)
	}
	return out
}
