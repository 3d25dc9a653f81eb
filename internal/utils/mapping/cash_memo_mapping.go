package mapping

import (
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/models"
)

// ToModelCashMemo converts a domain CashMemo to its header row and entry rows.
// Entry positions follow the order of each side.
func ToModelCashMemo(d domain.CashMemo) (models.CashMemo, []models.CashMemoEntry) {
	row := models.CashMemo{
		MemoID:         d.MemoID,
		MemoDate:       domain.NormalizeDate(d.MemoDate),
		OpeningBalance: d.OpeningBalance,
		Notes:          d.Notes,
		Status:         string(d.Status),
		Version:        d.Version,
		PostedAt:       d.PostedAt,
		PostedBy:       d.PostedBy,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}

	entries := make([]models.CashMemoEntry, 0, d.EntryCount())
	for i, e := range d.CreditEntries {
		entries = append(entries, ToModelEntry(d.MemoID, i, e))
	}
	for i, e := range d.DebitEntries {
		entries = append(entries, ToModelEntry(d.MemoID, i, e))
	}
	return row, entries
}

// ToModelEntry converts a domain Entry to an entry row.
func ToModelEntry(memoID string, position int, e domain.Entry) models.CashMemoEntry {
	row := models.CashMemoEntry{
		EntryID:       e.EntryID,
		MemoID:        memoID,
		Kind:          string(e.Kind),
		Position:      position,
		Name:          e.Name,
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: string(e.PaymentMethod),
		Image:         optionalString(e.Image),
		CreatedAt:     e.CreatedAt,
	}
	if e.Credit != nil {
		row.AccountID = optionalString(e.Credit.Account.ID)
		row.AccountName = optionalString(e.Credit.Account.Name)
		setParty(&row, e.Credit.Customer)
	}
	if e.Debit != nil {
		category := string(e.Debit.Category)
		row.Category = &category
		setParty(&row, e.Debit.Party)
	}
	return row
}

func setParty(row *models.CashMemoEntry, p *domain.PartyRef) {
	if p == nil {
		return
	}
	kind := string(p.Kind)
	row.PartyID = optionalString(p.ID)
	row.PartyKind = &kind
	row.PartyName = optionalString(p.Name)
}

// ToDomainCashMemo converts a header row and its entry rows to a domain CashMemo.
// entries must be ordered by kind and position.
func ToDomainCashMemo(m models.CashMemo, entries []models.CashMemoEntry) *domain.CashMemo {
	memo := &domain.CashMemo{
		MemoID:         m.MemoID,
		MemoDate:       domain.NormalizeDate(m.MemoDate),
		OpeningBalance: m.OpeningBalance,
		CreditEntries:  []domain.Entry{},
		DebitEntries:   []domain.Entry{},
		Notes:          m.Notes,
		Status:         domain.MemoStatus(m.Status),
		Version:        m.Version,
		PostedAt:       m.PostedAt,
		PostedBy:       m.PostedBy,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for _, row := range entries {
		e := ToDomainEntry(row)
		if e.Kind == domain.CreditEntry {
			memo.CreditEntries = append(memo.CreditEntries, e)
		} else {
			memo.DebitEntries = append(memo.DebitEntries, e)
		}
	}
	return memo
}

// ToDomainEntry converts an entry row to a domain Entry.
func ToDomainEntry(m models.CashMemoEntry) domain.Entry {
	e := domain.Entry{
		EntryID:       m.EntryID,
		Kind:          domain.EntryKind(m.Kind),
		Name:          m.Name,
		Description:   m.Description,
		Amount:        m.Amount,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Image:         derefString(m.Image),
		CreatedAt:     m.CreatedAt,
	}
	party := toDomainParty(m)
	if e.Kind == domain.CreditEntry {
		e.Credit = &domain.CreditDetails{
			Account:  domain.PartyRef{ID: derefString(m.AccountID), Kind: domain.PartyAccount, Name: derefString(m.AccountName)},
			Customer: party,
		}
	} else {
		e.Debit = &domain.DebitDetails{Category: domain.Category(derefString(m.Category)), Party: party}
	}
	return e
}

func toDomainParty(m models.CashMemoEntry) *domain.PartyRef {
	if m.PartyID == nil || m.PartyKind == nil {
		return nil
	}
	return &domain.PartyRef{ID: *m.PartyID, Kind: domain.PartyKind(*m.PartyKind), Name: derefString(m.PartyName)}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
