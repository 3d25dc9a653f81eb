package domain_test

import (
	"testing"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func creditEntry(name, amount string) domain.Entry {
	return domain.Entry{
		Kind:   domain.CreditEntry,
		Name:   name,
		Amount: decimal.RequireFromString(amount),
		Credit: &domain.CreditDetails{
			Account: domain.PartyRef{ID: "acc-1", Kind: domain.PartyAccount, Name: "Cash Box"},
		},
	}
}

func debitEntry(name, amount string, category domain.Category, party *domain.PartyRef) domain.Entry {
	return domain.Entry{
		Kind:   domain.DebitEntry,
		Name:   name,
		Amount: decimal.RequireFromString(amount),
		Debit:  &domain.DebitDetails{Category: category, Party: party},
	}
}

func TestEntry_Validate(t *testing.T) {
	mazdoor := &domain.PartyRef{ID: "m-1", Kind: domain.PartyMazdoor, Name: "Ramesh"}
	supplier := &domain.PartyRef{ID: "s-1", Kind: domain.PartySupplier, Name: "Steel Co"}

	tests := []struct {
		name    string
		entry   domain.Entry
		wantErr bool
	}{
		{name: "valid credit", entry: creditEntry("Sale counter", "1000")},
		{name: "valid debit without party", entry: debitEntry("Rent", "300", domain.CategoryRent, nil)},
		{name: "valid mazdoor debit", entry: debitEntry("Wages", "450.50", domain.CategoryMazdoor, mazdoor)},
		{name: "blank name", entry: creditEntry("   ", "10"), wantErr: true},
		{name: "zero amount", entry: creditEntry("Sale", "0"), wantErr: true},
		{name: "negative amount", entry: creditEntry("Sale", "-5"), wantErr: true},
		{name: "amount rounds to zero", entry: creditEntry("Sale", "0.004"), wantErr: true},
		{name: "amount at maximum", entry: creditEntry("Sale", "999999999.99")},
		{name: "amount above maximum", entry: creditEntry("Sale", "1000000000"), wantErr: true},
		{name: "amount rounds above maximum", entry: creditEntry("Sale", "999999999.995"), wantErr: true},
		{
			name:    "credit without account",
			entry:   domain.Entry{Kind: domain.CreditEntry, Name: "Sale", Amount: decimal.NewFromInt(5), Credit: &domain.CreditDetails{}},
			wantErr: true,
		},
		{
			name:    "debit without category",
			entry:   domain.Entry{Kind: domain.DebitEntry, Name: "Misc", Amount: decimal.NewFromInt(5)},
			wantErr: true,
		},
		{name: "unknown category", entry: debitEntry("Misc", "5", domain.Category("bribes"), nil), wantErr: true},
		{name: "party on category without party", entry: debitEntry("Rent", "5", domain.CategoryRent, mazdoor), wantErr: true},
		{name: "party kind does not match category", entry: debitEntry("Wages", "5", domain.CategoryMazdoor, supplier), wantErr: true},
		{name: "supplier payment with supplier", entry: debitEntry("Steel", "5", domain.CategorySupplierPayment, supplier)},
		{
			name: "credit carrying debit details",
			entry: func() domain.Entry {
				e := creditEntry("Sale", "5")
				e.Debit = &domain.DebitDetails{Category: domain.CategoryRent}
				return e
			}(),
			wantErr: true,
		},
		{
			name: "unknown payment method",
			entry: func() domain.Entry {
				e := creditEntry("Sale", "5")
				e.PaymentMethod = "barter"
				return e
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntry_Normalize(t *testing.T) {
	e := creditEntry("  Sale  ", "10.005")
	e.Normalize()

	assert.Equal(t, "Sale", e.Name)
	assert.Equal(t, "10.01", e.Amount.StringFixed(2))
	assert.Equal(t, domain.PaymentCash, e.PaymentMethod)
}

func TestEntry_RelatedParty(t *testing.T) {
	credit := creditEntry("Sale", "10")
	assert.Equal(t, "acc-1", credit.RelatedParty().ID)

	credit.Credit.Customer = &domain.PartyRef{ID: "c-1", Kind: domain.PartyCustomer}
	assert.Equal(t, "c-1", credit.RelatedParty().ID)
	assert.Len(t, credit.Parties(), 2)

	debit := debitEntry("Rent", "10", domain.CategoryRent, nil)
	assert.Nil(t, debit.RelatedParty())
	assert.Empty(t, debit.Parties())
}

func TestEntry_Apply(t *testing.T) {
	original := creditEntry("Sale", "10")
	original.EntryID = "e-1"
	name := "Counter sale"
	amount := decimal.RequireFromString("12.5")

	updated := original.Apply(domain.EntryPatch{Name: &name, Amount: &amount})

	assert.Equal(t, "e-1", updated.EntryID)
	assert.Equal(t, "Counter sale", updated.Name)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, "Sale", original.Name, "original must not change")

	updated.Credit.Account.ID = "other"
	assert.Equal(t, "acc-1", original.Credit.Account.ID, "apply must deep copy details")
}

func TestCategory_PartyKind(t *testing.T) {
	assert.Equal(t, domain.PartyMazdoor, domain.CategoryMazdoor.PartyKind())
	assert.Equal(t, domain.PartySupplier, domain.CategoryRawMaterial.PartyKind())
	assert.Equal(t, domain.PartySupplier, domain.CategorySupplierPayment.PartyKind())
	assert.Equal(t, domain.PartyCustomer, domain.CategorySale.PartyKind())
	assert.Equal(t, domain.PartyKind(""), domain.CategoryElectricity.PartyKind())
}

func TestParseEntryKind(t *testing.T) {
	k, err := domain.ParseEntryKind("Credit")
	assert.NoError(t, err)
	assert.Equal(t, domain.CreditEntry, k)

	_, err = domain.ParseEntryKind("transfer")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-01-02")
	assert.NoError(t, err)
	assert.Equal(t, "2025-01-02", domain.FormatDate(d))

	_, err = domain.ParseDate("02/01/2025")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
