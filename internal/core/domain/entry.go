package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind indicates which side of the cash memo an entry belongs to.
type EntryKind string

const (
	CreditEntry EntryKind = "credit"
	DebitEntry  EntryKind = "debit"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == CreditEntry || k == DebitEntry
}

// ParseEntryKind converts a path or query value into an EntryKind.
func ParseEntryKind(value string) (EntryKind, error) {
	k := EntryKind(strings.ToLower(strings.TrimSpace(value)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, value)
	}
	return k, nil
}

// PaymentMethod is how the cash moved.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOnline       PaymentMethod = "online"
)

// Valid reports whether p is a known payment method.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCheque, PaymentBankTransfer, PaymentOnline:
		return true
	}
	return false
}

// Category classifies a debit entry.
type Category string

const (
	CategoryMazdoor         Category = "mazdoor"
	CategoryElectricity     Category = "electricity"
	CategoryRent            Category = "rent"
	CategoryTransport       Category = "transport"
	CategoryRawMaterial     Category = "raw_material"
	CategoryMaintenance     Category = "maintenance"
	CategoryOther           Category = "other"
	CategoryCustomerPayment Category = "customer_payment"
	CategorySupplierPayment Category = "supplier_payment"
	CategorySale            Category = "sale"
	CategoryOtherIncome     Category = "other_income"
	CategoryGeneral         Category = "general"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryMazdoor, CategoryElectricity, CategoryRent, CategoryTransport, CategoryRawMaterial,
		CategoryMaintenance, CategoryOther, CategoryCustomerPayment, CategorySupplierPayment,
		CategorySale, CategoryOtherIncome, CategoryGeneral:
		return true
	}
	return false
}

// PartyKind returns the kind of related party a debit entry of this category may reference.
// The empty kind means the category carries no party.
func (c Category) PartyKind() PartyKind {
	switch c {
	case CategoryMazdoor:
		return PartyMazdoor
	case CategoryRawMaterial, CategorySupplierPayment:
		return PartySupplier
	case CategoryCustomerPayment, CategorySale:
		return PartyCustomer
	}
	return ""
}

// PartyKind identifies the directory an entry relation points into.
type PartyKind string

const (
	PartyAccount  PartyKind = "account"
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
	PartyMazdoor  PartyKind = "mazdoor"
)

// Valid reports whether k is a known party kind.
func (k PartyKind) Valid() bool {
	switch k {
	case PartyAccount, PartyCustomer, PartySupplier, PartyMazdoor:
		return true
	}
	return false
}

// PartyRef references an account, customer, supplier or mazdoor owned by another module.
// Name is a denormalized display label captured when the entry was written.
type PartyRef struct {
	ID   string    `json:"id"`
	Kind PartyKind `json:"kind"`
	Name string    `json:"name"`
}

// CreditDetails holds the relations of a credit (cash-in) entry.
type CreditDetails struct {
	Account  PartyRef  `json:"account"`
	Customer *PartyRef `json:"customer,omitempty"`
}

// DebitDetails holds the relations of a debit (cash-out) entry.
// The category decides which kind of party, if any, may be attached.
type DebitDetails struct {
	Category Category  `json:"category"`
	Party    *PartyRef `json:"party,omitempty"`
}

// MaxEntryAmount is the largest amount a single entry may carry.
var MaxEntryAmount = decimal.RequireFromString("999999999.99")

// Entry is one credit or debit line within a cash memo.
// Exactly one of Credit or Debit is set, matching Kind.
type Entry struct {
	EntryID       string          `json:"id"`
	Kind          EntryKind       `json:"kind"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Image         string          `json:"image,omitempty"`
	Credit        *CreditDetails  `json:"credit,omitempty"`
	Debit         *DebitDetails   `json:"debit,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Normalize trims the label, rounds the amount to two places and defaults the payment method.
// Rounding happens before validation.
func (e *Entry) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Amount = e.Amount.Round(2)
	if e.PaymentMethod == "" {
		e.PaymentMethod = PaymentCash
	}
}

// Validate checks the entry's fields and kind-specific relations.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, e.Kind)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	amount := e.Amount.Round(2)
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if amount.GreaterThan(MaxEntryAmount) {
		return fmt.Errorf("%w: amount must not exceed %s", apperrors.ErrValidation, MaxEntryAmount.StringFixed(2))
	}
	if e.PaymentMethod != "" && !e.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, e.PaymentMethod)
	}

	switch e.Kind {
	case CreditEntry:
		if e.Debit != nil {
			return fmt.Errorf("%w: credit entry cannot carry debit details", apperrors.ErrValidation)
		}
		if e.Credit == nil || strings.TrimSpace(e.Credit.Account.ID) == "" {
			return fmt.Errorf("%w: account is required for credit entries", apperrors.ErrValidation)
		}
		if e.Credit.Account.Kind != PartyAccount {
			return fmt.Errorf("%w: credit account must reference an account", apperrors.ErrValidation)
		}
		if c := e.Credit.Customer; c != nil && (c.Kind != PartyCustomer || strings.TrimSpace(c.ID) == "") {
			return fmt.Errorf("%w: credit customer must reference a customer", apperrors.ErrValidation)
		}
	case DebitEntry:
		if e.Credit != nil {
			return fmt.Errorf("%w: debit entry cannot carry credit details", apperrors.ErrValidation)
		}
		if e.Debit == nil || e.Debit.Category == "" {
			return fmt.Errorf("%w: category is required for debit entries", apperrors.ErrValidation)
		}
		if !e.Debit.Category.Valid() {
			return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, e.Debit.Category)
		}
		if p := e.Debit.Party; p != nil {
			want := e.Debit.Category.PartyKind()
			if want == "" {
				return fmt.Errorf("%w: category %s does not take a related party", apperrors.ErrValidation, e.Debit.Category)
			}
			if p.Kind != want || strings.TrimSpace(p.ID) == "" {
				return fmt.Errorf("%w: category %s requires a %s reference", apperrors.ErrValidation, e.Debit.Category, want)
			}
		}
	}
	return nil
}

// Category returns the debit category, or the empty category for credit entries.
func (e Entry) Category() Category {
	if e.Debit == nil {
		return ""
	}
	return e.Debit.Category
}

// Parties lists every party the entry references.
func (e Entry) Parties() []PartyRef {
	var parties []PartyRef
	if e.Credit != nil {
		parties = append(parties, e.Credit.Account)
		if e.Credit.Customer != nil {
			parties = append(parties, *e.Credit.Customer)
		}
	}
	if e.Debit != nil && e.Debit.Party != nil {
		parties = append(parties, *e.Debit.Party)
	}
	return parties
}

// RelatedParty returns the party shown against the entry in reports:
// the customer (falling back to the account) for credits and the category party for debits.
func (e Entry) RelatedParty() *PartyRef {
	if e.Credit != nil {
		if e.Credit.Customer != nil {
			return e.Credit.Customer
		}
		account := e.Credit.Account
		return &account
	}
	if e.Debit != nil {
		return e.Debit.Party
	}
	return nil
}

// SameShape reports whether two entries carry the same visible content.
// Only used to locate entries that were never assigned an ID.
func (e Entry) SameShape(o Entry) bool {
	return e.Kind == o.Kind &&
		strings.TrimSpace(e.Name) == strings.TrimSpace(o.Name) &&
		strings.TrimSpace(e.Description) == strings.TrimSpace(o.Description) &&
		e.Amount.Round(2).Equal(o.Amount.Round(2)) &&
		e.Category() == o.Category()
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := e
	if e.Credit != nil {
		credit := *e.Credit
		if e.Credit.Customer != nil {
			customer := *e.Credit.Customer
			credit.Customer = &customer
		}
		c.Credit = &credit
	}
	if e.Debit != nil {
		debit := *e.Debit
		if e.Debit.Party != nil {
			party := *e.Debit.Party
			debit.Party = &party
		}
		c.Debit = &debit
	}
	return c
}

// EntryPatch carries the fields an edit may change. Nil fields are left untouched.
// The entry's ID, kind and creation time never change.
type EntryPatch struct {
	Name          *string
	Description   *string
	Amount        *decimal.Decimal
	PaymentMethod *PaymentMethod
	Image         *string
	Credit        *CreditDetails
	Debit         *DebitDetails
}

// Apply returns a copy of e with the patch applied.
func (e Entry) Apply(p EntryPatch) Entry {
	out := e.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.PaymentMethod != nil {
		out.PaymentMethod = *p.PaymentMethod
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Credit != nil {
		credit := *p.Credit
		out.Credit = &credit
	}
	if p.Debit != nil {
		debit := *p.Debit
		out.Debit = &debit
	}
	return out
}

// EntryRef locates an entry for removal: by ID, or by shape when the entry has none.
type EntryRef struct {
	EntryID string
	Shape   *Entry
}
