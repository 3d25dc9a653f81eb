package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MemoStatus represents the lifecycle state of a cash memo.
type MemoStatus string

const (
	// MemoDraft is the initial, mutable state.
	MemoDraft MemoStatus = "draft"
	// MemoPosted is terminal. Entries can no longer change.
	MemoPosted MemoStatus = "posted"
)

// CashMemo is the ledger for one calendar date: an opening balance snapshot plus
// the credit and debit entries recorded that day. The closing balance is always
// derived from entries and never stored.
type CashMemo struct {
	MemoID         string          `json:"id"`
	MemoDate       time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CreditEntries  []Entry         `json:"creditEntries"`
	DebitEntries   []Entry         `json:"debitEntries"`
	Notes          string          `json:"notes"`
	Status         MemoStatus      `json:"status"`
	Version        int64           `json:"version"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	PostedBy       *string         `json:"postedBy,omitempty"`
	AuditFields
}

// NewCashMemo builds an empty draft memo for date with the given opening balance snapshot.
func NewCashMemo(memoID string, date time.Time, opening decimal.Decimal, userID string, now time.Time) *CashMemo {
	return &CashMemo{
		MemoID:         memoID,
		MemoDate:       NormalizeDate(date),
		OpeningBalance: opening.Round(2),
		CreditEntries:  []Entry{},
		DebitEntries:   []Entry{},
		Status:         MemoDraft,
		Version:        1,
		AuditFields:    NewAuditFields(userID, now),
	}
}

// IsPosted reports whether the memo has been frozen.
func (m *CashMemo) IsPosted() bool {
	return m.Status == MemoPosted
}

// Entries returns the entry sequence for kind.
func (m *CashMemo) Entries(kind EntryKind) []Entry {
	if kind == CreditEntry {
		return m.CreditEntries
	}
	return m.DebitEntries
}

func (m *CashMemo) setEntries(kind EntryKind, entries []Entry) {
	if kind == CreditEntry {
		m.CreditEntries = entries
		return
	}
	m.DebitEntries = entries
}

// EntryCount returns the number of credit and debit entries.
func (m *CashMemo) EntryCount() int {
	return len(m.CreditEntries) + len(m.DebitEntries)
}

func (m *CashMemo) ensureDraft() error {
	if m.IsPosted() {
		return fmt.Errorf("%w: cash memo for %s", apperrors.ErrImmutable, FormatDate(m.MemoDate))
	}
	return nil
}

// AddEntry normalizes, validates and appends e to the side matching its kind.
func (m *CashMemo) AddEntry(e Entry) error {
	if err := m.ensureDraft(); err != nil {
		return err
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return err
	}
	m.setEntries(e.Kind, append(m.Entries(e.Kind), e))
	return nil
}

// FindEntry returns the index of the entry with entryID on the given side, or -1.
func (m *CashMemo) FindEntry(kind EntryKind, entryID string) int {
	for i, e := range m.Entries(kind) {
		if e.EntryID == entryID {
			return i
		}
	}
	return -1
}

// EditEntry applies patch to the entry identified by entryID, keeping its position.
func (m *CashMemo) EditEntry(kind EntryKind, entryID string, patch EntryPatch) (Entry, error) {
	if err := m.ensureDraft(); err != nil {
		return Entry{}, err
	}
	idx := m.FindEntry(kind, entryID)
	if entryID == "" || idx < 0 {
		return Entry{}, fmt.Errorf("%w: %s entry %q", apperrors.ErrNotFound, kind, entryID)
	}
	entries := m.Entries(kind)
	updated := entries[idx].Apply(patch)
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return Entry{}, err
	}
	entries[idx] = updated
	return updated, nil
}

// RemoveEntry deletes the entry located by ref and returns it.
// Entries are matched by ID. A ref without an ID falls back to the first entry with
// the same shape, for clients that removed an entry before learning its ID.
func (m *CashMemo) RemoveEntry(kind EntryKind, ref EntryRef) (Entry, error) {
	if err := m.ensureDraft(); err != nil {
		return Entry{}, err
	}
	entries := m.Entries(kind)
	idx := -1
	switch {
	case ref.EntryID != "":
		idx = m.FindEntry(kind, ref.EntryID)
	case ref.Shape != nil:
		shape := *ref.Shape
		shape.Kind = kind
		for i, e := range entries {
			if e.SameShape(shape) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return Entry{}, fmt.Errorf("%w: %s entry %q", apperrors.ErrNotFound, kind, ref.EntryID)
	}
	removed := entries[idx]
	out := make([]Entry, 0, len(entries)-1)
	out = append(out, entries[:idx]...)
	out = append(out, entries[idx+1:]...)
	m.setEntries(kind, out)
	return removed, nil
}

// ReplaceEntries swaps both entry sequences after validating every entry.
func (m *CashMemo) ReplaceEntries(credits, debits []Entry) error {
	if err := m.ensureDraft(); err != nil {
		return err
	}
	nc, err := normalizeSide(CreditEntry, credits)
	if err != nil {
		return err
	}
	nd, err := normalizeSide(DebitEntry, debits)
	if err != nil {
		return err
	}
	if err := uniqueEntryIDs(nc, nd); err != nil {
		return err
	}
	m.CreditEntries, m.DebitEntries = nc, nd
	return nil
}

func normalizeSide(kind EntryKind, entries []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		e = e.Clone()
		if e.Kind == "" {
			e.Kind = kind
		}
		if e.Kind != kind {
			return nil, fmt.Errorf("%w: %s entry %d has kind %s", apperrors.ErrValidation, kind, i, e.Kind)
		}
		e.Normalize()
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", kind, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// uniqueEntryIDs rejects an entry ID that appears more than once across both sides.
func uniqueEntryIDs(sides ...[]Entry) error {
	seen := make(map[string]struct{})
	for _, side := range sides {
		for _, e := range side {
			if e.EntryID == "" {
				continue
			}
			if _, dup := seen[e.EntryID]; dup {
				return fmt.Errorf("%w: entry id %s appears more than once", apperrors.ErrValidation, e.EntryID)
			}
			seen[e.EntryID] = struct{}{}
		}
	}
	return nil
}

// SetNotes replaces the memo notes. Allowed in any status.
func (m *CashMemo) SetNotes(notes string) {
	m.Notes = notes
}

// Post transitions the memo from draft to posted.
func (m *CashMemo) Post(userID string, at time.Time) error {
	if m.IsPosted() {
		return fmt.Errorf("%w: cash memo for %s is already posted", apperrors.ErrInvalidStateTransition, FormatDate(m.MemoDate))
	}
	m.Status = MemoPosted
	m.PostedAt = &at
	m.PostedBy = &userID
	return nil
}

// Touch records a successful mutation: bumps the version and the audit fields.
func (m *CashMemo) Touch(userID string, at time.Time) {
	m.Version++
	m.Stamp(userID, at)
}

// Clone returns a deep copy, so a mutation can be attempted without touching the original.
func (m *CashMemo) Clone() *CashMemo {
	if m == nil {
		return nil
	}
	c := *m
	c.CreditEntries = cloneEntries(m.CreditEntries)
	c.DebitEntries = cloneEntries(m.DebitEntries)
	if m.PostedAt != nil {
		t := *m.PostedAt
		c.PostedAt = &t
	}
	if m.PostedBy != nil {
		s := *m.PostedBy
		c.PostedBy = &s
	}
	return &c
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// Parties returns every distinct party referenced by the memo's entries.
func (m *CashMemo) Parties() []PartyRef {
	seen := make(map[PartyRef]struct{})
	var out []PartyRef
	for _, side := range [][]Entry{m.CreditEntries, m.DebitEntries} {
		for _, e := range side {
			for _, p := range e.Parties() {
				key := PartyRef{ID: p.ID, Kind: p.Kind}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, key)
			}
		}
	}
	return out
}
