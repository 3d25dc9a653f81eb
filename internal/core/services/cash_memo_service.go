package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_memo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/accounting"
)

// cashMemoService implements the CashMemoSvcFacade interface
type cashMemoService struct {
	BaseService
	repo      portsrepo.CashMemoRepositoryFacade
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// CashMemoServiceOption is a functional option for configuring the cash memo service
type CashMemoServiceOption func(*cashMemoService)

// WithCache memoizes day reads in store for ttl.
func WithCache(store cache.Store, ttl time.Duration) CashMemoServiceOption {
	return func(s *cashMemoService) {
		s.Cache = store
		s.CacheTTL = ttl
	}
}

// WithPublisher announces committed changes through p.
func WithPublisher(p events.Publisher) CashMemoServiceOption {
	return func(s *cashMemoService) {
		s.publisher = p
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CashMemoServiceOption {
	return func(s *cashMemoService) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for memo, entry and event IDs.
func WithIDGenerator(newID func() string) CashMemoServiceOption {
	return func(s *cashMemoService) {
		s.newID = newID
	}
}

// NewCashMemoService creates a new cash memo service with the provided options
func NewCashMemoService(repo portsrepo.CashMemoRepositoryFacade, options ...CashMemoServiceOption) portssvc.CashMemoSvcFacade {
	svc := &cashMemoService{
		BaseService: BaseService{component: "cash_memo"},
		repo:        repo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure cashMemoService implements the CashMemoSvcFacade interface
var _ portssvc.CashMemoSvcFacade = (*cashMemoService)(nil)

// GetMemoByDate reads through the cache.
func (s *cashMemoService) GetMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	key := memoDateKey(date)
	var cached domain.CashMemo
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	memo, err := s.repo.FindMemoByDate(ctx, domain.NormalizeDate(date))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get cash memo by date", slog.String("date", domain.FormatDate(date)))
		}
		return nil, err
	}
	s.cachePut(ctx, key, memo)
	return memo, nil
}

func (s *cashMemoService) GetMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByID(ctx, memoID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get cash memo by ID", slog.String("memo_id", memoID))
		}
		return nil, err
	}
	return memo, nil
}

func (s *cashMemoService) ResolveOpeningBalance(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	date = domain.NormalizeDate(date)
	_, err := s.repo.FindMemoByDate(ctx, date)
	if err == nil {
		return decimal.Zero, fmt.Errorf("%w: a cash memo already exists for %s", apperrors.ErrDuplicate, domain.FormatDate(date))
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, err
	}
	return s.closingBefore(ctx, date)
}

// closingBefore is the closing balance of the latest memo strictly before date, or zero.
func (s *cashMemoService) closingBefore(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	previous, err := s.repo.FindLatestMemoBefore(ctx, date)
	if errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to find previous cash memo", slog.String("date", domain.FormatDate(date)))
		return decimal.Zero, err
	}
	return accounting.MemoClosingBalance(previous), nil
}

func (s *cashMemoService) CreateMemo(ctx context.Context, input portssvc.CreateMemoInput, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	date := domain.NormalizeDate(input.Date)
	opening, err := s.ResolveOpeningBalance(ctx, date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	memo := domain.NewCashMemo(s.newID(), date, opening, meta.UserID, now)
	if err := memo.ReplaceEntries(s.withIdentity(nil, domain.CreditEntry, input.CreditEntries), s.withIdentity(nil, domain.DebitEntry, input.DebitEntries)); err != nil {
		return nil, err
	}
	memo.SetNotes(input.Notes)

	if err := s.repo.SaveMemo(ctx, *memo); err != nil {
		s.LogError(ctx, err, "Failed to save cash memo", slog.String("date", domain.FormatDate(date)))
		return nil, err
	}
	s.LogInfo(ctx, "Cash memo created",
		slog.String("memo_id", memo.MemoID),
		slog.String("date", domain.FormatDate(date)),
		slog.String("opening_balance", opening.StringFixed(2)))

	s.invalidateMemo(ctx, memo)
	s.publish(ctx, events.CashMemoEntriesChanged, memo, entriesChangedPayload(memo))
	return s.refetch(ctx, memo), nil
}

func (s *cashMemoService) AddEntry(ctx context.Context, date time.Time, entry domain.Entry, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	date = domain.NormalizeDate(date)
	memo, err := s.repo.FindMemoByDate(ctx, date)
	if errors.Is(err, apperrors.ErrNotFound) {
		created, createErr := s.createWith(ctx, date, meta, func(m *domain.CashMemo) error {
			return m.AddEntry(s.newEntry(entry))
		})
		if !errors.Is(createErr, apperrors.ErrDuplicate) {
			return created, createErr
		}
		// Someone else created the day in the meantime; append to theirs.
		memo, err = s.repo.FindMemoByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		return m.AddEntry(s.newEntry(entry))
	})
}

func (s *cashMemoService) AddEntryToMemo(ctx context.Context, memoID string, entry domain.Entry, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByID(ctx, memoID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		return m.AddEntry(s.newEntry(entry))
	})
}

func (s *cashMemoService) EditEntry(ctx context.Context, date time.Time, kind domain.EntryKind, entryID string, patch domain.EntryPatch, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByDate(ctx, domain.NormalizeDate(date))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		_, err := m.EditEntry(kind, entryID, patch)
		return err
	})
}

func (s *cashMemoService) DeleteEntry(ctx context.Context, date time.Time, kind domain.EntryKind, ref domain.EntryRef, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByDate(ctx, domain.NormalizeDate(date))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		removed, err := m.RemoveEntry(kind, ref)
		if err == nil && ref.EntryID == "" {
			s.LogInfo(ctx, "Entry removed by structural match",
				slog.String("memo_id", m.MemoID),
				slog.String("entry_id", removed.EntryID))
		}
		return err
	})
}

func (s *cashMemoService) ReplaceMemo(ctx context.Context, memoID string, input portssvc.ReplaceMemoInput, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByID(ctx, memoID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		if input.Entries != nil {
			credits := s.withIdentity(m, domain.CreditEntry, input.Entries.CreditEntries)
			debits := s.withIdentity(m, domain.DebitEntry, input.Entries.DebitEntries)
			if err := m.ReplaceEntries(credits, debits); err != nil {
				return err
			}
		}
		if input.Notes != nil {
			m.SetNotes(*input.Notes)
		}
		return nil
	})
}

func (s *cashMemoService) SaveNotes(ctx context.Context, date time.Time, notes string, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	date = domain.NormalizeDate(date)
	memo, err := s.repo.FindMemoByDate(ctx, date)
	if errors.Is(err, apperrors.ErrNotFound) {
		created, createErr := s.createWith(ctx, date, meta, func(m *domain.CashMemo) error {
			m.SetNotes(notes)
			return nil
		})
		if !errors.Is(createErr, apperrors.ErrDuplicate) {
			return created, createErr
		}
		memo, err = s.repo.FindMemoByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoEntriesChanged, func(m *domain.CashMemo) error {
		m.SetNotes(notes)
		return nil
	})
}

func (s *cashMemoService) PostMemo(ctx context.Context, memoID string, meta portssvc.MutationMeta) (*domain.CashMemo, error) {
	memo, err := s.repo.FindMemoByID(ctx, memoID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: cash memo %s does not exist", apperrors.ErrInvalidStateTransition, memoID)
	}
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, memo, meta, events.CashMemoPosted, func(m *domain.CashMemo) error {
		return m.Post(meta.UserID, s.now())
	})
}

func (s *cashMemoService) RecomputeForward(ctx context.Context, from time.Time, meta portssvc.MutationMeta) (*domain.RecomputeResult, error) {
	from = domain.NormalizeDate(from)
	result := &domain.RecomputeResult{Updated: []time.Time{}, Drifted: []time.Time{}}

	memos, err := s.repo.ListMemosFrom(ctx, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash memos for recompute", slog.String("from", domain.FormatDate(from)))
		return nil, err
	}
	if len(memos) == 0 {
		return result, nil
	}

	starting, err := s.closingBefore(ctx, from)
	if err != nil {
		return nil, err
	}
	steps, err := accounting.PlanRecompute(starting, memos)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := []portsrepo.MemoUpdate{}
	changed := []*domain.CashMemo{}
	for _, step := range steps {
		if step.Drifted {
			result.Drifted = append(result.Drifted, step.Memo.MemoDate)
			s.LogInfo(ctx, "Posted cash memo opening balance drifted from chain",
				slog.String("memo_id", step.Memo.MemoID),
				slog.String("date", domain.FormatDate(step.Memo.MemoDate)))
		}
		if !step.Changed {
			continue
		}
		updated := step.Memo.Clone()
		updated.OpeningBalance = step.NewOpening
		updated.Touch(meta.UserID, now)
		updates = append(updates, portsrepo.MemoUpdate{Memo: *updated, PreviousVersion: step.Memo.Version})
		changed = append(changed, updated)
		result.Updated = append(result.Updated, updated.MemoDate)
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateMemos(ctx, updates); err != nil {
			s.LogError(ctx, err, "Failed to write recomputed opening balances", slog.String("from", domain.FormatDate(from)))
			return nil, err
		}
		for _, m := range changed {
			s.cacheDelete(ctx, memoDateKey(m.MemoDate))
			s.publish(ctx, events.CashMemoRecomputed, m, map[string]any{
				"openingBalance": m.OpeningBalance,
				"version":        m.Version,
			})
		}
	}
	s.LogInfo(ctx, "Opening balances recomputed",
		slog.String("from", domain.FormatDate(from)),
		slog.Int("updated", len(result.Updated)),
		slog.Int("drifted", len(result.Drifted)))
	return result, nil
}

// createWith builds a new memo for date, lets fill populate it and stores it.
// Returns apperrors.ErrDuplicate when the day was created concurrently.
func (s *cashMemoService) createWith(ctx context.Context, date time.Time, meta portssvc.MutationMeta, fill func(*domain.CashMemo) error) (*domain.CashMemo, error) {
	opening, err := s.closingBefore(ctx, date)
	if err != nil {
		return nil, err
	}
	memo := domain.NewCashMemo(s.newID(), date, opening, meta.UserID, s.now())
	if err := fill(memo); err != nil {
		return nil, err
	}
	if err := s.repo.SaveMemo(ctx, *memo); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to create cash memo", slog.String("date", domain.FormatDate(date)))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Cash memo created on first write",
		slog.String("memo_id", memo.MemoID),
		slog.String("date", domain.FormatDate(date)))

	s.invalidateMemo(ctx, memo)
	s.publish(ctx, events.CashMemoEntriesChanged, memo, entriesChangedPayload(memo))
	return s.refetch(ctx, memo), nil
}

// mutate applies change to a copy of memo, stores it conditionally on the version
// it was read at, and only then invalidates cached views and re-reads the day.
func (s *cashMemoService) mutate(ctx context.Context, memo *domain.CashMemo, meta portssvc.MutationMeta, eventType string, change func(*domain.CashMemo) error) (*domain.CashMemo, error) {
	if meta.ExpectedVersion != nil && *meta.ExpectedVersion != memo.Version {
		return nil, fmt.Errorf("%w: cash memo %s is at version %d, expected %d",
			apperrors.ErrConflict, memo.MemoID, memo.Version, *meta.ExpectedVersion)
	}

	updated := memo.Clone()
	if err := change(updated); err != nil {
		return nil, err
	}
	updated.Touch(meta.UserID, s.now())

	if err := s.repo.UpdateMemo(ctx, portsrepo.MemoUpdate{Memo: *updated, PreviousVersion: memo.Version}); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update cash memo", slog.String("memo_id", memo.MemoID))
		}
		return nil, err
	}

	s.invalidateMemo(ctx, memo, updated)
	payload := entriesChangedPayload(updated)
	if eventType == events.CashMemoPosted {
		payload = postedPayload(updated)
	}
	s.publish(ctx, eventType, updated, payload)
	return s.refetch(ctx, updated), nil
}

// refetch re-reads the committed day. The write already succeeded, so a failed
// read falls back to the locally built memo.
func (s *cashMemoService) refetch(ctx context.Context, fallback *domain.CashMemo) *domain.CashMemo {
	fresh, err := s.GetMemoByDate(ctx, fallback.MemoDate)
	if err != nil {
		s.LogWarn(ctx, err, "Failed to re-read cash memo after write", slog.String("memo_id", fallback.MemoID))
		return fallback
	}
	return fresh
}

// newEntry stamps identity and creation time on an entry about to be added.
func (s *cashMemoService) newEntry(e domain.Entry) domain.Entry {
	e = e.Clone()
	e.EntryID = s.newID()
	e.CreatedAt = s.now()
	return e
}

// withIdentity prepares a replacement side. Entries that already exist in memo keep
// their ID and creation time; everything else is treated as new.
func (s *cashMemoService) withIdentity(memo *domain.CashMemo, kind domain.EntryKind, entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == "" {
			e.Kind = kind
		}
		if memo != nil && e.EntryID != "" {
			if idx := memo.FindEntry(kind, e.EntryID); idx >= 0 {
				e = e.Clone()
				e.CreatedAt = memo.Entries(kind)[idx].CreatedAt
				out = append(out, e)
				continue
			}
		}
		out = append(out, s.newEntry(e))
	}
	return out
}

func (s *cashMemoService) publish(ctx context.Context, eventType string, memo *domain.CashMemo, payload any) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		ID:         s.newID(),
		Type:       eventType,
		MemoID:     memo.MemoID,
		Date:       domain.FormatDate(memo.MemoDate),
		OccurredAt: s.now(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogWarn(ctx, err, "Failed to publish cash memo event",
			slog.String("event_type", eventType),
			slog.String("memo_id", memo.MemoID))
	}
}

func entriesChangedPayload(memo *domain.CashMemo) map[string]any {
	return map[string]any{
		"version":    memo.Version,
		"entryCount": memo.EntryCount(),
	}
}

func postedPayload(memo *domain.CashMemo) map[string]any {
	return map[string]any{
		"closingBalance": accounting.MemoClosingBalance(memo),
		"postedAt":       memo.PostedAt,
		"postedBy":       memo.PostedBy,
	}
}
