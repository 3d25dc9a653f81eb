package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cash_memo_ledger/internal/models"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/mapping"
)

const memoColumns = `memo_id, memo_date, opening_balance, notes, status, version, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, memo_id, kind, position, name, description, amount, payment_method,
	category, account_id, account_name, party_id, party_kind, party_name, image, created_at`

const partyFilter = `EXISTS (
	SELECT 1 FROM cash_memo_entries e
	WHERE e.memo_id = m.memo_id AND (
		(e.party_kind = ?1 AND (?2 = '' OR e.party_id = ?2))
		OR (?1 = 'account' AND e.account_id IS NOT NULL AND (?2 = '' OR e.account_id = ?2))
	)
)`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CashMemoRepository stores cash memos in SQLite. Dates are kept as ISO text and
// amounts as decimal text so no precision is lost.
type CashMemoRepository struct {
	db *sql.DB
}

// NewCashMemoRepository creates a repository on an already migrated database.
func NewCashMemoRepository(db *sql.DB) *CashMemoRepository {
	return &CashMemoRepository{db: db}
}

var _ portsrepo.CashMemoRepositoryFacade = (*CashMemoRepository)(nil)

func (r *CashMemoRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error) {
	return r.findOne(ctx, "WHERE m.memo_id = ?1", fmt.Sprintf("cash memo %s", memoID), memoID)
}

func (r *CashMemoRepository) FindMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return r.findOne(ctx, "WHERE m.memo_date = ?1", fmt.Sprintf("cash memo for %s", domain.FormatDate(date)), domain.FormatDate(date))
}

func (r *CashMemoRepository) FindLatestMemoBefore(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return r.findOne(ctx, "WHERE m.memo_date < ?1 ORDER BY m.memo_date DESC LIMIT 1",
		fmt.Sprintf("cash memo before %s", domain.FormatDate(date)), domain.FormatDate(date))
}

func (r *CashMemoRepository) ListMemosInRange(ctx context.Context, start, end time.Time) ([]*domain.CashMemo, error) {
	return queryMemos(ctx, r.db, "WHERE m.memo_date BETWEEN ?1 AND ?2 ORDER BY m.memo_date",
		domain.FormatDate(start), domain.FormatDate(end))
}

func (r *CashMemoRepository) ListMemosFrom(ctx context.Context, from time.Time) ([]*domain.CashMemo, error) {
	return queryMemos(ctx, r.db, "WHERE m.memo_date >= ?1 ORDER BY m.memo_date", domain.FormatDate(from))
}

func (r *CashMemoRepository) ListMemosByPartyKind(ctx context.Context, kind domain.PartyKind) ([]*domain.CashMemo, error) {
	return queryMemos(ctx, r.db, "WHERE "+partyFilter+" ORDER BY m.memo_date", string(kind), "")
}

func (r *CashMemoRepository) ListMemosByParty(ctx context.Context, kind domain.PartyKind, partyID string) ([]*domain.CashMemo, error) {
	return queryMemos(ctx, r.db, "WHERE "+partyFilter+" ORDER BY m.memo_date", string(kind), partyID)
}

// SaveMemo inserts a memo and its entries in one transaction.
func (r *CashMemoRepository) SaveMemo(ctx context.Context, memo domain.CashMemo) error {
	row, entries := mapping.ToModelCashMemo(memo)
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cash_memos (`+memoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.MemoID,
			domain.FormatDate(row.MemoDate),
			row.OpeningBalance.StringFixed(2),
			row.Notes,
			row.Status,
			row.Version,
			row.PostedAt,
			row.PostedBy,
			row.CreatedAt,
			row.CreatedBy,
			row.LastUpdatedAt,
			row.LastUpdatedBy,
		)
		if err != nil {
			return mapError(fmt.Sprintf("cash memo for %s", domain.FormatDate(row.MemoDate)), err)
		}
		return insertEntries(ctx, tx, row.MemoID, entries)
	})
}

// UpdateMemo rewrites a memo when its stored version still matches.
func (r *CashMemoRepository) UpdateMemo(ctx context.Context, update portsrepo.MemoUpdate) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return updateInTx(ctx, tx, update)
	})
}

// UpdateMemos applies every update in a single transaction.
func (r *CashMemoRepository) UpdateMemos(ctx context.Context, updates []portsrepo.MemoUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, u := range updates {
			if err := updateInTx(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateInTx(ctx context.Context, tx *sql.Tx, update portsrepo.MemoUpdate) error {
	row, entries := mapping.ToModelCashMemo(update.Memo)

	var stored int64
	err := tx.QueryRowContext(ctx, `SELECT version FROM cash_memos WHERE memo_id = ?`, row.MemoID).Scan(&stored)
	if err != nil {
		return mapError(fmt.Sprintf("cash memo %s", row.MemoID), err)
	}
	if stored != update.PreviousVersion {
		return fmt.Errorf("%w: cash memo %s is at version %d, expected %d", apperrors.ErrConflict, row.MemoID, stored, update.PreviousVersion)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cash_memos
		SET opening_balance = ?, notes = ?, status = ?, version = ?, posted_at = ?, posted_by = ?,
			last_updated_at = ?, last_updated_by = ?
		WHERE memo_id = ?`,
		row.OpeningBalance.StringFixed(2),
		row.Notes,
		row.Status,
		row.Version,
		row.PostedAt,
		row.PostedBy,
		row.LastUpdatedAt,
		row.LastUpdatedBy,
		row.MemoID,
	)
	if err != nil {
		return mapError(fmt.Sprintf("failed to update cash memo %s", row.MemoID), err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cash_memo_entries WHERE memo_id = ?`, row.MemoID); err != nil {
		return mapError(fmt.Sprintf("failed to clear entries of cash memo %s", row.MemoID), err)
	}
	return insertEntries(ctx, tx, row.MemoID, entries)
}

func insertEntries(ctx context.Context, tx *sql.Tx, memoID string, entries []models.CashMemoEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cash_memo_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return mapError(fmt.Sprintf("failed to prepare entry insert for cash memo %s", memoID), err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.EntryID,
			e.MemoID,
			e.Kind,
			e.Position,
			e.Name,
			e.Description,
			e.Amount.StringFixed(2),
			e.PaymentMethod,
			e.Category,
			e.AccountID,
			e.AccountName,
			e.PartyID,
			e.PartyKind,
			e.PartyName,
			e.Image,
			e.CreatedAt,
		); err != nil {
			return mapError(fmt.Sprintf("entry %s of cash memo %s", e.EntryID, memoID), err)
		}
	}
	return nil
}

func (r *CashMemoRepository) findOne(ctx context.Context, where, what string, args ...any) (*domain.CashMemo, error) {
	memos, err := queryMemos(ctx, r.db, where, args...)
	if err != nil {
		return nil, err
	}
	if len(memos) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return memos[0], nil
}

func queryMemos(ctx context.Context, q queryer, where string, args ...any) ([]*domain.CashMemo, error) {
	headers, err := queryHeaders(ctx, q, where, args...)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []*domain.CashMemo{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.MemoID
	}
	entries, err := queryEntries(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	memos := make([]*domain.CashMemo, len(headers))
	for i, h := range headers {
		memos[i] = mapping.ToDomainCashMemo(h, entries[h.MemoID])
	}
	return memos, nil
}

func queryHeaders(ctx context.Context, q queryer, where string, args ...any) ([]models.CashMemo, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+memoColumns+` FROM cash_memos m `+where, args...)
	if err != nil {
		return nil, mapError("failed to query cash memos", err)
	}
	defer rows.Close()

	headers := []models.CashMemo{}
	for rows.Next() {
		var m models.CashMemo
		var memoDate string
		if err := rows.Scan(
			&m.MemoID,
			&memoDate,
			&m.OpeningBalance,
			&m.Notes,
			&m.Status,
			&m.Version,
			&m.PostedAt,
			&m.PostedBy,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, mapError("failed to scan cash memo row", err)
		}
		if m.MemoDate, err = domain.ParseDate(memoDate); err != nil {
			return nil, mapError(fmt.Sprintf("cash memo %s has a malformed date", m.MemoID), err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating cash memo rows", err)
	}
	return headers, nil
}

func queryEntries(ctx context.Context, q queryer, memoIDs []string) (map[string][]models.CashMemoEntry, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(memoIDs)), ", ")
	args := make([]any, len(memoIDs))
	for i, id := range memoIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM cash_memo_entries
		WHERE memo_id IN (`+placeholders+`)
		ORDER BY memo_id, kind, position`, args...)
	if err != nil {
		return nil, mapError("failed to query cash memo entries", err)
	}
	defer rows.Close()

	byMemo := make(map[string][]models.CashMemoEntry, len(memoIDs))
	for rows.Next() {
		var e models.CashMemoEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.MemoID,
			&e.Kind,
			&e.Position,
			&e.Name,
			&e.Description,
			&e.Amount,
			&e.PaymentMethod,
			&e.Category,
			&e.AccountID,
			&e.AccountName,
			&e.PartyID,
			&e.PartyKind,
			&e.PartyName,
			&e.Image,
			&e.CreatedAt,
		); err != nil {
			return nil, mapError("failed to scan cash memo entry row", err)
		}
		byMemo[e.MemoID] = append(byMemo[e.MemoID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating cash memo entry rows", err)
	}
	return byMemo, nil
}
