package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cash_memo_ledger/internal/models"
	"github.com/SscSPs/cash_memo_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memoColumns = `memo_id, memo_date, opening_balance, notes, status, version, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, memo_id, kind, position, name, description, amount, payment_method,
	category, account_id, account_name, party_id, party_kind, party_name, image, created_at`

// partyFilter matches memos holding at least one entry that references a party of
// kind $1, restricted to party $2 unless $2 is empty. Account references live in
// their own columns.
const partyFilter = `EXISTS (
	SELECT 1 FROM cash_memo_entries e
	WHERE e.memo_id = m.memo_id AND (
		(e.party_kind = $1 AND ($2 = '' OR e.party_id = $2))
		OR ($1 = 'account' AND e.account_id IS NOT NULL AND ($2 = '' OR e.account_id = $2))
	)
)`

// PgxCashMemoRepository stores cash memos in PostgreSQL. Each memo is a header row
// in cash_memos plus its entries in cash_memo_entries.
type PgxCashMemoRepository struct {
	BaseRepository
}

func newPgxCashMemoRepository(pool *pgxpool.Pool) *PgxCashMemoRepository {
	return &PgxCashMemoRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CashMemoRepositoryFacade = (*PgxCashMemoRepository)(nil)

// FindMemoByID retrieves a cash memo by its ID.
func (r *PgxCashMemoRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.CashMemo, error) {
	return r.findOne(ctx, r.Pool, "WHERE m.memo_id = $1", fmt.Sprintf("cash memo %s", memoID), memoID)
}

// FindMemoByDate retrieves the cash memo for date.
func (r *PgxCashMemoRepository) FindMemoByDate(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return r.findOne(ctx, r.Pool, "WHERE m.memo_date = $1", fmt.Sprintf("cash memo for %s", domain.FormatDate(date)), domain.NormalizeDate(date))
}

// FindLatestMemoBefore retrieves the most recent cash memo strictly before date.
func (r *PgxCashMemoRepository) FindLatestMemoBefore(ctx context.Context, date time.Time) (*domain.CashMemo, error) {
	return r.findOne(ctx, r.Pool, "WHERE m.memo_date < $1 ORDER BY m.memo_date DESC LIMIT 1",
		fmt.Sprintf("cash memo before %s", domain.FormatDate(date)), domain.NormalizeDate(date))
}

// ListMemosInRange retrieves memos dated within [start, end].
func (r *PgxCashMemoRepository) ListMemosInRange(ctx context.Context, start, end time.Time) ([]*domain.CashMemo, error) {
	return r.queryMemos(ctx, r.Pool, "WHERE m.memo_date BETWEEN $1 AND $2 ORDER BY m.memo_date",
		domain.NormalizeDate(start), domain.NormalizeDate(end))
}

// ListMemosFrom retrieves memos dated on or after from.
func (r *PgxCashMemoRepository) ListMemosFrom(ctx context.Context, from time.Time) ([]*domain.CashMemo, error) {
	return r.queryMemos(ctx, r.Pool, "WHERE m.memo_date >= $1 ORDER BY m.memo_date", domain.NormalizeDate(from))
}

// ListMemosByPartyKind retrieves memos with at least one entry referencing a party of kind.
func (r *PgxCashMemoRepository) ListMemosByPartyKind(ctx context.Context, kind domain.PartyKind) ([]*domain.CashMemo, error) {
	return r.queryMemos(ctx, r.Pool, "WHERE "+partyFilter+" ORDER BY m.memo_date", string(kind), "")
}

// ListMemosByParty retrieves memos with at least one entry referencing the given party.
func (r *PgxCashMemoRepository) ListMemosByParty(ctx context.Context, kind domain.PartyKind, partyID string) ([]*domain.CashMemo, error) {
	return r.queryMemos(ctx, r.Pool, "WHERE "+partyFilter+" ORDER BY m.memo_date", string(kind), partyID)
}

// SaveMemo inserts a memo and its entries in one transaction.
func (r *PgxCashMemoRepository) SaveMemo(ctx context.Context, memo domain.CashMemo) error {
	row, entries := mapping.ToModelCashMemo(memo)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO cash_memos (` + memoColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err := tx.Exec(ctx, query,
			row.MemoID,
			row.MemoDate,
			row.OpeningBalance,
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
			return mapError(fmt.Sprintf("failed to insert cash memo for %s", domain.FormatDate(row.MemoDate)), err)
		}
		return insertEntries(ctx, tx, row.MemoID, entries)
	})
}

// UpdateMemo rewrites a memo when its stored version still matches.
func (r *PgxCashMemoRepository) UpdateMemo(ctx context.Context, update portsrepo.MemoUpdate) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		return updateInTx(ctx, tx, update)
	})
}

// UpdateMemos applies every update in a single transaction.
func (r *PgxCashMemoRepository) UpdateMemos(ctx context.Context, updates []portsrepo.MemoUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		for _, u := range updates {
			if err := updateInTx(ctx, tx, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateInTx(ctx context.Context, tx pgx.Tx, update portsrepo.MemoUpdate) error {
	row, entries := mapping.ToModelCashMemo(update.Memo)

	// Lock the header so concurrent writers to the same day queue up behind us.
	var stored int64
	err := tx.QueryRow(ctx, `SELECT version FROM cash_memos WHERE memo_id = $1 FOR UPDATE;`, row.MemoID).Scan(&stored)
	if err != nil {
		return mapError(fmt.Sprintf("cash memo %s", row.MemoID), err)
	}
	if stored != update.PreviousVersion {
		return fmt.Errorf("%w: cash memo %s is at version %d, expected %d", apperrors.ErrConflict, row.MemoID, stored, update.PreviousVersion)
	}

	query := `
		UPDATE cash_memos
		SET opening_balance = $2, notes = $3, status = $4, version = $5, posted_at = $6, posted_by = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE memo_id = $1;
	`
	if _, err := tx.Exec(ctx, query,
		row.MemoID,
		row.OpeningBalance,
		row.Notes,
		row.Status,
		row.Version,
		row.PostedAt,
		row.PostedBy,
		row.LastUpdatedAt,
		row.LastUpdatedBy,
	); err != nil {
		return mapError(fmt.Sprintf("failed to update cash memo %s", row.MemoID), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cash_memo_entries WHERE memo_id = $1;`, row.MemoID); err != nil {
		return mapError(fmt.Sprintf("failed to clear entries of cash memo %s", row.MemoID), err)
	}
	return insertEntries(ctx, tx, row.MemoID, entries)
}

func insertEntries(ctx context.Context, tx pgx.Tx, memoID string, entries []models.CashMemoEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO cash_memo_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, e := range entries {
		batch.Queue(query,
			e.EntryID,
			e.MemoID,
			e.Kind,
			e.Position,
			e.Name,
			e.Description,
			e.Amount,
			e.PaymentMethod,
			e.Category,
			e.AccountID,
			e.AccountName,
			e.PartyID,
			e.PartyKind,
			e.PartyName,
			e.Image,
			e.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(fmt.Sprintf("failed to insert entries of cash memo %s", memoID), err)
	}
	return nil
}

func (r *PgxCashMemoRepository) findOne(ctx context.Context, q querier, where, what string, args ...any) (*domain.CashMemo, error) {
	memos, err := r.queryMemos(ctx, q, where, args...)
	if err != nil {
		return nil, err
	}
	if len(memos) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return memos[0], nil
}

// queryMemos loads the headers selected by where and then every entry they own.
func (r *PgxCashMemoRepository) queryMemos(ctx context.Context, q querier, where string, args ...any) ([]*domain.CashMemo, error) {
	rows, err := q.Query(ctx, `SELECT `+memoColumns+` FROM cash_memos m `+where+`;`, args...)
	if err != nil {
		return nil, mapError("failed to query cash memos", err)
	}
	defer rows.Close()

	headers := []models.CashMemo{}
	for rows.Next() {
		var m models.CashMemo
		if err := rows.Scan(
			&m.MemoID,
			&m.MemoDate,
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
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("error iterating cash memo rows", err)
	}
	rows.Close()

	if len(headers) == 0 {
		return []*domain.CashMemo{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.MemoID
	}
	entries, err := r.queryEntries(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	memos := make([]*domain.CashMemo, len(headers))
	for i, h := range headers {
		memos[i] = mapping.ToDomainCashMemo(h, entries[h.MemoID])
	}
	return memos, nil
}

func (r *PgxCashMemoRepository) queryEntries(ctx context.Context, q querier, memoIDs []string) (map[string][]models.CashMemoEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM cash_memo_entries
		WHERE memo_id = ANY($1)
		ORDER BY memo_id, kind, position;
	`
	rows, err := q.Query(ctx, query, memoIDs)
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
