package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

// Store keeps transactions in Postgres. Dates are read back in loc, and
// year and month filters use loc's calendar, so every caller sees a
// transaction in the same month whatever the server or session zone.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner, loc *time.Location) (*transaction.Transaction, error) {
	var (
		tx           transaction.Transaction
		typeStr      string
		categoryCode sql.NullString
		origCurrency sql.NullString
		origAmount   decimal.NullDecimal
	)

	if err := s.Scan(
		&tx.ID, &tx.User.ID, &tx.User.Username, &tx.User.FirstName, &tx.ScopeID,
		&typeStr, &tx.Amount, &tx.Description, &categoryCode, &tx.Date, &tx.IsNetted,
		&origCurrency, &origAmount,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Date = tx.Date.In(loc)
	tx.Type = transaction.Type(typeStr)
	tx.CategoryCode = categoryCode.String
	tx.OriginalCurrency = origCurrency.String

	if origAmount.Valid {
		tx.OriginalAmount = &origAmount.Decimal
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, u.id, u.username, u.first_name, t.scope_id,
	t.type, t.amount, t.description, t.category_code, t.date, t.is_netted,
	t.original_currency, t.original_amount,
	t.created_at, t.updated_at, t.deleted_at
`

const fromTransactions = `
	FROM transactions t
	JOIN users u ON t.user_id = u.id
`

func insertArgs(tx *transaction.Transaction) []any {
	var (
		categoryCode sql.NullString
		origCurrency sql.NullString
		origAmount   decimal.NullDecimal
	)

	if tx.CategoryCode != "" {
		categoryCode = sql.NullString{String: tx.CategoryCode, Valid: true}
	}

	if tx.OriginalCurrency != "" {
		origCurrency = sql.NullString{String: tx.OriginalCurrency, Valid: true}
	}

	if tx.OriginalAmount != nil {
		origAmount = decimal.NullDecimal{Decimal: *tx.OriginalAmount, Valid: true}
	}

	return []any{
		tx.User.ID, tx.ScopeID, tx.Type, tx.Amount, tx.Description, categoryCode, tx.Date,
		origCurrency, origAmount,
	}
}

// upsertUser keeps known names when the incoming row carries none.
func upsertUser(ctx context.Context, q querier, u transaction.User) error {
	query := `
		INSERT INTO users (id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username = COALESCE(NULLIF(EXCLUDED.username, ''), users.username),
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), users.first_name)
	`

	if _, err := q.ExecContext(ctx, query, u.ID, u.Username, u.FirstName); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

func insertTransaction(ctx context.Context, q querier, tx *transaction.Transaction) error {
	if err := upsertUser(ctx, q, tx.User); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (
			user_id, scope_id, type, amount, description, category_code, date,
			original_currency, original_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	if err := q.QueryRowContext(ctx, query, insertArgs(tx)...).Scan(&tx.ID, &tx.CreatedAt); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id), s.loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// period returns the [start, end) ranges of the given months of year in
// loc, merging adjacent months. No months means the whole year; months
// outside January..December are ignored.
func period(year int, months []time.Month, loc *time.Location) [][2]time.Time {
	if len(months) == 0 {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return [][2]time.Time{{start, start.AddDate(1, 0, 0)}}
	}

	sorted := slices.Compact(slices.Sorted(slices.Values(months)))

	var ranges [][2]time.Time

	for _, m := range sorted {
		if m < time.January || m > time.December {
			continue
		}

		start := time.Date(year, m, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0)

		if n := len(ranges); n > 0 && ranges[n-1][1].Equal(start) {
			ranges[n-1][1] = end
			continue
		}

		ranges = append(ranges, [2]time.Time{start, end})
	}

	return ranges
}

// listQuery builds the ListTransactions statement. Months only apply
// together with a year.
func listQuery(filter transaction.ListFilter, loc *time.Location) (string, []any) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.ScopeIDs != nil {
		query += fmt.Sprintf(" AND t.scope_id = ANY($%d)", argIdx)

		args = append(args, filter.ScopeIDs)
		argIdx++
	}

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND t.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Year != 0 {
		ranges := period(filter.Year, filter.Months, loc)
		if len(ranges) == 0 {
			query += " AND FALSE"
		}

		conds := make([]string, 0, len(ranges))
		for _, r := range ranges {
			conds = append(conds, fmt.Sprintf("(t.date >= $%d AND t.date < $%d)", argIdx, argIdx+1))

			args = append(args, r[0], r[1])
			argIdx += 2
		}

		if len(conds) > 0 {
			query += " AND (" + strings.Join(conds, " OR ") + ")"
		}
	}

	if filter.NotNetted {
		query += " AND NOT t.is_netted"
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	return query, args
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query, args := listQuery(filter, s.loc)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows, s.loc)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	query := `
		UPDATE transactions
		SET date = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, date, id)
	if err != nil {
		return fmt.Errorf("updating date: %w", err)
	}

	return expectRow(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRow(res)
}

// MarkNetted flags every outstanding expense of the given scopes as settled
// in a single statement and reports how many rows changed.
func (s *Store) MarkNetted(ctx context.Context, scopeIDs []int64) (int64, error) {
	query := `
		UPDATE transactions
		SET is_netted = TRUE, updated_at = NOW()
		WHERE scope_id = ANY($1)
			AND type = 'expense'
			AND NOT is_netted
			AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, scopeIDs)
	if err != nil {
		return 0, fmt.Errorf("marking transactions netted: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting netted transactions: %w", err)
	}

	return n, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

type recategorizeTx struct {
	tx   *sql.Tx
	pgtm *pgtype.Map
	loc  *time.Location
}

func (s *Store) BeginRecategorize(ctx context.Context) (transaction.RecategorizeTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning recategorize tx: %w", err)
	}

	return &recategorizeTx{tx: dbTx, pgtm: pgtype.NewMap(), loc: s.loc}, nil
}

func (rtx *recategorizeTx) Commit() error   { return rtx.tx.Commit() }
func (rtx *recategorizeTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *recategorizeTx) LockTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.deleted_at IS NULL
		FOR UPDATE OF t`

	tx, err := scanTransaction(rtx.tx.QueryRowContext(ctx, query, id), rtx.loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("locking transaction: %w", err)
	}

	return tx, nil
}

func (rtx *recategorizeTx) GetCategory(ctx context.Context, code string) (*category.Category, error) {
	query := `
		SELECT code, name, icon, aliases, proportion
		FROM categories
		WHERE code = $1
		FOR UPDATE
	`

	var c category.Category

	err := rtx.tx.QueryRowContext(ctx, query, code).
		Scan(&c.Code, &c.Name, &c.Icon, rtx.pgtm.SQLScanner(&c.Aliases), &c.Proportion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return &c, nil
}

func (rtx *recategorizeTx) SetCategory(ctx context.Context, id uuid.UUID, code string) error {
	query := `
		UPDATE transactions
		SET category_code = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := rtx.tx.ExecContext(ctx, query, code, id); err != nil {
		return fmt.Errorf("setting category: %w", err)
	}

	return nil
}

func (rtx *recategorizeTx) AppendAlias(ctx context.Context, code, alias string) error {
	query := `UPDATE categories SET aliases = array_append(aliases, $1) WHERE code = $2`

	if _, err := rtx.tx.ExecContext(ctx, query, alias, code); err != nil {
		return fmt.Errorf("appending alias: %w", err)
	}

	return nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx  *sql.Tx
	loc *time.Location
}

// BeginImport serializes imports covering the same date range with an
// advisory lock held until commit.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate.In(s.loc), maxDate.In(s.loc))
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, loc: s.loc}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// FindDuplicates returns stored transactions in the params' date range that
// share day, user, scope and type with some incoming row. The service
// narrows them further by amount and description.
func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date    string
		UserID  int64
		ScopeID int64
		Type    transaction.Type
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:    p.Date.In(itx.loc).Format(time.DateOnly),
			UserID:  p.User.ID,
			ScopeID: p.ScopeID,
			Type:    p.Type,
		}] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.deleted_at IS NULL AND t.date >= $1 AND t.date < $2
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, dayStart(minDate, itx.loc), dayStart(maxDate, itx.loc).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows, itx.loc)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		k := lookupKey{
			Date:    tx.Date.Format(time.DateOnly),
			UserID:  tx.User.ID,
			ScopeID: tx.ScopeID,
			Type:    tx.Type,
		}

		if _, found := keySet[k]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insertTransaction(ctx, itx.tx, tx); err != nil {
			return err
		}
	}

	return nil
}
