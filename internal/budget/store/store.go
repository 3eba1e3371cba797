package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var (
		b                       budget.Budget
		monthly, quarter, yearL sql.NullInt64
	)

	if err := s.Scan(&b.ID, &b.ScopeID, &b.CategoryCode, &monthly, &quarter, &yearL); err != nil {
		return nil, err
	}

	b.MonthlyLimit = ptr(monthly)
	b.QuarterLimit = ptr(quarter)
	b.YearLimit = ptr(yearL)

	return &b, nil
}

func ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}

	return &v.Int64
}

const selectBudgetColumns = `id, scope_id, category_code, monthly_limit, quarter_limit, year_limit`

func (s *Store) GetBudget(ctx context.Context, scopeID int64, code string) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE scope_id = $1 AND category_code = $2`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, scopeID, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, scopeID int64) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE scope_id = $1 ORDER BY category_code ASC`

	rows, err := s.db.QueryContext(ctx, query, scopeID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return budgets, nil
}

func (s *Store) UpsertBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (scope_id, category_code, monthly_limit, quarter_limit, year_limit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (scope_id, category_code) DO UPDATE SET
			monthly_limit = EXCLUDED.monthly_limit,
			quarter_limit = EXCLUDED.quarter_limit,
			year_limit = EXCLUDED.year_limit
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		b.ScopeID, b.CategoryCode, b.MonthlyLimit, b.QuarterLimit, b.YearLimit,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}

	return nil
}
