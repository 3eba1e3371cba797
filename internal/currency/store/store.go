package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/fillbook/internal/currency"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRate(ctx context.Context, code string) (*currency.Rate, error) {
	query := `SELECT code, rate FROM currency_rates WHERE code = $1`

	var r currency.Rate

	err := s.db.QueryRowContext(ctx, query, code).Scan(&r.Code, &r.Rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, currency.ErrUnknownRate
		}

		return nil, fmt.Errorf("getting rate: %w", err)
	}

	return &r, nil
}

func (s *Store) ListRates(ctx context.Context) ([]*currency.Rate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, rate FROM currency_rates ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}
	defer rows.Close()

	var rates []*currency.Rate

	for rows.Next() {
		var r currency.Rate
		if err := rows.Scan(&r.Code, &r.Rate); err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}

		rates = append(rates, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rates: %w", err)
	}

	return rates, nil
}

func (s *Store) UpsertRate(ctx context.Context, r *currency.Rate) error {
	query := `
		INSERT INTO currency_rates (code, rate)
		VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET rate = EXCLUDED.rate
	`

	if _, err := s.db.ExecContext(ctx, query, r.Code, r.Rate); err != nil {
		return fmt.Errorf("upserting rate: %w", err)
	}

	return nil
}
