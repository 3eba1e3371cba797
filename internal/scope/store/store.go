package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type Store struct {
	db   *sql.DB
	pgtm *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, pgtm: pgtype.NewMap()}
}

func (s *Store) GetByChatID(ctx context.Context, chatID int64) (*scope.Scope, error) {
	query := `
		SELECT id, type, chat_id, report_scopes
		FROM scopes
		WHERE chat_id = $1
	`

	var (
		sc      scope.Scope
		typeStr string
	)

	err := s.db.QueryRowContext(ctx, query, chatID).
		Scan(&sc.ID, &typeStr, &sc.ChatID, s.pgtm.SQLScanner(&sc.ReportScopes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, scope.ErrNotFound
		}

		return nil, fmt.Errorf("getting scope: %w", err)
	}

	sc.Type = scope.Type(typeStr)

	return &sc, nil
}

func (s *Store) CreateScope(ctx context.Context, sc *scope.Scope) error {
	query := `
		INSERT INTO scopes (type, chat_id, report_scopes)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, sc.Type, sc.ChatID, nonNil(sc.ReportScopes)).Scan(&sc.ID)
	if err != nil {
		return fmt.Errorf("creating scope: %w", err)
	}

	return nil
}

func (s *Store) UpdateReportScopes(ctx context.Context, id int64, reportScopes []int64) error {
	query := `UPDATE scopes SET report_scopes = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, nonNil(reportScopes), id)
	if err != nil {
		return fmt.Errorf("updating report scopes: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return scope.ErrNotFound
	}

	return nil
}

// nonNil keeps pgx from encoding an empty selection as NULL.
func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}

	return ids
}
