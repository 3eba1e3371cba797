package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
)

const uniqueViolation = "23505"

type Store struct {
	db   *sql.DB
	pgtm *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, pgtm: pgtype.NewMap()}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanCategory(sc scanner) (*category.Category, error) {
	var c category.Category

	if err := sc.Scan(&c.Code, &c.Name, &c.Icon, s.pgtm.SQLScanner(&c.Aliases), &c.Proportion); err != nil {
		return nil, err
	}

	return &c, nil
}

const selectCategoryColumns = `code, name, icon, aliases, proportion`

// ListCategories returns categories in the order they were created, which
// is the order classification tries them in.
func (s *Store) ListCategories(ctx context.Context) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := s.scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

func (s *Store) GetCategory(ctx context.Context, code string) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE code = $1`

	c, err := s.scanCategory(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (code, name, icon, aliases, proportion)
		VALUES ($1, $2, $3, $4, $5)
	`

	aliases := c.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	_, err := s.db.ExecContext(ctx, query, c.Code, c.Name, c.Icon, aliases, c.Proportion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return category.ErrDuplicate
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}
