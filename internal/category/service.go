package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, code string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name       string
	Code       string
	Icon       string
	Proportion float64
	SeedAlias  string
}

// Classify resolves description against every stored category in stored
// order, falling back to the OTHER category.
func (s *Service) Classify(ctx context.Context, description string) (*Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	var (
		candidates = make([]Category, 0, len(cats))
		fallback   *Category
	)

	for _, c := range cats {
		if c.IsFallback() {
			fallback = c
		}

		candidates = append(candidates, *c)
	}

	if fallback == nil {
		return nil, fmt.Errorf("fallback category %s: %w", FallbackCode, ErrNotFound)
	}

	got := Classify(description, candidates, *fallback)

	return &got, nil
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Get(ctx context.Context, code string) (*Category, error) {
	return s.repo.GetCategory(ctx, code)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	code := strings.TrimSpace(params.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalid)
	}

	if params.Proportion < 0 {
		return nil, fmt.Errorf("%w: proportion must not be negative", ErrInvalid)
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = code
	}

	c := &Category{
		Code:       code,
		Name:       name,
		Icon:       params.Icon,
		Aliases:    []string{},
		Proportion: decimal.NewFromFloat(params.Proportion).Round(2).InexactFloat64(),
	}

	if alias := strings.TrimSpace(params.SeedAlias); alias != "" {
		c.AddAlias(strings.ToLower(alias))
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "created category", "code", c.Code, "aliases", len(c.Aliases))

	return c, nil
}
