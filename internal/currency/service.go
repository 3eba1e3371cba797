package currency

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=currency
type Repository interface {
	GetRate(ctx context.Context, code string) (*Rate, error)
	ListRates(ctx context.Context) ([]*Rate, error)
	UpsertRate(ctx context.Context, r *Rate) error
}

type Service struct {
	repo Repository
	base string
}

func NewService(repo Repository, base string) *Service {
	return &Service{repo: repo, base: Normalize(base)}
}

func (s *Service) Base() string {
	return s.base
}

// ToBase converts amount in code to base-currency cents. An empty code
// means the amount is already in the base currency.
func (s *Service) ToBase(ctx context.Context, code string, amount decimal.Decimal) (int64, error) {
	code = Normalize(code)
	if code == "" || code == s.base {
		return Cents(amount), nil
	}

	r, err := s.repo.GetRate(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("converting %s: %w", code, err)
	}

	return Cents(amount.Mul(r.Rate)), nil
}

func (s *Service) List(ctx context.Context) ([]*Rate, error) {
	return s.repo.ListRates(ctx)
}

func (s *Service) SetRate(ctx context.Context, code string, rate decimal.Decimal) (*Rate, error) {
	code = Normalize(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalid)
	}

	if code == s.base {
		return nil, fmt.Errorf("%w: %s is the base currency", ErrInvalid, code)
	}

	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate must be positive, got %s", ErrInvalid, rate)
	}

	r := &Rate{Code: code, Rate: rate}
	if err := s.repo.UpsertRate(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}
