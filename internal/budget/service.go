package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	GetBudget(ctx context.Context, scopeID int64, code string) (*Budget, error)
	ListBudgets(ctx context.Context, scopeID int64) ([]*Budget, error)
	UpsertBudget(ctx context.Context, b *Budget) error
}

type Summarizer interface {
	Summarize(ctx context.Context, scopeIDs []int64, year int, months []time.Month) (*report.Summary, error)
}

type Service struct {
	repo       Repository
	summarizer Summarizer
}

func NewService(repo Repository, summarizer Summarizer) *Service {
	return &Service{repo: repo, summarizer: summarizer}
}

// BudgetFor returns the budget of code in sc, or nil when none is set.
func (s *Service) BudgetFor(ctx context.Context, code string, sc *scope.Scope) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, sc.ID, code)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

// UsageFor reports the spend of code across sc's report set for the month,
// quarter and year containing asOf, next to the matching limits.
func (s *Service) UsageFor(ctx context.Context, code string, sc *scope.Scope, asOf time.Time) (*Usage, error) {
	b, err := s.BudgetFor(ctx, code, sc)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, sc.Expand(), asOf.Year(), []time.Month{asOf.Month()})
	if err != nil {
		return nil, fmt.Errorf("summarizing spend: %w", err)
	}

	sum, _ := summary.Category(code)
	u := b.Usage(sum, asOf.Month())

	return &u, nil
}

func (s *Service) List(ctx context.Context, sc *scope.Scope) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, sc.ID)
}

// SetLimits replaces all three limits of code in sc.
func (s *Service) SetLimits(ctx context.Context, sc *scope.Scope, code string, limits Limits) (*Budget, error) {
	for _, l := range []*int64{limits.Monthly, limits.Quarter, limits.Year} {
		if l != nil && *l < 0 {
			return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalid, *l)
		}
	}

	b := &Budget{
		ScopeID:      sc.ID,
		CategoryCode: code,
		MonthlyLimit: limits.Monthly,
		QuarterLimit: limits.Quarter,
		YearLimit:    limits.Year,
	}

	if err := s.repo.UpsertBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}
