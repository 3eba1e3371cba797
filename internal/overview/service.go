package overview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=overview
type ScopeResolver interface {
	ResolveByChat(ctx context.Context, chatID int64) (*scope.Scope, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, scopeIDs []int64, year int, months []time.Month) (*report.Summary, error)
	Income(ctx context.Context, scopeIDs []int64, year int, months []time.Month) ([]report.UserSum, error)
}

type BudgetLister interface {
	List(ctx context.Context, sc *scope.Scope) ([]*budget.Budget, error)
}

type Service struct {
	scopes     ScopeResolver
	summarizer Summarizer
	budgets    BudgetLister
	calc       *proportion.Calculator
}

func NewService(scopes ScopeResolver, summarizer Summarizer, budgets BudgetLister, calc *proportion.Calculator) *Service {
	return &Service{scopes: scopes, summarizer: summarizer, budgets: budgets, calc: calc}
}

// Monthly builds one overview per requested month of year for the chat's
// scope. The year's expenses are loaded once and narrowed per month.
func (s *Service) Monthly(ctx context.Context, chatID int64, year int, months []time.Month) (*Monthly, error) {
	for _, m := range months {
		if m < time.January || m > time.December {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, m)
		}
	}

	sc, err := s.scopes.ResolveByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	ids := sc.Expand()

	var (
		summary *report.Summary
		budgets []*budget.Budget
		income  = make([][]report.UserSum, len(months))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		summary, err = s.summarizer.Summarize(gctx, ids, year, months)
		if err != nil {
			return fmt.Errorf("summarizing %d: %w", year, err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		budgets, err = s.budgets.List(gctx, sc)
		if err != nil {
			return fmt.Errorf("listing budgets: %w", err)
		}

		return nil
	})

	for i, m := range months {
		g.Go(func() error {
			var err error

			income[i], err = s.summarizer.Income(gctx, ids, year, []time.Month{m})
			if err != nil {
				return fmt.Errorf("summarizing income for %s: %w", m, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCode := budgetsByCategory(budgets)
	out := &Monthly{Scope: sc, Year: year, Months: make([]MonthOverview, 0, len(months))}

	for i, m := range months {
		ms := summary.Narrow([]time.Month{m})

		out.Months = append(out.Months, MonthOverview{
			Month:       m,
			Total:       ms.Total(),
			Users:       ms.Users,
			Categories:  monthLines(ms, m, byCode),
			Income:      income[i],
			Proportions: s.calc.For(sc, ms),
		})
	}

	return out, nil
}

// Yearly summarizes the whole of year for the chat's scope.
func (s *Service) Yearly(ctx context.Context, chatID int64, year int) (*Yearly, error) {
	sc, err := s.scopes.ResolveByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	ids := sc.Expand()

	var (
		summary *report.Summary
		budgets []*budget.Budget
		income  []report.UserSum
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		summary, err = s.summarizer.Summarize(gctx, ids, year, nil)
		if err != nil {
			return fmt.Errorf("summarizing %d: %w", year, err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		budgets, err = s.budgets.List(gctx, sc)
		if err != nil {
			return fmt.Errorf("listing budgets: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		income, err = s.summarizer.Income(gctx, ids, year, nil)
		if err != nil {
			return fmt.Errorf("summarizing income: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Yearly{
		Scope:       sc,
		Year:        year,
		Total:       summary.Total(),
		Users:       summary.Users,
		Categories:  yearLines(summary, budgetsByCategory(budgets)),
		Income:      income,
		Proportions: s.calc.For(sc, summary),
	}, nil
}
