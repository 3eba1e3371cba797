package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var ErrNotGroupScope = errors.New("debts are only tracked in group scopes")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=balance
type Repository interface {
	ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	MarkNetted(ctx context.Context, scopeIDs []int64) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DebtReport computes equal-split balances over the outstanding expenses of
// sc's report set, one settlement per month of year that has any.
func (s *Service) DebtReport(ctx context.Context, sc *scope.Scope, year int, months []time.Month) ([]MonthBalances, error) {
	if !sc.IsGroup() {
		return nil, ErrNotGroupScope
	}

	txs, err := s.repo.ListTransactions(ctx, transaction.ListFilter{
		ScopeIDs:  sc.Expand(),
		Type:      new(transaction.TypeExpense),
		Year:      year,
		Months:    months,
		NotNetted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing outstanding expenses: %w", err)
	}

	return SettleMonthly(txs), nil
}

// Net marks every outstanding expense of sc's report set as settled. It
// returns how many transactions changed; a repeated call returns 0.
func (s *Service) Net(ctx context.Context, sc *scope.Scope) (int64, error) {
	n, err := s.repo.MarkNetted(ctx, sc.Expand())
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "netted transactions", "scope", sc.ID, "count", n)

	return n, nil
}
