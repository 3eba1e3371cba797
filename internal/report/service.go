package report

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type TransactionLister interface {
	ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]*category.Category, error)
}

type Service struct {
	txs  TransactionLister
	cats CategoryLister
}

func NewService(txs TransactionLister, cats CategoryLister) *Service {
	return &Service{txs: txs, cats: cats}
}

// Summarize loads the year's expenses for scopeIDs once and aggregates
// them for the requested months.
func (s *Service) Summarize(ctx context.Context, scopeIDs []int64, year int, months []time.Month) (*Summary, error) {
	txs, err := s.txs.ListTransactions(ctx, transaction.ListFilter{
		ScopeIDs: scopeIDs,
		Type:     new(transaction.TypeExpense),
		Year:     year,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	cats, err := s.cats.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return Aggregate(year, months, txs, cats), nil
}

func (s *Service) Income(ctx context.Context, scopeIDs []int64, year int, months []time.Month) ([]UserSum, error) {
	txs, err := s.txs.ListTransactions(ctx, transaction.ListFilter{
		ScopeIDs: scopeIDs,
		Type:     new(transaction.TypeIncome),
		Year:     year,
		Months:   normalizeMonths(months),
	})
	if err != nil {
		return nil, fmt.Errorf("listing income: %w", err)
	}

	return AggregateIncome(year, months, txs), nil
}
