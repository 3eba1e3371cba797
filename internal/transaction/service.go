package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateDate(ctx context.Context, id uuid.UUID, date time.Time) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	MarkNetted(ctx context.Context, scopeIDs []int64) (int64, error)

	BeginRecategorize(ctx context.Context) (RecategorizeTx, error)
	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// RecategorizeTx reassigns a transaction's category and records the learned
// alias in one database transaction.
type RecategorizeTx interface {
	LockTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetCategory(ctx context.Context, code string) (*category.Category, error)
	SetCategory(ctx context.Context, id uuid.UUID, code string) error
	AppendAlias(ctx context.Context, code, alias string) error
	Commit() error
	Rollback() error
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Classifier interface {
	Classify(ctx context.Context, description string) (*category.Category, error)
}

type Converter interface {
	Base() string
	ToBase(ctx context.Context, code string, amount decimal.Decimal) (int64, error)
}

type Service struct {
	repo       Repository
	classifier Classifier
	converter  Converter
}

func NewService(repo Repository, classifier Classifier, converter Converter) *Service {
	return &Service{repo: repo, classifier: classifier, converter: converter}
}

// CreateParams describes a transaction as entered. Amount is in Currency,
// or in the base currency when Currency is empty. CategoryCode overrides
// classification for expenses.
type CreateParams struct {
	User         User
	ScopeID      int64
	Type         Type
	Amount       decimal.Decimal
	Currency     string
	Description  string
	CategoryCode string
	Date         time.Time
}

// ListFilter selects stored transactions. Months narrows Year and is
// ignored without it.
type ListFilter struct {
	ScopeIDs  []int64
	UserID    *int64
	Type      *Type
	Year      int
	Months    []time.Month
	NotNetted bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := s.build(ctx, params, nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// build validates params, converts the amount and classifies expenses.
// memo caches classification results by description within a batch.
func (s *Service) build(ctx context.Context, p CreateParams, memo map[string]string) (*Transaction, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, p.Type)
	}

	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalid, p.Amount)
	}

	if p.Date.IsZero() {
		p.Date = time.Now()
	}

	tx := &Transaction{
		User:        p.User,
		ScopeID:     p.ScopeID,
		Type:        p.Type,
		Description: strings.TrimSpace(p.Description),
		Date:        p.Date,
	}

	amount, err := s.converter.ToBase(ctx, p.Currency, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("converting amount: %w", err)
	}

	tx.Amount = amount

	if p.Currency != "" && !strings.EqualFold(p.Currency, s.converter.Base()) {
		tx.OriginalCurrency = strings.ToUpper(p.Currency)
		tx.OriginalAmount = new(p.Amount)
	}

	if tx.Type == TypeIncome {
		return tx, nil
	}

	tx.CategoryCode = p.CategoryCode
	if tx.CategoryCode != "" {
		return tx, nil
	}

	if code, ok := memo[tx.Description]; ok {
		tx.CategoryCode = code
		return tx, nil
	}

	c, err := s.classifier.Classify(ctx, tx.Description)
	if err != nil {
		return nil, fmt.Errorf("classifying transaction: %w", err)
	}

	tx.CategoryCode = c.Code
	if memo != nil {
		memo[tx.Description] = c.Code
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// UserTransactions lists one user's expenses across the scope's report set.
func (s *Service) UserTransactions(ctx context.Context, sc *scope.Scope, userID int64, year int, months []time.Month) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{
		ScopeIDs: sc.Expand(),
		UserID:   &userID,
		Type:     new(TypeExpense),
		Year:     year,
		Months:   months,
	})
}

func (s *Service) ChangeDate(ctx context.Context, id uuid.UUID, date time.Time) error {
	return s.repo.UpdateDate(ctx, id, date)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) MarkNetted(ctx context.Context, scopeIDs []int64) (int64, error) {
	return s.repo.MarkNetted(ctx, scopeIDs)
}

// ChangeCategory moves an expense to another category. When it leaves the
// fallback category, its lowercased description becomes an alias of the new
// category so similar expenses are classified there next time.
func (s *Service) ChangeCategory(ctx context.Context, id uuid.UUID, code string) (*Transaction, error) {
	rtx, err := s.repo.BeginRecategorize(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin recategorize: %w", err)
	}
	defer rtx.Rollback()

	tx, err := rtx.LockTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Type != TypeExpense {
		return nil, ErrNotExpense
	}

	old, err := rtx.GetCategory(ctx, tx.CategoryCode)
	if err != nil {
		return nil, fmt.Errorf("loading current category: %w", err)
	}

	updated, err := rtx.GetCategory(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("loading target category: %w", err)
	}

	if err := rtx.SetCategory(ctx, id, updated.Code); err != nil {
		return nil, err
	}

	alias, learned := category.Learned(*old, *updated, tx.Description)
	if learned {
		if err := rtx.AppendAlias(ctx, updated.Code, alias); err != nil {
			return nil, err
		}
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recategorize: %w", err)
	}

	if learned {
		slog.InfoContext(ctx, "learned category alias", "category", updated.Code, "alias", alias)
	}

	tx.CategoryCode = updated.Code

	return tx, nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date        string
	UserID      int64
	ScopeID     int64
	Type        Type
	Description string
}

func keyOf(date time.Time, userID, scopeID int64, typ Type, description string) dupKey {
	return dupKey{
		Date:        date.Format(time.DateOnly),
		UserID:      userID,
		ScopeID:     scopeID,
		Type:        typ,
		Description: strings.TrimSpace(description),
	}
}

// ImportBatch inserts params unless some of them already exist. When any
// conflict is found nothing is written and the caller decides with
// CreateBatch which rows to keep.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	txs, err := s.buildAll(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	type existingKey struct {
		dupKey
		Amount int64
	}

	lookup := make(map[existingKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[existingKey{keyOf(d.Date, d.User.ID, d.ScopeID, d.Type, d.Description), d.Amount}] = d
	}

	var (
		newParams []CreateParams
		newTxs    []*Transaction
		conflicts []Conflict
	)

	for i, p := range params {
		k := existingKey{keyOf(p.Date, p.User.ID, p.ScopeID, p.Type, p.Description), txs[i].Amount}

		if existing, found := lookup[k]; found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
		newTxs = append(newTxs, txs[i])
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := itx.CreateTransactions(ctx, newTxs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: newTxs}, nil
}

// CreateBatch inserts every params entry atomically, without duplicate checks.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs, err := s.buildAll(ctx, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func (s *Service) buildAll(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	memo := make(map[string]string)
	txs := make([]*Transaction, len(params))

	for i, p := range params {
		tx, err := s.build(ctx, p, memo)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs[i] = tx
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}
