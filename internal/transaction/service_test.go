package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type mocks struct {
	repo       *transaction.MockRepository
	classifier *transaction.MockClassifier
	converter  *transaction.MockConverter
}

func newMocks(ctrl *gomock.Controller) mocks {
	m := mocks{
		repo:       transaction.NewMockRepository(ctrl),
		classifier: transaction.NewMockClassifier(ctrl),
		converter:  transaction.NewMockConverter(ctrl),
	}

	m.converter.EXPECT().Base().Return("RSD").AnyTimes()
	m.converter.EXPECT().
		ToBase(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, code string, amount decimal.Decimal) (int64, error) {
			rate := decimal.NewFromInt(1)
			if code == "EUR" {
				rate = decimal.NewFromInt(117)
			}

			return amount.Mul(rate).Shift(2).Round(0).IntPart(), nil
		}).
		AnyTimes()

	return m
}

func (m mocks) service() *transaction.Service {
	return transaction.NewService(m.repo, m.classifier, m.converter)
}

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m mocks)
		check     func(t *testing.T, tx *transaction.Transaction)
		wantErr   bool
	}

	user := transaction.User{ID: 1, Username: "alice"}
	date := time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "ExpenseIsClassified",
			args: args{
				params: transaction.CreateParams{
					User:        user,
					ScopeID:     3,
					Type:        transaction.TypeExpense,
					Amount:      decimal.RequireFromString("12.50"),
					Description: " Lidl ",
					Date:        date,
				},
			},
			setupMock: func(m mocks) {
				m.classifier.EXPECT().
					Classify(gomock.Any(), "Lidl").
					Return(&category.Category{Code: "FOOD"}, nil)
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
			check: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "FOOD", tx.CategoryCode)
				assert.Equal(t, int64(1250), tx.Amount)
				assert.Empty(t, tx.OriginalCurrency)
				assert.Nil(t, tx.OriginalAmount)
			},
		},
		{
			name: "ForeignCurrencyKeepsOriginal",
			args: args{
				params: transaction.CreateParams{
					User:         user,
					Type:         transaction.TypeExpense,
					Amount:       decimal.RequireFromString("10"),
					Currency:     "eur",
					CategoryCode: "TRAVEL",
					Date:         date,
				},
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "TRAVEL", tx.CategoryCode)
				assert.Equal(t, int64(117000), tx.Amount)
				assert.Equal(t, "EUR", tx.OriginalCurrency)
				require.NotNil(t, tx.OriginalAmount)
				assert.True(t, tx.OriginalAmount.Equal(decimal.NewFromInt(10)))
			},
		},
		{
			name: "IncomeHasNoCategory",
			args: args{
				params: transaction.CreateParams{
					User:        user,
					Type:        transaction.TypeIncome,
					Amount:      decimal.NewFromInt(1000),
					Description: "salary",
					Date:        date,
				},
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, tx *transaction.Transaction) {
				assert.Empty(t, tx.CategoryCode)
				assert.Equal(t, transaction.TypeIncome, tx.Type)
			},
		},
		{
			name: "NonPositiveAmount",
			args: args{
				params: transaction.CreateParams{Type: transaction.TypeExpense, Amount: decimal.Zero},
			},
			setupMock: func(m mocks) {},
			wantErr:   true,
		},
		{
			name: "InvalidType",
			args: args{
				params: transaction.CreateParams{Type: "refund", Amount: decimal.NewFromInt(1)},
			},
			setupMock: func(m mocks) {},
			wantErr:   true,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Type:         transaction.TypeExpense,
					Amount:       decimal.NewFromInt(5),
					CategoryCode: "FOOD",
				},
			},
			setupMock: func(m mocks) {
				m.repo.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			m := newMocks(ctrl)
			tt.setupMock(m)

			got, err := m.service().Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_ChangeCategory(t *testing.T) {
	id := uuid.New()
	other := &category.Category{Code: category.FallbackCode}
	food := &category.Category{Code: "FOOD"}
	cafe := &category.Category{Code: "CAFE"}

	type testCase struct {
		name      string
		stored    *transaction.Transaction
		target    string
		setupMock func(rtx *transaction.MockRecategorizeTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "LearnsAliasFromFallback",
			stored: &transaction.Transaction{ID: id, Type: transaction.TypeExpense, CategoryCode: "OTHER", Description: "Mega Market"},
			target: "FOOD",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {
				rtx.EXPECT().GetCategory(gomock.Any(), "OTHER").Return(other, nil)
				rtx.EXPECT().GetCategory(gomock.Any(), "FOOD").Return(food, nil)
				rtx.EXPECT().SetCategory(gomock.Any(), id, "FOOD").Return(nil)
				rtx.EXPECT().AppendAlias(gomock.Any(), "FOOD", "mega market").Return(nil)
				rtx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "NoAliasBetweenRealCategories",
			stored: &transaction.Transaction{ID: id, Type: transaction.TypeExpense, CategoryCode: "CAFE", Description: "Mega Market"},
			target: "FOOD",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {
				rtx.EXPECT().GetCategory(gomock.Any(), "CAFE").Return(cafe, nil)
				rtx.EXPECT().GetCategory(gomock.Any(), "FOOD").Return(food, nil)
				rtx.EXPECT().SetCategory(gomock.Any(), id, "FOOD").Return(nil)
				rtx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "NoAliasWithoutDescription",
			stored: &transaction.Transaction{ID: id, Type: transaction.TypeExpense, CategoryCode: "OTHER"},
			target: "FOOD",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {
				rtx.EXPECT().GetCategory(gomock.Any(), "OTHER").Return(other, nil)
				rtx.EXPECT().GetCategory(gomock.Any(), "FOOD").Return(food, nil)
				rtx.EXPECT().SetCategory(gomock.Any(), id, "FOOD").Return(nil)
				rtx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:      "Income",
			stored:    &transaction.Transaction{ID: id, Type: transaction.TypeIncome},
			target:    "FOOD",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {},
			wantErr:   transaction.ErrNotExpense,
		},
		{
			name:   "UnknownTarget",
			stored: &transaction.Transaction{ID: id, Type: transaction.TypeExpense, CategoryCode: "OTHER", Description: "x"},
			target: "NOPE",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {
				rtx.EXPECT().GetCategory(gomock.Any(), "OTHER").Return(other, nil)
				rtx.EXPECT().GetCategory(gomock.Any(), "NOPE").Return(nil, category.ErrNotFound)
			},
			wantErr: category.ErrNotFound,
		},
		{
			name:   "AliasFailureAbortsReassignment",
			stored: &transaction.Transaction{ID: id, Type: transaction.TypeExpense, CategoryCode: "OTHER", Description: "x"},
			target: "FOOD",
			setupMock: func(rtx *transaction.MockRecategorizeTx) {
				rtx.EXPECT().GetCategory(gomock.Any(), "OTHER").Return(other, nil)
				rtx.EXPECT().GetCategory(gomock.Any(), "FOOD").Return(food, nil)
				rtx.EXPECT().SetCategory(gomock.Any(), id, "FOOD").Return(nil)
				rtx.EXPECT().AppendAlias(gomock.Any(), "FOOD", "x").Return(errBoom)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			m := newMocks(ctrl)
			rtx := transaction.NewMockRecategorizeTx(ctrl)

			m.repo.EXPECT().BeginRecategorize(gomock.Any()).Return(rtx, nil)
			rtx.EXPECT().LockTransaction(gomock.Any(), id).Return(tt.stored, nil)
			rtx.EXPECT().Rollback().Return(nil)
			tt.setupMock(rtx)

			got, err := m.service().ChangeCategory(context.Background(), id, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.target, got.CategoryCode)
		})
	}
}

var errBoom = errors.New("boom")

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{ScopeIDs: []int64{1}}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{ScopeIDs: []int64{1}}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			m := newMocks(ctrl)
			tt.setupMock(m.repo)

			got, err := m.service().List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_UserTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newMocks(ctrl)

	sc := &scope.Scope{ID: 2, Type: scope.TypePrivate, ReportScopes: []int64{1, 2}}
	months := []time.Month{time.March}

	m.repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			assert.Equal(t, []int64{1, 2}, f.ScopeIDs)
			require.NotNil(t, f.UserID)
			assert.Equal(t, int64(9), *f.UserID)
			require.NotNil(t, f.Type)
			assert.Equal(t, transaction.TypeExpense, *f.Type)
			assert.Equal(t, 2024, f.Year)
			assert.Equal(t, months, f.Months)

			return []*transaction.Transaction{{ID: uuid.New()}}, nil
		})

	got, err := m.service().UserTransactions(context.Background(), sc, 9, 2024, months)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := newMocks(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			User:        transaction.User{ID: 1},
			ScopeID:     1,
			Amount:      decimal.NewFromInt(10),
			Type:        transaction.TypeExpense,
			Description: "Coffee",
			Date:        date,
		},
		{
			User:        transaction.User{ID: 2},
			ScopeID:     1,
			Amount:      decimal.NewFromInt(4),
			Type:        transaction.TypeExpense,
			Description: "Coffee",
			Date:        date,
		},
	}

	m.classifier.EXPECT().Classify(gomock.Any(), "Coffee").Return(&category.Category{Code: "CAFE"}, nil).Times(1)
	m.repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := m.service().ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
	assert.Equal(t, "CAFE", result.Imported[1].CategoryCode)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := newMocks(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			User:         transaction.User{ID: 1},
			ScopeID:      1,
			Amount:       decimal.NewFromInt(10),
			Type:         transaction.TypeExpense,
			Description:  "Coffee",
			CategoryCode: "CAFE",
			Date:         date,
		},
		{
			User:         transaction.User{ID: 1},
			ScopeID:      1,
			Amount:       decimal.NewFromInt(20),
			Type:         transaction.TypeExpense,
			Description:  "Lunch",
			CategoryCode: "FOOD",
			Date:         date,
		},
	}

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		User:        transaction.User{ID: 1},
		ScopeID:     1,
		Amount:      1000,
		Type:        transaction.TypeExpense,
		Description: "Coffee",
		Date:        date,
	}

	m.repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := m.service().ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)

	result, err := newMocks(ctrl).service().ImportBatch(context.Background(), []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := newMocks(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			User:     transaction.User{ID: 1},
			Amount:   decimal.RequireFromString("1000"),
			Type:     transaction.TypeIncome,
			Currency: "RSD",
			Date:     date,
		},
	}

	m.repo.EXPECT().BeginImport(gomock.Any(), date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := m.service().CreateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(100000), txs[0].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
	assert.Empty(t, txs[0].OriginalCurrency)
}

func TestService_MarkNetted(t *testing.T) {
	ctrl := gomock.NewController(t)

	m := newMocks(ctrl)
	m.repo.EXPECT().MarkNetted(gomock.Any(), []int64{4}).Return(int64(3), nil)

	n, err := m.service().MarkNetted(context.Background(), []int64{4})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
