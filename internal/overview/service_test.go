package overview_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var (
	minor = transaction.User{ID: 10, Username: "minor"}
	major = transaction.User{ID: 20, Username: "major"}
)

func at(m time.Month) time.Time {
	return time.Date(2024, m, 15, 0, 0, 0, 0, time.UTC)
}

func summary(months []time.Month) *report.Summary {
	txs := []*transaction.Transaction{
		{User: minor, Type: transaction.TypeExpense, CategoryCode: "FOOD", Amount: 300, Date: at(time.January)},
		{User: major, Type: transaction.TypeExpense, CategoryCode: "FOOD", Amount: 700, Date: at(time.January)},
		{User: major, Type: transaction.TypeExpense, CategoryCode: "HOME", Amount: 900, Date: at(time.February)},
		{User: major, Type: transaction.TypeExpense, CategoryCode: "PETS", Amount: 50, Date: at(time.March)},
	}
	cats := []*category.Category{
		{Code: "FOOD", Proportion: 0.8},
		{Code: "HOME", Proportion: 1.5},
		{Code: "PETS", Proportion: 1},
	}

	return report.Aggregate(2024, months, txs, cats)
}

type fixture struct {
	scopes     *overview.MockScopeResolver
	summarizer *overview.MockSummarizer
	budgets    *overview.MockBudgetLister
	svc        *overview.Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		scopes:     overview.NewMockScopeResolver(ctrl),
		summarizer: overview.NewMockSummarizer(ctrl),
		budgets:    overview.NewMockBudgetLister(ctrl),
	}

	calc := proportion.NewCalculator(proportion.Config{MinorUserID: minor.ID, MajorUserID: major.ID})
	f.svc = overview.NewService(f.scopes, f.summarizer, f.budgets, calc)

	return f
}

func TestService_Monthly(t *testing.T) {
	f := newFixture(t)

	sc := &scope.Scope{ID: 1, Type: scope.TypeGroup, ChatID: -5, ReportScopes: []int64{1, 2}}
	months := []time.Month{time.January, time.February}

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(-5)).Return(sc, nil)
	f.summarizer.EXPECT().
		Summarize(gomock.Any(), []int64{1, 2}, 2024, months).
		Return(summary(months), nil)
	f.summarizer.EXPECT().
		Income(gomock.Any(), []int64{1, 2}, 2024, []time.Month{time.January}).
		Return([]report.UserSum{{User: minor, Amount: 5000}}, nil)
	f.summarizer.EXPECT().
		Income(gomock.Any(), []int64{1, 2}, 2024, []time.Month{time.February}).
		Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), sc).Return([]*budget.Budget{
		{CategoryCode: "FOOD", MonthlyLimit: new(int64(1200))},
		{CategoryCode: "PETS", YearLimit: new(int64(10))},
	}, nil)

	got, err := f.svc.Monthly(context.Background(), -5, 2024, months)
	require.NoError(t, err)
	require.Len(t, got.Months, 2)

	jan := got.Months[0]
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, int64(1000), jan.Total)
	require.Len(t, jan.Income, 1)

	codes := func(lines []overview.CategoryLine) []string {
		var out []string
		for _, l := range lines {
			out = append(out, l.Sum.Category.Code)
		}

		return out
	}

	assert.Equal(t, []string{"FOOD", "PETS"}, codes(jan.Categories), "budgeted categories stay visible")
	assert.Equal(t, budget.StatusWithin, jan.Categories[0].Usage.Month.Status())
	assert.Equal(t, budget.StatusExceeded, jan.Categories[1].Usage.Year.Status())

	require.NotNil(t, jan.Proportions)
	assert.InDelta(t, 300.0/700.0, float64(jan.Proportions.Actual), 1e-9)

	feb := got.Months[1]
	assert.Equal(t, int64(900), feb.Total)
	require.NotNil(t, feb.Proportions)
	assert.Zero(t, float64(feb.Proportions.Actual), "minor user without spend")
}

func TestService_Monthly_Private(t *testing.T) {
	f := newFixture(t)

	sc := &scope.Scope{ID: 3, Type: scope.TypePrivate, ChatID: 77}
	months := []time.Month{time.March}

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(77)).Return(sc, nil)
	f.summarizer.EXPECT().Summarize(gomock.Any(), []int64{3}, 2024, months).Return(summary(months), nil)
	f.summarizer.EXPECT().Income(gomock.Any(), []int64{3}, 2024, months).Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), sc).Return(nil, nil)

	got, err := f.svc.Monthly(context.Background(), 77, 2024, months)
	require.NoError(t, err)
	require.Len(t, got.Months, 1)
	assert.Nil(t, got.Months[0].Proportions)
}

func TestService_Monthly_Errors(t *testing.T) {
	t.Run("UnknownChat", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(1)).Return(nil, scope.ErrNotFound)

		_, err := f.svc.Monthly(context.Background(), 1, 2024, []time.Month{time.May})
		assert.ErrorIs(t, err, scope.ErrNotFound)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		for _, m := range []time.Month{0, 13} {
			f := newFixture(t)

			got, err := f.svc.Monthly(context.Background(), 1, 2024, []time.Month{time.May, m})
			assert.ErrorIs(t, err, overview.ErrInvalidMonth)
			assert.Nil(t, got)
		}
	})

	t.Run("SummaryFails", func(t *testing.T) {
		f := newFixture(t)
		sc := &scope.Scope{ID: 1, Type: scope.TypeGroup}

		f.scopes.EXPECT().ResolveByChat(gomock.Any(), gomock.Any()).Return(sc, nil)
		f.summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
		f.summarizer.EXPECT().Income(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		f.budgets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := f.svc.Monthly(context.Background(), 1, 2024, []time.Month{time.May})
		assert.Error(t, err)
	})
}

func TestService_Yearly(t *testing.T) {
	f := newFixture(t)

	sc := &scope.Scope{ID: 1, Type: scope.TypeGroup, ChatID: -5}

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(-5)).Return(sc, nil)
	f.summarizer.EXPECT().Summarize(gomock.Any(), []int64{1}, 2024, nil).Return(summary(nil), nil)
	f.summarizer.EXPECT().Income(gomock.Any(), []int64{1}, 2024, nil).Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), sc).Return([]*budget.Budget{
		{CategoryCode: "HOME", YearLimit: new(int64(1000))},
	}, nil)

	got, err := f.svc.Yearly(context.Background(), -5, 2024)
	require.NoError(t, err)

	assert.Equal(t, int64(1950), got.Total)
	require.Len(t, got.Categories, 3)
	assert.Equal(t, "FOOD", got.Categories[0].Sum.Category.Code)
	assert.Equal(t, budget.StatusUnconstrained, got.Categories[0].Usage.Year.Status())
	assert.Equal(t, budget.StatusWithin, got.Categories[1].Usage.Year.Status())
	require.NotNil(t, got.Proportions)
	assert.InDelta(t, 300.0/1650.0, float64(got.Proportions.Actual), 1e-9)
}
