package report_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/category"
	handler "github.com/MrJamesThe3rd/fillbook/internal/http/report"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/proportion"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var (
	group = &scope.Scope{ID: 1, Type: scope.TypeGroup, ChatID: -100}
	anna  = transaction.User{ID: 10, Username: "anna"}
	boris = transaction.User{ID: 20, Username: "boris"}
)

func summary(months []time.Month) *report.Summary {
	txs := []*transaction.Transaction{
		{User: anna, Type: transaction.TypeExpense, CategoryCode: "FOOD", Amount: 3000, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{User: boris, Type: transaction.TypeExpense, CategoryCode: "FOOD", Amount: 7000, Date: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)},
	}

	return report.Aggregate(2024, months, txs, []*category.Category{{Code: "FOOD", Name: "Food", Proportion: 1}})
}

type fixture struct {
	scopes     *overview.MockScopeResolver
	summarizer *overview.MockSummarizer
	budgets    *overview.MockBudgetLister
	router     http.Handler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		scopes:     overview.NewMockScopeResolver(ctrl),
		summarizer: overview.NewMockSummarizer(ctrl),
		budgets:    overview.NewMockBudgetLister(ctrl),
	}

	calc := proportion.NewCalculator(proportion.Config{MinorUserID: anna.ID, MajorUserID: boris.ID})
	svc := overview.NewService(f.scopes, f.summarizer, f.budgets, calc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(scope.NewContext(r.Context(), group)))
		})
	})
	r.Route("/reports", handler.NewHandler(svc).Routes)

	f.router = r

	return f
}

func (f fixture) get(target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Monthly(t *testing.T) {
	f := newFixture(t)
	feb := []time.Month{time.February}

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(-100)).Return(group, nil)
	f.summarizer.EXPECT().Summarize(gomock.Any(), []int64{1}, 2024, feb).Return(summary(feb), nil)
	f.summarizer.EXPECT().Income(gomock.Any(), []int64{1}, 2024, feb).Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), group).Return([]*budget.Budget{
		{ScopeID: 1, CategoryCode: "FOOD", MonthlyLimit: new(int64(8000))},
	}, nil)

	rec := f.get("/reports/monthly?year=2024&month=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Year   int `json:"year"`
		Months []struct {
			Month      int   `json:"month"`
			Total      int64 `json:"total"`
			Categories []struct {
				Code  string `json:"code"`
				Month struct {
					Limit  *int64 `json:"limit"`
					Status string `json:"status"`
				} `json:"month"`
				Quarter struct {
					Status string `json:"status"`
				} `json:"quarter"`
			} `json:"categories"`
			Proportions *struct {
				Actual *float64 `json:"actual"`
				Target *float64 `json:"target"`
			} `json:"proportions"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Months, 1)

	m := resp.Months[0]
	assert.Equal(t, 2, m.Month)
	assert.Equal(t, int64(10000), m.Total)
	require.Len(t, m.Categories, 1)
	assert.Equal(t, "exceeded", m.Categories[0].Month.Status)
	assert.Equal(t, "unconstrained", m.Categories[0].Quarter.Status)

	require.NotNil(t, m.Proportions)
	require.NotNil(t, m.Proportions.Actual)
	assert.InDelta(t, 0.4286, *m.Proportions.Actual, 0.0001)
}

func TestHandler_Monthly_Text(t *testing.T) {
	f := newFixture(t)
	feb := []time.Month{time.February}

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(-100)).Return(group, nil)
	f.summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), 2024, feb).Return(summary(feb), nil)
	f.summarizer.EXPECT().Income(gomock.Any(), gomock.Any(), 2024, feb).Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), group).Return(nil, nil)

	rec := f.get("/reports/monthly?year=2024&month=2&format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "February 2024")
	assert.Contains(t, rec.Body.String(), "100.00")
}

func TestHandler_Yearly(t *testing.T) {
	f := newFixture(t)

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), int64(-100)).Return(group, nil)
	f.summarizer.EXPECT().Summarize(gomock.Any(), []int64{1}, 2024, gomock.Nil()).Return(summary(nil), nil)
	f.summarizer.EXPECT().Income(gomock.Any(), []int64{1}, 2024, gomock.Nil()).Return(nil, nil)
	f.budgets.EXPECT().List(gomock.Any(), group).Return(nil, nil)

	rec := f.get("/reports/yearly?year=2024")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":10000`)
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/reports/monthly?month=13")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.scopes.EXPECT().ResolveByChat(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	rec = f.get("/reports/yearly?year=2024")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
