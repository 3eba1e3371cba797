package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	handler "github.com/MrJamesThe3rd/fillbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

var group = &scope.Scope{ID: 1, Type: scope.TypeGroup, ChatID: -100, ReportScopes: []int64{1, 2}}

type fixture struct {
	repo       *transaction.MockRepository
	classifier *transaction.MockClassifier
	router     http.Handler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       transaction.NewMockRepository(ctrl),
		classifier: transaction.NewMockClassifier(ctrl),
	}

	converter := transaction.NewMockConverter(ctrl)
	converter.EXPECT().Base().Return("RSD").AnyTimes()
	converter.EXPECT().
		ToBase(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, amount decimal.Decimal) (int64, error) {
			return amount.Shift(2).IntPart(), nil
		}).
		AnyTimes()

	svc := transaction.NewService(f.repo, f.classifier, converter)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(scope.NewContext(r.Context(), group)))
		})
	})
	r.Route("/transactions", handler.NewHandler(svc).Routes)

	f.router = r

	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	f := newFixture(t)

	f.classifier.EXPECT().
		Classify(gomock.Any(), "bread").
		Return(&category.Category{Code: "FOOD"}, nil)
	f.repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, int64(1), tx.ScopeID)
			assert.Equal(t, int64(11), tx.User.ID)
			tx.ID = uuid.New()

			return nil
		})

	rec := f.do(http.MethodPost, "/transactions/",
		`{"user":{"id":11,"username":"anna"},"type":"expense","amount":"12.50","description":"bread","date":"2024-02-03T00:00:00Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FOOD", resp["category"])
	assert.InDelta(t, 1250, resp["amount"], 0)
}

func TestHandler_Create_Invalid(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "malformed", body: `{`},
		{name: "missing user", body: `{"type":"expense","amount":"1"}`},
		{name: "negative amount", body: `{"user":{"id":1},"type":"expense","amount":"-1"}`},
		{name: "unknown type", body: `{"user":{"id":1},"type":"gift","amount":"1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/transactions/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{
			ScopeIDs: []int64{1, 2},
			UserID:   new(int64(11)),
			Type:     new(transaction.TypeExpense),
			Year:     2024,
			Months:   []time.Month{time.March},
		}).
		Return([]*transaction.Transaction{
			{ID: uuid.New(), ScopeID: 2, Type: transaction.TypeExpense, Amount: 100, CategoryCode: "FOOD"},
		}, nil)

	rec := f.do(http.MethodGet, "/transactions/?year=2024&month=3&user_id=11&type=expense", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.InDelta(t, 2, resp[0]["scope_id"], 0)
}

func TestHandler_List_BadQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"?month=0", "?year=x", "?user_id=abc", "?type=gift"} {
		rec := f.do(http.MethodGet, "/transactions/"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandler_Delete(t *testing.T) {
	own := uuid.New()
	linked := uuid.New()

	type testCase struct {
		name     string
		id       uuid.UUID
		setup    func(repo *transaction.MockRepository)
		wantCode int
	}

	tests := []testCase{
		{
			name: "own scope",
			id:   own,
			setup: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), own).Return(&transaction.Transaction{ID: own, ScopeID: 1}, nil)
				repo.EXPECT().DeleteTransaction(gomock.Any(), own).Return(nil)
			},
			wantCode: http.StatusNoContent,
		},
		{
			name: "linked scope is read only",
			id:   linked,
			setup: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), linked).Return(&transaction.Transaction{ID: linked, ScopeID: 2}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "missing",
			id:   own,
			setup: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), own).Return(nil, transaction.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.repo)

			rec := f.do(http.MethodDelete, "/transactions/"+tt.id.String(), "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Get_LinkedScopeVisible(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, ScopeID: 2}, nil)

	rec := f.do(http.MethodGet, "/transactions/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/transactions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ChangeCategory(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	ctrl := gomock.NewController(t)
	rtx := transaction.NewMockRecategorizeTx(ctrl)

	tx := &transaction.Transaction{ID: id, ScopeID: 1, Type: transaction.TypeExpense, CategoryCode: "OTHER", Description: "Bolt ride"}

	f.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(tx, nil)
	f.repo.EXPECT().BeginRecategorize(gomock.Any()).Return(rtx, nil)
	rtx.EXPECT().LockTransaction(gomock.Any(), id).Return(tx, nil)
	rtx.EXPECT().GetCategory(gomock.Any(), "OTHER").Return(&category.Category{Code: "OTHER"}, nil)
	rtx.EXPECT().GetCategory(gomock.Any(), "TAXI").Return(&category.Category{Code: "TAXI"}, nil)
	rtx.EXPECT().SetCategory(gomock.Any(), id, "TAXI").Return(nil)
	rtx.EXPECT().AppendAlias(gomock.Any(), "TAXI", "bolt ride").Return(nil)
	rtx.EXPECT().Commit().Return(nil)
	rtx.EXPECT().Rollback().Return(nil)

	rec := f.do(http.MethodPatch, "/transactions/"+id.String()+"/category", `{"category":"TAXI"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"category":"TAXI"`)
}

func TestHandler_ChangeDate(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	f.repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, ScopeID: 1}, nil)
	f.repo.EXPECT().UpdateDate(gomock.Any(), id, date).Return(nil)

	rec := f.do(http.MethodPatch, "/transactions/"+id.String()+"/date", `{"date":"2024-05-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"date":"2024-05-01T00:00:00Z"`)

	rec = f.do(http.MethodPatch, "/transactions/"+id.String()+"/date", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
