package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/auth"
	apphttp "github.com/MrJamesThe3rd/fillbook/internal/http"
	"github.com/MrJamesThe3rd/fillbook/internal/http/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/http/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/http/category"
	"github.com/MrJamesThe3rd/fillbook/internal/http/currency"
	"github.com/MrJamesThe3rd/fillbook/internal/http/export"
	"github.com/MrJamesThe3rd/fillbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fillbook/internal/http/report"
	scopehttp "github.com/MrJamesThe3rd/fillbook/internal/http/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

func newRouter(t *testing.T) (*scope.MockRepository, *auth.Authenticator, http.Handler) {
	repo := scope.NewMockRepository(gomock.NewController(t))

	authn, err := auth.New("test-secret", time.Hour)
	require.NoError(t, err)

	router := apphttp.New(authn.Middleware, []string{"https://app.example"}, apphttp.Handlers{
		Scopes:       scopehttp.NewHandler(scope.NewService(repo)),
		Categories:   category.NewHandler(nil),
		Transactions: transaction.NewHandler(nil),
		Reports:      report.NewHandler(nil),
		Budgets:      budget.NewHandler(nil),
		Balances:     balance.NewHandler(nil),
		Rates:        currency.NewHandler(nil),
		Import:       importcsv.NewHandler(nil, nil),
		Export:       export.NewHandler(nil),
	})

	return repo, authn, router
}

func TestRouter_Health(t *testing.T) {
	_, _, router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Scope(t *testing.T) {
	repo, authn, router := newRouter(t)

	known, err := authn.Issue(-100)
	require.NoError(t, err)

	unknown, err := authn.Issue(-200)
	require.NoError(t, err)

	repo.EXPECT().GetByChatID(gomock.Any(), int64(-100)).
		Return(&scope.Scope{ID: 3, Type: scope.TypeGroup, ChatID: -100}, nil).AnyTimes()
	repo.EXPECT().GetByChatID(gomock.Any(), int64(-200)).
		Return(nil, scope.ErrNotFound).AnyTimes()

	type testCase struct {
		name     string
		token    string
		wantCode int
	}

	tests := []testCase{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "chat without scope", token: unknown, wantCode: http.StatusForbidden},
		{name: "registered chat", token: known, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scope/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"id":3,"type":"GROUP","chat_id":-100,"report_scopes":[],"expanded":[3]}`, rec.Body.String())
			}
		})
	}
}

func TestRouter_SetReportScopes(t *testing.T) {
	repo, authn, router := newRouter(t)

	token, err := authn.Issue(-100)
	require.NoError(t, err)

	repo.EXPECT().GetByChatID(gomock.Any(), int64(-100)).
		Return(&scope.Scope{ID: 3, Type: scope.TypeGroup, ChatID: -100}, nil)
	repo.EXPECT().UpdateReportScopes(gomock.Any(), int64(3), []int64{3, 4}).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/scope/report-scopes", strings.NewReader(`{"report_scopes":[3,4]}`))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"expanded":[3,4]`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	_, _, router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions/", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
