package category_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	handler "github.com/MrJamesThe3rd/fillbook/internal/http/category"
)

var (
	food  = &category.Category{Code: "FOOD", Name: "Food", Aliases: []string{"maxi"}, Proportion: 1}
	other = &category.Category{Code: category.FallbackCode, Name: "Other"}
)

func newRouter(t *testing.T) (*category.MockRepository, http.Handler) {
	repo := category.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/categories", handler.NewHandler(category.NewService(repo)).Routes)

	return repo, r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_List(t *testing.T) {
	repo, router := newRouter(t)

	repo.EXPECT().ListCategories(gomock.Any()).Return([]*category.Category{food, other}, nil)

	rec := do(router, http.MethodGet, "/categories/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"code":"FOOD","name":"Food","aliases":["maxi"],"proportion":1},
		{"code":"OTHER","name":"Other","aliases":[],"proportion":0}
	]`, rec.Body.String())
}

func TestHandler_Get(t *testing.T) {
	repo, router := newRouter(t)

	repo.EXPECT().GetCategory(gomock.Any(), "FOOD").Return(food, nil)
	repo.EXPECT().GetCategory(gomock.Any(), "NOPE").Return(nil, category.ErrNotFound)

	rec := do(router, http.MethodGet, "/categories/FOOD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FOOD"`)

	rec = do(router, http.MethodGet, "/categories/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Classify(t *testing.T) {
	repo, router := newRouter(t)

	repo.EXPECT().ListCategories(gomock.Any()).Return([]*category.Category{food, other}, nil).Times(2)

	rec := do(router, http.MethodGet, "/categories/classify?description=Maxi+market", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FOOD"`)

	rec = do(router, http.MethodGet, "/categories/classify?description=cinema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"OTHER"`)
}

func TestHandler_Create(t *testing.T) {
	type args struct {
		body string
	}

	type testCase struct {
		args       args
		setup      func(repo *category.MockRepository)
		wantStatus int
		wantBody   string
	}

	tests := map[string]testCase{
		"creates with seed alias": {
			args: args{body: `{"code":"CAFE","name":"Cafe","proportion":0.5,"alias":"Starbucks"}`},
			setup: func(repo *category.MockRepository) {
				repo.EXPECT().CreateCategory(gomock.Any(), &category.Category{
					Code: "CAFE", Name: "Cafe", Aliases: []string{"starbucks"}, Proportion: 0.5,
				}).Return(nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"code":"CAFE","name":"Cafe","aliases":["starbucks"],"proportion":0.5}`,
		},
		"missing code": {
			args:       args{body: `{"name":"Cafe"}`},
			wantStatus: http.StatusBadRequest,
		},
		"negative proportion": {
			args:       args{body: `{"code":"CAFE","proportion":-1}`},
			wantStatus: http.StatusBadRequest,
		},
		"duplicate": {
			args: args{body: `{"code":"FOOD"}`},
			setup: func(repo *category.MockRepository) {
				repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(category.ErrDuplicate)
			},
			wantStatus: http.StatusConflict,
		},
		"store failure": {
			args: args{body: `{"code":"FOOD"}`},
			setup: func(repo *category.MockRepository) {
				repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		"malformed body": {
			args:       args{body: `{`},
			wantStatus: http.StatusBadRequest,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo, router := newRouter(t)
			if tc.setup != nil {
				tc.setup(repo)
			}

			rec := do(router, http.MethodPost, "/categories/", tc.args.body)
			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}
