package export_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/export"
	handler "github.com/MrJamesThe3rd/fillbook/internal/http/export"
	"github.com/MrJamesThe3rd/fillbook/internal/report"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

func TestHandler_Download(t *testing.T) {
	ctrl := gomock.NewController(t)
	txs := export.NewMockTransactionLister(ctrl)
	summarizer := export.NewMockSummarizer(ctrl)

	txs.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	summarizer.EXPECT().
		Summarize(gomock.Any(), []int64{6}, 2024, gomock.Nil()).
		Return(report.Aggregate(2024, nil, nil, nil), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(scope.NewContext(r.Context(), &scope.Scope{ID: 6})))
		})
	})
	r.Route("/export", handler.NewHandler(export.NewService(txs, summarizer)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/?year=2024", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ledger_6_2024.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetTransactions, export.SheetCategories}, f.GetSheetList())
}

func TestHandler_Download_BadYear(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/export", handler.NewHandler(export.NewService(nil, nil)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/?year=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
