package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fillbook/internal/http/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/http/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/http/category"
	"github.com/MrJamesThe3rd/fillbook/internal/http/currency"
	"github.com/MrJamesThe3rd/fillbook/internal/http/export"
	"github.com/MrJamesThe3rd/fillbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fillbook/internal/http/report"
	"github.com/MrJamesThe3rd/fillbook/internal/http/scope"
	"github.com/MrJamesThe3rd/fillbook/internal/http/transaction"
)

type Handlers struct {
	Scopes       *scope.Handler
	Categories   *category.Handler
	Transactions *transaction.Handler
	Reports      *report.Handler
	Budgets      *budget.Handler
	Balances     *balance.Handler
	Rates        *currency.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
}

// New builds the API router. authenticate must reject requests without a
// valid bearer token and record the caller's chat id.
func New(authenticate func(http.Handler) http.Handler, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(h.Scopes.Resolve)

		r.Route("/scope", h.Scopes.Routes)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/reports", h.Reports.Routes)

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Budgets.Routes(r)
		})

		r.Route("/balances", h.Balances.Routes)

		r.Route("/rates", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Rates.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
