package report

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
	"github.com/MrJamesThe3rd/fillbook/internal/overview"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type Handler struct {
	svc *overview.Service
}

func NewHandler(svc *overview.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
	r.Get("/yearly", h.yearly)
}

// monthly reports each requested month, or the current one when none is
// given.
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, err := api.Year(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	months, err := api.Months(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(months) == 0 {
		months = []time.Month{time.Now().Month()}
	}

	m, err := h.svc.Monthly(r.Context(), api.Scope(r).ChatID, year, months)
	if err != nil {
		writeError(w, err)
		return
	}

	if api.WantsText(r) {
		api.Text(w, render.Monthly(m))
		return
	}

	api.JSON(w, http.StatusOK, toMonthly(m))
}

func (h *Handler) yearly(w http.ResponseWriter, r *http.Request) {
	year, err := api.Year(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	y, err := h.svc.Yearly(r.Context(), api.Scope(r).ChatID, year)
	if err != nil {
		writeError(w, err)
		return
	}

	if api.WantsText(r) {
		api.Text(w, render.Yearly(y))
		return
	}

	api.JSON(w, http.StatusOK, toYearly(y))
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, scope.ErrNotFound) {
		http.Error(w, "scope not found", http.StatusNotFound)
		return
	}

	if errors.Is(err, overview.ErrInvalidMonth) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
