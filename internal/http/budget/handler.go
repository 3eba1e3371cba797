package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/budget"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{code}", h.setLimits)
	r.Get("/{code}/usage", h.usage)
}

type budgetResponse struct {
	Category     string `json:"category"`
	MonthlyLimit *int64 `json:"monthly_limit"`
	QuarterLimit *int64 `json:"quarter_limit"`
	YearLimit    *int64 `json:"year_limit"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		Category:     b.CategoryCode,
		MonthlyLimit: b.MonthlyLimit,
		QuarterLimit: b.QuarterLimit,
		YearLimit:    b.YearLimit,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context(), api.Scope(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, toResponse(b))
	}

	api.JSON(w, http.StatusOK, resp)
}

// setLimitsRequest replaces all limits; an omitted limit is cleared.
type setLimitsRequest struct {
	MonthlyLimit *int64 `json:"monthly_limit"`
	QuarterLimit *int64 `json:"quarter_limit"`
	YearLimit    *int64 `json:"year_limit"`
}

func (h *Handler) setLimits(w http.ResponseWriter, r *http.Request) {
	var req setLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.SetLimits(r.Context(), api.Scope(r), strings.ToUpper(chi.URLParam(r, "code")), budget.Limits{
		Monthly: req.MonthlyLimit,
		Quarter: req.QuarterLimit,
		Year:    req.YearLimit,
	})
	if err != nil {
		if errors.Is(err, budget.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	api.JSON(w, http.StatusOK, toResponse(b))
}

type thresholdResponse struct {
	Amount int64         `json:"amount"`
	Limit  *int64        `json:"limit"`
	Status budget.Status `json:"status"`
}

type usageResponse struct {
	Category string            `json:"category"`
	AsOf     string            `json:"as_of"`
	Month    thresholdResponse `json:"month"`
	Quarter  thresholdResponse `json:"quarter"`
	Year     thresholdResponse `json:"year"`
}

func toThreshold(th budget.Threshold) thresholdResponse {
	return thresholdResponse{Amount: th.Amount, Limit: th.Limit, Status: th.Status()}
}

// usage reports spend against the limits for the period containing ?date=,
// today by default.
func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		asOf = t
	}

	code := strings.ToUpper(chi.URLParam(r, "code"))

	u, err := h.svc.UsageFor(r.Context(), code, api.Scope(r), asOf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	api.JSON(w, http.StatusOK, usageResponse{
		Category: code,
		AsOf:     asOf.Format(time.DateOnly),
		Month:    toThreshold(u.Month),
		Quarter:  toThreshold(u.Quarter),
		Year:     toThreshold(u.Year),
	})
}
