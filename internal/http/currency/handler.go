package currency

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/currency"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
)

type Handler struct {
	svc *currency.Service
}

func NewHandler(svc *currency.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{code}", h.setRate)
}

type rateResponse struct {
	Code string          `json:"code"`
	Rate decimal.Decimal `json:"rate"`
}

type ratesResponse struct {
	Base  string         `json:"base"`
	Rates []rateResponse `json:"rates"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := ratesResponse{Base: h.svc.Base(), Rates: make([]rateResponse, 0, len(rates))}
	for _, rt := range rates {
		resp.Rates = append(resp.Rates, rateResponse{Code: rt.Code, Rate: rt.Rate})
	}

	api.JSON(w, http.StatusOK, resp)
}

type setRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

func (h *Handler) setRate(w http.ResponseWriter, r *http.Request) {
	var req setRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rt, err := h.svc.SetRate(r.Context(), chi.URLParam(r, "code"), req.Rate)
	if err != nil {
		if errors.Is(err, currency.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	api.JSON(w, http.StatusOK, rateResponse{Code: rt.Code, Rate: rt.Rate})
}
