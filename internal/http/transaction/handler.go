package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/currency"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/category", h.changeCategory)
	r.Patch("/{id}/date", h.changeDate)
}

type createTransactionRequest struct {
	User struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	} `json:"user"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.User.ID == 0 {
		http.Error(w, "user.id is required", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		User: transaction.User{
			ID:        req.User.ID,
			Username:  req.User.Username,
			FirstName: req.User.FirstName,
		},
		ScopeID:      api.Scope(r).ID,
		Type:         req.Type,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		CategoryCode: req.Category,
		Date:         req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(tx))
}

// list returns the transactions of the scope's report set. With ?format=text
// the rendered table is returned instead.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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

	q := r.URL.Query()

	filter := transaction.ListFilter{
		ScopeIDs:  api.Scope(r).Expand(),
		Year:      year,
		Months:    months,
		NotNetted: q.Get("not_netted") == "true",
	}

	if s := q.Get("user_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}

		filter.UserID = new(id)
	}

	if s := q.Get("type"); s != "" {
		typ := transaction.Type(s)
		if !typ.Valid() {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = new(typ)
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if api.WantsText(r) {
		api.Text(w, render.Transactions(txs))
		return
	}

	api.JSON(w, http.StatusOK, toResponseList(txs))
}

// load fetches the transaction and hides it unless it belongs to one of
// allowed scopes.
func (h *Handler) load(w http.ResponseWriter, r *http.Request, allowed []int64) (*transaction.Transaction, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	if !slices.Contains(allowed, tx.ScopeID) {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return nil, false
	}

	return tx, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.load(w, r, api.Scope(r).Expand())
	if !ok {
		return
	}

	api.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.load(w, r, []int64{api.Scope(r).ID})
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), tx.ID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changeCategoryRequest struct {
	Category string `json:"category"`
}

func (h *Handler) changeCategory(w http.ResponseWriter, r *http.Request) {
	var req changeCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, ok := h.load(w, r, []int64{api.Scope(r).ID})
	if !ok {
		return
	}

	updated, err := h.svc.ChangeCategory(r.Context(), tx.ID, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(updated))
}

type changeDateRequest struct {
	Date time.Time `json:"date"`
}

func (h *Handler) changeDate(w http.ResponseWriter, r *http.Request) {
	var req changeDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Date.IsZero() {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	tx, ok := h.load(w, r, []int64{api.Scope(r).ID})
	if !ok {
		return
	}

	if err := h.svc.ChangeDate(r.Context(), tx.ID, req.Date); err != nil {
		writeError(w, err)
		return
	}

	tx.Date = req.Date

	api.JSON(w, http.StatusOK, toResponse(tx))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, category.ErrNotFound):
		http.Error(w, "category not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalid), errors.Is(err, transaction.ErrNotExpense),
		errors.Is(err, currency.ErrUnknownRate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
