package balance

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/balance"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
	"github.com/MrJamesThe3rd/fillbook/internal/render"
)

type Handler struct {
	svc *balance.Service
}

func NewHandler(svc *balance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/debts", h.debts)
	r.Post("/net", h.net)
}

type balanceResponse struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Balance int64  `json:"balance"`
}

type monthResponse struct {
	Month    time.Month        `json:"month"`
	Balances []balanceResponse `json:"balances"`
}

type debtsResponse struct {
	Year   int             `json:"year"`
	Months []time.Month    `json:"months"`
	Debts  []monthResponse `json:"debts"`
}

func title(year int, months []time.Month) string {
	if len(months) == 0 {
		return fmt.Sprintf("Debts %d", year)
	}

	names := make([]string, 0, len(months))
	for _, m := range months {
		names = append(names, m.String())
	}

	return fmt.Sprintf("Debts %s %d", strings.Join(names, ", "), year)
}

func (h *Handler) debts(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.svc.DebtReport(r.Context(), api.Scope(r), year, months)
	if err != nil {
		writeError(w, err)
		return
	}

	if api.WantsText(r) {
		api.Text(w, render.Debts(title(year, months), report))
		return
	}

	resp := debtsResponse{
		Year:   year,
		Months: months,
		Debts:  make([]monthResponse, 0, len(report)),
	}

	if resp.Months == nil {
		resp.Months = []time.Month{}
	}

	for _, mb := range report {
		month := monthResponse{
			Month:    mb.Month,
			Balances: make([]balanceResponse, 0, len(mb.Balances)),
		}

		for _, b := range mb.Balances {
			month.Balances = append(month.Balances, balanceResponse{
				UserID:  b.User.ID,
				Name:    b.User.DisplayName(),
				Amount:  b.Amount,
				Balance: b.Balance,
			})
		}

		resp.Debts = append(resp.Debts, month)
	}

	api.JSON(w, http.StatusOK, resp)
}

type netResponse struct {
	Netted int64 `json:"netted"`
}

func (h *Handler) net(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Net(r.Context(), api.Scope(r))
	if err != nil {
		writeError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, netResponse{Netted: n})
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, balance.ErrNotGroupScope) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
