package scope

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/auth"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

type Handler struct {
	svc *scope.Service
}

func NewHandler(svc *scope.Service) *Handler {
	return &Handler{svc: svc}
}

// Resolve loads the scope of the authenticated chat into the request
// context. Requests from chats without a scope are rejected.
func (h *Handler) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := auth.ChatID(r.Context())
		if !ok {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		sc, err := h.svc.ResolveByChat(r.Context(), chatID)
		if err != nil {
			if errors.Is(err, scope.ErrNotFound) {
				http.Error(w, "chat has no scope", http.StatusForbidden)
				return
			}

			slog.ErrorContext(r.Context(), "failed to resolve scope", "chat_id", chatID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		next.ServeHTTP(w, r.WithContext(scope.NewContext(r.Context(), sc)))
	})
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/report-scopes", h.setReportScopes)
}

type scopeResponse struct {
	ID           int64      `json:"id"`
	Type         scope.Type `json:"type"`
	ChatID       int64      `json:"chat_id"`
	ReportScopes []int64    `json:"report_scopes"`
	Expanded     []int64    `json:"expanded"`
}

func toResponse(sc *scope.Scope) scopeResponse {
	reportScopes := sc.ReportScopes
	if reportScopes == nil {
		reportScopes = []int64{}
	}

	return scopeResponse{
		ID:           sc.ID,
		Type:         sc.Type,
		ChatID:       sc.ChatID,
		ReportScopes: reportScopes,
		Expanded:     sc.Expand(),
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, toResponse(api.Scope(r)))
}

type reportScopesRequest struct {
	ReportScopes []int64 `json:"report_scopes"`
}

func (h *Handler) setReportScopes(w http.ResponseWriter, r *http.Request) {
	var req reportScopesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sc := *api.Scope(r)

	if err := h.svc.SetReportScopes(r.Context(), sc.ID, req.ReportScopes); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			http.Error(w, "scope not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	sc.ReportScopes = req.ReportScopes

	api.JSON(w, http.StatusOK, toResponse(&sc))
}
