package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/classify", h.classify)
	r.Get("/{code}", h.get)
}

type categoryResponse struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon,omitempty"`
	Aliases    []string `json:"aliases"`
	Proportion float64  `json:"proportion"`
}

func toResponse(c *category.Category) categoryResponse {
	aliases := c.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	return categoryResponse{
		Code:       c.Code,
		Name:       c.Name,
		Icon:       c.Icon,
		Aliases:    aliases,
		Proportion: c.Proportion,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, toResponse(c))
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	api.JSON(w, http.StatusOK, toResponse(c))
}

// classify previews which category a description would be filed under.
func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Classify(r.Context(), r.URL.Query().Get("description"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(c))
}

type createCategoryRequest struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Proportion float64 `json:"proportion"`
	Alias      string  `json:"alias"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), category.CreateParams{
		Code:       req.Code,
		Name:       req.Name,
		Icon:       req.Icon,
		Proportion: req.Proportion,
		SeedAlias:  req.Alias,
	})
	if err != nil {
		switch {
		case errors.Is(err, category.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, category.ErrDuplicate):
			http.Error(w, "category already exists", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	api.JSON(w, http.StatusCreated, toResponse(c))
}
