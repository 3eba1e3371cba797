package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fillbook/internal/export"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the year's workbook. The workbook is built before the
// first byte is written so failures still produce an error status.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	year, err := api.Year(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sc := api.Scope(r)

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), sc, year, &buf); err != nil {
		slog.ErrorContext(r.Context(), "failed to export ledger", "scope", sc.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"ledger_%d_%d.xlsx\"", sc.ID, year))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
