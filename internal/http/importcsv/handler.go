package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/currency"
	"github.com/MrJamesThe3rd/fillbook/internal/http/api"
	"github.com/MrJamesThe3rd/fillbook/internal/importer"
	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	UserID      int64            `json:"user_id"`
	Type        transaction.Type `json:"type"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Date        time.Time        `json:"date"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	UserID      int64            `json:"user_id"`
	Username    string           `json:"username,omitempty"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Date        time.Time        `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// importCSV parses an uploaded ledger dump into the caller's scope. When
// any row already exists nothing is written; the client resolves the
// conflicts and posts the rows to keep to /confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatLedgerCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, api.Scope(r).ID, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		api.JSON(w, http.StatusConflict, resp)

		return
	}

	api.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	scopeID := api.Scope(r).ID

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			User:         transaction.User{ID: p.UserID, Username: p.Username},
			ScopeID:      scopeID,
			Type:         p.Type,
			Amount:       p.Amount,
			Currency:     p.Currency,
			Description:  p.Description,
			CategoryCode: p.Category,
			Date:         p.Date,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, transaction.ErrInvalid) || errors.Is(err, currency.ErrUnknownRate) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.User.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    tx.CategoryCode,
		Date:        tx.Date,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		UserID:      p.User.ID,
		Username:    p.User.Username,
		Type:        p.Type,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		Category:    p.CategoryCode,
		Date:        p.Date,
	}
}
