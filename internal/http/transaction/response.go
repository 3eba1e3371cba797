package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fillbook/internal/transaction"
)

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

type transactionResponse struct {
	ID               uuid.UUID        `json:"id"`
	User             userResponse     `json:"user"`
	ScopeID          int64            `json:"scope_id"`
	Type             transaction.Type `json:"type"`
	Amount           int64            `json:"amount"`
	Description      string           `json:"description"`
	Category         string           `json:"category,omitempty"`
	Date             time.Time        `json:"date"`
	IsNetted         bool             `json:"is_netted"`
	OriginalCurrency string           `json:"original_currency,omitempty"`
	OriginalAmount   *decimal.Decimal `json:"original_amount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID: tx.ID,
		User: userResponse{
			ID:        tx.User.ID,
			Username:  tx.User.Username,
			FirstName: tx.User.FirstName,
		},
		ScopeID:          tx.ScopeID,
		Type:             tx.Type,
		Amount:           tx.Amount,
		Description:      tx.Description,
		Category:         tx.CategoryCode,
		Date:             tx.Date,
		IsNetted:         tx.IsNetted,
		OriginalCurrency: tx.OriginalCurrency,
		OriginalAmount:   tx.OriginalAmount,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toResponse(tx))
	}

	return resp
}
