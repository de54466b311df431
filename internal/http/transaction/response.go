package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID        `json:"id"`
	Type          transaction.Type `json:"type"`
	AmountCents   int64            `json:"amount_cents"`
	Amount        string           `json:"amount"`
	CategoryID    string           `json:"category_id"`
	CategoryLabel string           `json:"category_label"`
	Date          string           `json:"date"`
	Note          string           `json:"note"`
	Recurrence    *recurrence.Rule `json:"recurrence,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Type:          tx.Type,
		AmountCents:   tx.Amount,
		Amount:        money.Format(tx.Amount),
		CategoryID:    tx.CategoryID,
		CategoryLabel: transaction.CategoryLabel(tx.CategoryID),
		Date:          tx.ISODate(),
		Note:          tx.Note,
		Recurrence:    tx.Recurrence,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
