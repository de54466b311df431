package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a recorded income or expense.
type Transaction struct {
	ID         uuid.UUID
	Type       Type
	Amount     int64 // Amount in cents, always positive
	CategoryID string
	Date       time.Time
	Note       string
	Recurrence *recurrence.Rule // Set only on the base entry of a recurring series
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// ISODate returns the transaction date as YYYY-MM-DD.
func (t *Transaction) ISODate() string {
	return t.Date.Format(time.DateOnly)
}

// Key returns the identity used to detect an already recorded occurrence.
func (t *Transaction) Key() DuplicateKey {
	return DuplicateKey{
		Type:       t.Type,
		CategoryID: t.CategoryID,
		Amount:     t.Amount,
		Date:       t.Date,
	}
}

// DuplicateKey identifies a transaction for recurrence de-duplication.
type DuplicateKey struct {
	Type       Type
	CategoryID string
	Amount     int64
	Date       time.Time
}
