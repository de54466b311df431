package extract

import (
	"time"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const (
	// DefaultDescription is used when neither the line nor its context describe the movement.
	DefaultDescription = "Movimiento"
	// FallbackDescription marks candidates produced by the low-precision fallback pass.
	FallbackDescription = "Detectado por OCR"
)

// Candidate is an extracted, not yet persisted transaction guess.
type Candidate struct {
	Type        transaction.Type
	Amount      int64 // Amount in cents, always positive
	Date        time.Time
	Description string
	CategoryID  string
}

// ISODate returns the candidate date as YYYY-MM-DD.
func (c Candidate) ISODate() string {
	return c.Date.Format(time.DateOnly)
}

// Params converts an accepted candidate into the parameters of a new base transaction.
func (c Candidate) Params() transaction.CreateParams {
	return transaction.CreateParams{
		Type:       c.Type,
		Amount:     c.Amount,
		CategoryID: c.CategoryID,
		Date:       c.Date,
		Note:       c.Description,
	}
}

func newCandidate(tok Token, date time.Time, description string) Candidate {
	txType := transaction.TypeIncome
	if tok.Negative {
		txType = transaction.TypeExpense
	}

	return Candidate{
		Type:        txType,
		Amount:      abs(tok.Cents),
		Date:        date,
		Description: description,
		CategoryID:  transaction.DefaultCategory(txType),
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
