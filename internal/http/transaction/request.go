package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var errMissingAmount = errors.New("amount or amount_cents is required")

type recurrenceRequest struct {
	Freq   recurrence.Frequency `json:"freq" validate:"required,oneof=monthly weekly"`
	EndsOn string               `json:"ends_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// transactionRequest is shared by create and update. Amount is the amount as typed by
// the user ("12,50"); AmountCents wins when both are sent.
type transactionRequest struct {
	Type        transaction.Type   `json:"type" validate:"required,oneof=income expense"`
	Amount      *string            `json:"amount,omitempty"`
	AmountCents *int64             `json:"amount_cents,omitempty"`
	CategoryID  string             `json:"category_id,omitempty"`
	Date        string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note        string             `json:"note,omitempty" validate:"max=500"`
	Recurrence  *recurrenceRequest `json:"recurrence,omitempty"`
}

// params validates the request and converts it. A missing date means today.
func (req transactionRequest) params(now time.Time) (transaction.CreateParams, error) {
	if err := validate.Struct(req); err != nil {
		return transaction.CreateParams{}, err
	}

	amount, err := req.cents()
	if err != nil {
		return transaction.CreateParams{}, err
	}

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		date, _ = time.Parse(time.DateOnly, req.Date)
	}

	p := transaction.CreateParams{
		Type:       req.Type,
		Amount:     amount,
		CategoryID: req.CategoryID,
		Date:       date,
		Note:       req.Note,
	}

	if req.Recurrence != nil {
		p.Recurrence = &recurrence.Rule{Frequency: req.Recurrence.Freq, EndsOn: req.Recurrence.EndsOn}
	}

	return p, nil
}

func (req transactionRequest) cents() (int64, error) {
	switch {
	case req.AmountCents != nil:
		return *req.AmountCents, nil
	case req.Amount != nil:
		c, err := money.ParseCents(*req.Amount)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", transaction.ErrInvalidAmount, *req.Amount)
		}

		return c, nil
	}

	return 0, errMissingAmount
}
