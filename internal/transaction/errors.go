package transaction

import "errors"

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidType       = errors.New("type must be income or expense")
	ErrInvalidDate       = errors.New("date is required")
	ErrInvalidRecurrence = errors.New("unknown recurrence frequency")
)
