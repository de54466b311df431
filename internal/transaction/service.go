package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// Exists reports whether a transaction with the same type, category, amount and date is stored.
	Exists(ctx context.Context, key DuplicateKey) (bool, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx inserts a batch of transactions atomically.
type ImportTx interface {
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Type       Type
	Amount     int64
	CategoryID string
	Date       time.Time
	Note       string
	Recurrence *recurrence.Rule
}

// Validate checks the params and fills in the default category when none is given.
func (p *CreateParams) Validate() error {
	if !p.Type.Valid() {
		return ErrInvalidType
	}

	if p.Amount <= 0 {
		return ErrInvalidAmount
	}

	if p.Date.IsZero() {
		return ErrInvalidDate
	}

	if p.Recurrence != nil && !p.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}

	if p.CategoryID == "" {
		p.CategoryID = DefaultCategory(p.Type)
	}

	p.Date = time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)

	return nil
}

type ListFilter struct {
	Type       *Type
	CategoryID *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Create stores a new base transaction and, when it recurs, every occurrence not already
// recorded. Occurrences are stored one at a time, each before the next is checked.
// If an occurrence fails the base is already stored; it is returned along with the error.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := newTransaction(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	for occ, err := range s.Expand(ctx, tx) {
		if err != nil {
			return tx, fmt.Errorf("expanding recurrence: %w", err)
		}

		if err := s.repo.CreateTransaction(ctx, occ); err != nil {
			return tx, fmt.Errorf("creating occurrence %s: %w", occ.ISODate(), err)
		}
	}

	return tx, nil
}

// CreateBatch stores accepted candidates or imported records in a single database
// transaction. Invalid params abort the whole batch.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		if err := params[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update replaces every editable field of the transaction. A changed recurrence rule is
// stored but already generated occurrences are left as they are.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	tx.Type = params.Type
	tx.Amount = params.Amount
	tx.CategoryID = params.CategoryID
	tx.Date = params.Date
	tx.Note = params.Note
	tx.Recurrence = params.Recurrence

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func newTransaction(p CreateParams) *Transaction {
	return &Transaction{
		Type:       p.Type,
		Amount:     p.Amount,
		CategoryID: p.CategoryID,
		Date:       p.Date,
		Note:       p.Note,
		Recurrence: p.Recurrence,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = newTransaction(p)
	}

	return txs
}
