// Package export writes and reads the JSON backup format.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

// Record is one transaction in a backup file.
type Record struct {
	Type        transaction.Type `json:"type"`
	AmountCents int64            `json:"amountCents"`
	CategoryID  string           `json:"categoryId"`
	Date        string           `json:"date"`
	Note        string           `json:"note"`
}

func NewRecord(tx *transaction.Transaction) Record {
	return Record{
		Type:        tx.Type,
		AmountCents: tx.Amount,
		CategoryID:  tx.CategoryID,
		Date:        tx.ISODate(),
		Note:        tx.Note,
	}
}

type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export writes the transactions matching filter to w as an indented JSON array and
// returns how many were written.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	records := make([]Record, 0, len(txs))
	for _, tx := range txs {
		records = append(records, NewRecord(tx))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encoding backup: %w", err)
	}

	return len(records), nil
}

// FileName is the download name of a backup taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("cashly-%s.json", now.Format(time.DateOnly))
}
