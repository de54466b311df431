package transaction

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"
)

// Summary aggregates the transactions of one calendar month.
type Summary struct {
	Month        time.Time // First day of the month
	Income       int64
	Expense      int64
	Balance      int64
	ByCategory   []CategoryTotal // Expenses only, largest first
	Transactions []*Transaction
}

type CategoryTotal struct {
	CategoryID string
	Name       string
	Amount     int64
}

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Summary loads the transactions dated within month and aggregates them.
func (s *Service) Summary(ctx context.Context, month time.Time) (*Summary, error) {
	start := MonthStart(month)
	end := start.AddDate(0, 1, -1)

	txs, err := s.repo.ListTransactions(ctx, ListFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("listing month: %w", err)
	}

	return Summarize(start, txs), nil
}

// Summarize aggregates txs as the summary of month. Expenses without a category are
// counted under the expense catch-all.
func Summarize(month time.Time, txs []*Transaction) *Summary {
	sum := &Summary{Month: MonthStart(month), Transactions: txs}

	byCategory := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type == TypeIncome {
			sum.Income += tx.Amount
			continue
		}

		sum.Expense += tx.Amount

		id := tx.CategoryID
		if id == "" {
			id = CategoryOtherExpense
		}

		byCategory[id] += tx.Amount
	}

	sum.Balance = sum.Income - sum.Expense

	for id, amount := range byCategory {
		sum.ByCategory = append(sum.ByCategory, CategoryTotal{
			CategoryID: id,
			Name:       CategoryLabel(id),
			Amount:     amount,
		})
	}

	slices.SortFunc(sum.ByCategory, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.CategoryID, b.CategoryID)
	})

	return sum
}
