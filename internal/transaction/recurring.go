package transaction

import (
	"context"
	"iter"

	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
)

// Expand yields the occurrences of a recurring base transaction that are not stored yet.
//
// Each date is checked against the repository only when the consumer asks for it, so a
// consumer that stores every yielded occurrence before continuing never races itself.
// A failed lookup is yielded once as an error and ends the sequence. Non-recurring bases
// and bases without a date yield nothing.
func (s *Service) Expand(ctx context.Context, base *Transaction) iter.Seq2[*Transaction, error] {
	return func(yield func(*Transaction, error) bool) {
		if base == nil || base.Recurrence == nil {
			return
		}

		for date := range recurrence.Dates(base.Date, *base.Recurrence) {
			occ := &Transaction{
				Type:       base.Type,
				Amount:     base.Amount,
				CategoryID: base.CategoryID,
				Date:       date,
				Note:       base.Note,
			}

			exists, err := s.repo.Exists(ctx, occ.Key())
			if err != nil {
				yield(nil, err)
				return
			}

			if exists {
				continue
			}

			if !yield(occ, nil) {
				return
			}
		}
	}
}
