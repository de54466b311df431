package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

var now = time.Date(2025, 12, 1, 18, 30, 0, 0, time.UTC)

func TestDecode(t *testing.T) {
	type testCase struct {
		name        string
		input       string
		want        []transaction.CreateParams
		wantSkipped int
	}

	today := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name:  "Complete record",
			input: `[{"type":"income","amountCents":250000,"categoryId":"salary","date":"2025-11-28","note":"Nómina"}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeIncome, Amount: 250000, CategoryID: "salary", Date: time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC), Note: "Nómina"},
			},
		},
		{
			name:  "Unknown type becomes expense with expense default category",
			input: `[{"type":"gasto","amountCents":300,"date":"2025-11-02"}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeExpense, Amount: 300, CategoryID: transaction.CategoryOtherExpense, Date: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name:  "Timestamp date is cut to the day",
			input: `[{"type":"expense","amountCents":100,"date":"2025-10-05T13:45:00.000Z"}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeExpense, Amount: 100, CategoryID: transaction.CategoryOtherExpense, Date: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name:  "Non string date means today",
			input: `[{"type":"income","amountCents":100,"date":{"seconds":1700000000}}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeIncome, Amount: 100, CategoryID: transaction.CategoryOtherIncome, Date: today},
			},
		},
		{
			name:  "Truthy non string date means today",
			input: `[{"type":"expense","amountCents":100,"date":true},{"type":"expense","amountCents":200,"date":5}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeExpense, Amount: 100, CategoryID: transaction.CategoryOtherExpense, Date: today},
				{Type: transaction.TypeExpense, Amount: 200, CategoryID: transaction.CategoryOtherExpense, Date: today},
			},
		},
		{
			name: "Falsy required fields are skipped",
			input: `[
				{"amountCents":100,"date":"2025-01-01"},
				{"type":"","amountCents":100,"date":"2025-01-01"},
				{"type":"expense","amountCents":0,"date":"2025-01-01"},
				{"type":"expense","date":"2025-01-01"},
				{"type":"expense","amountCents":100,"date":""},
				{"type":"expense","amountCents":100,"date":null},
				{"type":false,"amountCents":100,"date":"2025-01-01"},
				{"type":0,"amountCents":100,"date":"2025-01-01"},
				{"type":"expense","amountCents":false,"date":"2025-01-01"},
				{"type":"expense","amountCents":"","date":"2025-01-01"},
				{"type":"expense","amountCents":100,"date":false},
				{"type":"expense","amountCents":100,"date":0},
				null,
				7
			]`,
			wantSkipped: 14,
		},
		{
			name: "Unusable values are skipped",
			input: `[
				{"type":"expense","amountCents":-100,"date":"2025-01-01"},
				{"type":"expense","amountCents":"mucho","date":"2025-01-01"},
				{"type":"expense","amountCents":100,"date":"2025-02-30"},
				{"type":"expense","amountCents":100,"date":"ayer"}
			]`,
			wantSkipped: 4,
		},
		{
			name:  "Good and bad records mixed",
			input: `[{"type":"expense","amountCents":"450","date":"2025-03-03","note":"Pan"},{"type":"expense"}]`,
			want: []transaction.CreateParams{
				{Type: transaction.TypeExpense, Amount: 450, CategoryID: transaction.CategoryOtherExpense, Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Note: "Pan"},
			},
			wantSkipped: 1,
		},
		{
			name:  "Empty array",
			input: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := decode(strings.NewReader(tt.input), now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestDecode_NotAnArray(t *testing.T) {
	_, _, err := decode(strings.NewReader(`{"type":"income"}`), now)
	assert.ErrorIs(t, err, ErrNotArray)

	_, _, err = decode(strings.NewReader(`[{"type":`), now)
	assert.Error(t, err)
}
