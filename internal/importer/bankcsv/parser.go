// Package bankcsv reads the CSV statements Spanish banks export.
package bankcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/cashly/internal/encoding"
	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

var ErrUnknownLayout = errors.New("no known statement layout found")

var dateLayouts = []string{"02/01/2006", "02-01-2006", time.DateOnly, "02/01/06"}

// delimiters are tried in order. Semicolons come first because amounts use decimal commas.
var delimiters = []rune{';', ',', '\t'}

// Parser finds the header row of a statement by matching it against the known profiles.
// Bank preambles above the header and footers below the movements are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	text, err := enc.ReadString(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var readErr error

	for _, delim := range delimiters {
		rows, err := readRows(text, delim)
		if err != nil {
			readErr = err
			continue
		}

		if l, ok := findLayout(rows); ok {
			return l.convert(rows[l.header+1:]), nil
		}
	}

	if readErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownLayout, readErr)
	}

	return nil, ErrUnknownLayout
}

func readRows(text string, delim rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// layout is a profile resolved against one header row: column positions, and the index of
// the header itself.
type layout struct {
	profile *Profile
	header  int

	date, desc            int
	amount, debit, credit int
}

func findLayout(rows [][]string) (layout, bool) {
	for i, row := range rows {
		names := headerNames(row)

		for pi := range profiles {
			if l, ok := resolve(&profiles[pi], names); ok {
				l.header = i
				return l, true
			}
		}
	}

	return layout{}, false
}

// headerNames maps lower-cased cell text to its position. A repeated name keeps its
// first position.
func headerNames(row []string) map[string]int {
	names := make(map[string]int, len(row))

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, seen := names[name]; name != "" && !seen {
			names[name] = i
		}
	}

	return names
}

func resolve(p *Profile, names map[string]int) (layout, bool) {
	for _, col := range p.requiredCols() {
		if _, ok := names[col]; !ok {
			return layout{}, false
		}
	}

	l := layout{
		profile: p,
		date:    names[p.DateCol],
		desc:    names[p.DescCol],
		amount:  -1,
		debit:   -1,
		credit:  -1,
	}

	if p.AmountMode == amountSplit {
		l.debit, l.credit = names[p.DebitCol], names[p.CreditCol]
	} else {
		l.amount = names[p.AmountCol]
	}

	return l, true
}

func (l layout) convert(rows [][]string) []transaction.CreateParams {
	var out []transaction.CreateParams

	for _, cells := range rows {
		if params, ok := l.row(cells); ok {
			out = append(out, params)
		}
	}

	return out
}

// row converts one statement line. Footers, running balance lines and blank rows lack a
// valid date or a nonzero amount and are dropped.
func (l layout) row(cells []string) (transaction.CreateParams, bool) {
	date, ok := parseDate(cell(cells, l.date))
	if !ok {
		return transaction.CreateParams{}, false
	}

	var cents int64
	if l.profile.AmountMode == amountSplit {
		cents, ok = splitAmount(cell(cells, l.debit), cell(cells, l.credit))
	} else {
		cents, ok = signedAmount(cell(cells, l.amount))
	}

	if !ok {
		return transaction.CreateParams{}, false
	}

	txType := transaction.TypeIncome
	if cents < 0 {
		txType = transaction.TypeExpense
		cents = -cents
	}

	note := strings.Join(strings.Fields(cell(cells, l.desc)), " ")
	if note == "" {
		note = extract.DefaultDescription
	}

	return transaction.CreateParams{
		Type:       txType,
		Amount:     cents,
		CategoryID: transaction.DefaultCategory(txType),
		Date:       date,
		Note:       note,
	}, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// signedAmount reads one amount column where expenses are negative.
func signedAmount(s string) (int64, bool) {
	cents, err := money.ParseCents(s)
	return cents, err == nil && cents != 0
}

// splitAmount folds debit and credit columns into one signed amount. The debit column
// wins; some banks write debits as negatives, others as positives.
func splitAmount(debit, credit string) (int64, bool) {
	if cents, ok := signedAmount(debit); ok {
		return -abs(cents), true
	}

	if cents, ok := signedAmount(credit); ok {
		return abs(cents), true
	}

	return 0, false
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}

	return strings.TrimSpace(cells[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
