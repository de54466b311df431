package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

var ErrNotArray = errors.New("backup must be a JSON array of transactions")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("truthy", truthy); err != nil {
		panic(err)
	}

	return v
}

// truthy fails on null, "", false, 0 and NaN. required alone lets them through on
// interface fields.
func truthy(fl validator.FieldLevel) bool {
	f := fl.Field()

	switch f.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String:
		return f.String() != ""
	case reflect.Bool:
		return f.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return f.Float() != 0 && !math.IsNaN(f.Float())
	default:
		return true
	}
}

// rawRecord accepts whatever a hand edited backup may contain. Records whose type, amount
// or date is missing, null, empty, false or zero are skipped.
type rawRecord struct {
	Type        any `json:"type" validate:"required,truthy"`
	AmountCents any `json:"amountCents" validate:"required,truthy"`
	CategoryID  any `json:"categoryId"`
	Date        any `json:"date" validate:"required,truthy"`
	Note        any `json:"note"`
}

// Decode reads a backup and returns the params of every usable record, in file order,
// together with the number of records skipped.
func Decode(r io.Reader) ([]transaction.CreateParams, int, error) {
	return decode(r, time.Now())
}

func decode(r io.Reader, now time.Time) ([]transaction.CreateParams, int, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, 0, ErrNotArray
		}

		return nil, 0, fmt.Errorf("decoding backup: %w", err)
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		params  []transaction.CreateParams
		skipped int
	)

	for _, raw := range raws {
		p, ok := parseRecord(raw, today)
		if !ok {
			skipped++
			continue
		}

		params = append(params, p)
	}

	return params, skipped, nil
}

func parseRecord(raw json.RawMessage, today time.Time) (transaction.CreateParams, bool) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return transaction.CreateParams{}, false
	}

	if err := validate.Struct(rec); err != nil {
		return transaction.CreateParams{}, false
	}

	txType := transaction.TypeExpense
	if s, _ := rec.Type.(string); s == string(transaction.TypeIncome) {
		txType = transaction.TypeIncome
	}

	amount, ok := cents(rec.AmountCents)
	if !ok {
		return transaction.CreateParams{}, false
	}

	date := today

	if s, isString := rec.Date.(string); isString {
		d, err := time.Parse(time.DateOnly, firstRunes(s, len(time.DateOnly)))
		if err != nil {
			return transaction.CreateParams{}, false
		}

		date = d
	}

	category, _ := rec.CategoryID.(string)
	if category == "" {
		category = transaction.DefaultCategory(txType)
	}

	note, _ := rec.Note.(string)

	return transaction.CreateParams{
		Type:       txType,
		Amount:     amount,
		CategoryID: category,
		Date:       date,
		Note:       note,
	}, true
}

// cents accepts JSON numbers and numeric strings holding a positive amount.
func cents(v any) (int64, bool) {
	var f float64

	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}

		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	c := int64(math.Round(f))
	if c <= 0 {
		return 0, false
	}

	return c, true
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}

	return string(r)
}
