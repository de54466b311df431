// Package money converts between user-facing euro amounts and integer cents.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// ErrNotANumber is returned when no numeric value can be read from the input.
var ErrNotANumber = errors.New("not a number")

var (
	nonNumeric    = regexp.MustCompile(`[^\d,.\-]`)
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

var hundred = decimal.NewFromInt(100)

// ParseCents parses a loosely formatted European amount into cents.
// Dots are thousands separators and the first comma is the decimal point:
// "1.234,56 €" -> 123456, "-12,50" -> -1250, "1234.56" -> 12345600.
// Only the leading numeric part is read, so "12-50" yields 1200. Amounts that do not fit
// in int64 cents are ErrNotANumber.
func ParseCents(raw string) (int64, error) {
	s := norm.NFKC.String(raw)
	s = nonNumeric.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	num := numericPrefix.FindString(s)
	if num == "" {
		return 0, ErrNotANumber
	}

	num = strings.TrimSuffix(num, ".")
	num = strings.Replace(num, "-.", "-0.", 1)

	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, ErrNotANumber
	}

	v := d.Mul(hundred).Round(0)
	if !v.BigInt().IsInt64() {
		return 0, ErrNotANumber
	}

	return v.IntPart(), nil
}

var printer = message.NewPrinter(language.Spanish)

// Format renders cents the way the app shows money, e.g. 1250 -> "12,50 €".
func Format(cents int64) string {
	return printer.Sprintf("%.2f €", decimal.New(cents, -2).InexactFloat64())
}
