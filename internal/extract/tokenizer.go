package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/cashly/internal/money"
)

// Token is a monetary amount found on a single line of text.
type Token struct {
	Cents    int64
	Negative bool
}

// signWindow is how many characters before an amount are searched for a minus sign.
const signWindow = 3

var (
	dashes = strings.NewReplacer(
		"‐", "-", // hyphen
		"‑", "-", // non-breaking hyphen
		"‒", "-", // figure dash
		"–", "-", // en dash
		"—", "-", // em dash
		"−", "-", // minus sign
	)
	whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)

	// OCR often reads the decimal comma as a space: "34 00€".
	spacedCents = regexp.MustCompile(`(\d{1,3})\s(\d{2})\s*€?`)
	// "1.234,56€", "1 234,56", "1234.56".
	groupedAmount = regexp.MustCompile(`(\d{1,4}(?:[.\s]\d{3})*(?:[.,]\d{2})|\d+[.,]\d{2})\s*€?`)
)

// normalizeLine applies NFKC, folds every dash variant to '-' and collapses whitespace.
func normalizeLine(line string) string {
	s := norm.NFKC.String(line)
	s = dashes.Replace(s)

	return whitespace.ReplaceAllString(s, " ")
}

// FindAmount returns the first amount on the line. The spaced-cents form wins over the
// grouped/decimal form. The amount is negative when a '-' appears within the three
// characters right before it. ok is false when the line has no amount at all.
func FindAmount(line string) (Token, bool) {
	s := normalizeLine(line)

	if m := spacedCents.FindStringSubmatchIndex(s); m != nil {
		cents, err := strconv.ParseInt(s[m[2]:m[3]]+s[m[4]:m[5]], 10, 64)
		if err != nil {
			return Token{}, false
		}

		return Token{Cents: cents, Negative: minusBefore(s, m[0])}, true
	}

	if m := groupedAmount.FindStringSubmatchIndex(s); m != nil {
		cents, err := money.ParseCents(s[m[2]:m[3]])
		if err != nil {
			return Token{}, false
		}

		return Token{Cents: cents, Negative: minusBefore(s, m[0])}, true
	}

	return Token{}, false
}

// minusBefore reports whether a '-' occurs in the signWindow runes preceding offset.
func minusBefore(s string, offset int) bool {
	prefix := []rune(s[:offset])
	start := max(0, len(prefix)-signWindow)

	return strings.ContainsRune(string(prefix[start:]), '-')
}
