// Package extract turns noisy OCR or pasted statement text into transaction candidates.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// minDescriptionLen is the shortest stripped line accepted as its own description.
const minDescriptionLen = 4

var (
	isoDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	dmyDate = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
	letter  = regexp.MustCompile(`[A-Za-zÁÉÍÓÚáéíóúñÑ]`)

	// Trailing run of currency, digits, separators and dashes: "Mercadona  -23,40 €".
	trailingAmount = regexp.MustCompile(`\s*€?\s*[\d\s.,−–—-]{3,}\s*€?\s*$`)
)

// Extractor finds candidates in free text. The zero value is not usable; use New.
type Extractor struct {
	now func() time.Time
}

func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewWithClock returns an Extractor that uses now to decide what "today" is.
func NewWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Candidates returns the candidates found in text in source line order. The line-by-line
// pass runs first; the fallback pass only runs when it finds nothing.
func (e *Extractor) Candidates(text string) []Candidate {
	lines := splitLines(text)
	today := dateOnly(e.now())

	if out := scanLines(lines, today); len(out) > 0 {
		return out
	}

	return fallback(lines, today)
}

// lineState is carried from one line to the next while scanning.
type lineState struct {
	date            time.Time
	lastDescription string
}

// scanLines folds lineState over lines, collecting one candidate per amount line.
func scanLines(lines []string, today time.Time) []Candidate {
	state := lineState{date: today}

	var out []Candidate

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		var (
			c  Candidate
			ok bool
		)

		state, c, ok = state.step(line)
		if ok {
			out = append(out, c)
		}
	}

	return out
}

// step consumes one trimmed, non-empty line and returns the next state and, when the line
// carries an amount, the candidate it yields.
func (s lineState) step(line string) (lineState, Candidate, bool) {
	if date, isDateLine := parseDateLine(line); isDateLine {
		if !date.IsZero() {
			s.date = date
		}

		s.lastDescription = ""

		return s, Candidate{}, false
	}

	tok, found := FindAmount(line)
	if !found || tok.Cents == 0 {
		if letter.MatchString(line) {
			s.lastDescription = line
		}

		return s, Candidate{}, false
	}

	description := strings.TrimSpace(trailingAmount.ReplaceAllString(line, ""))
	if utf8.RuneCountInString(description) < minDescriptionLen && s.lastDescription != "" {
		description = s.lastDescription
	}

	if description == "" {
		description = DefaultDescription
	}

	return s, newCandidate(tok, s.date, description), true
}

// fallback treats every line on its own: any nonzero amount becomes a candidate dated today.
func fallback(lines []string, today time.Time) []Candidate {
	var out []Candidate

	for _, line := range lines {
		tok, found := FindAmount(line)
		if !found || tok.Cents == 0 {
			continue
		}

		out = append(out, newCandidate(tok, today, FallbackDescription))
	}

	return out
}

// parseDateLine reports whether the line holds a date. The returned time is zero when the
// line looks like a date but is not a real calendar day ("31/02/2025").
func parseDateLine(line string) (time.Time, bool) {
	if m := isoDate.FindStringSubmatch(line); m != nil {
		return calendarDate(m[1], m[2], m[3]), true
	}

	if m := dmyDate.FindStringSubmatch(line); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}

		return calendarDate(year, m[2], m[1]), true
	}

	return time.Time{}, false
}

func calendarDate(year, month, day string) time.Time {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)

	if errY != nil || errM != nil || errD != nil {
		return time.Time{}
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}
	}

	return t
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

// dateOnly returns midnight of t's UTC calendar day.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
