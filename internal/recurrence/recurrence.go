// Package recurrence computes the dates on which a recurring entry repeats.
package recurrence

import (
	"iter"
	"time"
)

// Frequency is how often a recurring entry repeats.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyWeekly
}

// MaxHorizon is how many years past the start date occurrences may be generated.
const MaxHorizon = 1

// Rule describes how an entry repeats. EndsOn is an optional YYYY-MM-DD date, inclusive.
type Rule struct {
	Frequency Frequency `json:"freq"`
	EndsOn    string    `json:"endsOn,omitempty"`
}

// Valid reports whether the rule has a known frequency. EndsOn is not checked.
func (r Rule) Valid() bool {
	return r.Frequency.Valid()
}

// End returns the last instant an occurrence may fall on. An EndsOn that is missing,
// unparseable or beyond the horizon is replaced by start plus the horizon.
func (r Rule) End(start time.Time) time.Time {
	limit := start.AddDate(MaxHorizon, 0, 0)

	if r.EndsOn == "" {
		return limit
	}

	ends, err := time.ParseInLocation(time.DateOnly, r.EndsOn, start.Location())
	if err != nil {
		return limit
	}

	endOfDay := ends.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if endOfDay.After(limit) {
		return limit
	}

	return endOfDay
}

// Dates yields the occurrence dates that follow start, in order, up to rule.End(start).
//
// Monthly occurrences always fall on the first day of each following month, whatever the
// day of month of start. Weekly occurrences fall every seven days after start.
// A zero start yields nothing.
func Dates(start time.Time, rule Rule) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if start.IsZero() {
			return
		}

		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		end := rule.End(start)

		var cursor time.Time

		var advance func(time.Time) time.Time

		switch rule.Frequency {
		case FrequencyMonthly:
			cursor = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
			advance = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		case FrequencyWeekly:
			cursor = start
			advance = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
		default:
			return
		}

		for {
			cursor = advance(cursor)
			if cursor.After(end) {
				return
			}

			if !yield(cursor) {
				return
			}
		}
	}
}
