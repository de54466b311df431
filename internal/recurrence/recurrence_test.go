package recurrence_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDates_MonthlyWithoutEnd(t *testing.T) {
	got := slices.Collect(recurrence.Dates(date(2025, 1, 15), recurrence.Rule{Frequency: recurrence.FrequencyMonthly}))
	require.Len(t, got, 12)

	for i, d := range got {
		assert.Equal(t, date(2025, 2+i, 1), d)
	}

	assert.Equal(t, date(2026, 1, 1), got[11])
}

func TestDates_MonthlyInclusiveEnd(t *testing.T) {
	rule := recurrence.Rule{Frequency: recurrence.FrequencyMonthly, EndsOn: "2025-03-01"}

	got := slices.Collect(recurrence.Dates(date(2025, 1, 15), rule))
	assert.Equal(t, []time.Time{date(2025, 2, 1), date(2025, 3, 1)}, got)
}

func TestDates_EndBeyondHorizonIsClamped(t *testing.T) {
	rule := recurrence.Rule{Frequency: recurrence.FrequencyMonthly, EndsOn: "2030-12-31"}

	got := slices.Collect(recurrence.Dates(date(2025, 1, 15), rule))
	require.Len(t, got, 12)
	assert.Equal(t, date(2026, 1, 1), got[len(got)-1])
}

func TestDates_UnparseableEndUsesHorizon(t *testing.T) {
	rule := recurrence.Rule{Frequency: recurrence.FrequencyMonthly, EndsOn: "pronto"}

	got := slices.Collect(recurrence.Dates(date(2025, 1, 15), rule))
	assert.Len(t, got, 12)
}

func TestDates_EndBeforeFirstOccurrence(t *testing.T) {
	rule := recurrence.Rule{Frequency: recurrence.FrequencyMonthly, EndsOn: "2025-01-31"}

	got := slices.Collect(recurrence.Dates(date(2025, 1, 15), rule))
	assert.Empty(t, got)
}

func TestDates_StartOnFirstOfMonth(t *testing.T) {
	got := slices.Collect(recurrence.Dates(date(2025, 1, 1), recurrence.Rule{Frequency: recurrence.FrequencyMonthly}))
	require.Len(t, got, 12)
	assert.Equal(t, date(2025, 2, 1), got[0])
	assert.Equal(t, date(2026, 1, 1), got[11])
}

func TestDates_Weekly(t *testing.T) {
	rule := recurrence.Rule{Frequency: recurrence.FrequencyWeekly, EndsOn: "2025-01-29"}

	got := slices.Collect(recurrence.Dates(date(2025, 1, 1), rule))
	assert.Equal(t, []time.Time{date(2025, 1, 8), date(2025, 1, 15), date(2025, 1, 22), date(2025, 1, 29)}, got)
}

func TestDates_WeeklyHorizon(t *testing.T) {
	got := slices.Collect(recurrence.Dates(date(2025, 1, 1), recurrence.Rule{Frequency: recurrence.FrequencyWeekly}))
	require.Len(t, got, 52)
	assert.Equal(t, date(2025, 12, 31), got[51])
}

func TestDates_ZeroStart(t *testing.T) {
	got := slices.Collect(recurrence.Dates(time.Time{}, recurrence.Rule{Frequency: recurrence.FrequencyMonthly}))
	assert.Empty(t, got)
}

func TestDates_UnknownFrequency(t *testing.T) {
	got := slices.Collect(recurrence.Dates(date(2025, 1, 1), recurrence.Rule{Frequency: "daily"}))
	assert.Empty(t, got)
}

func TestDates_StopsWhenConsumerStops(t *testing.T) {
	var got []time.Time

	for d := range recurrence.Dates(date(2025, 1, 15), recurrence.Rule{Frequency: recurrence.FrequencyMonthly}) {
		got = append(got, d)
		if len(got) == 3 {
			break
		}
	}

	assert.Len(t, got, 3)
}

func TestRule_End(t *testing.T) {
	start := date(2025, 1, 15)

	assert.Equal(t, date(2026, 1, 15), recurrence.Rule{}.End(start))
	assert.Equal(t, date(2025, 3, 2).Add(-time.Nanosecond), recurrence.Rule{EndsOn: "2025-03-01"}.End(start))
}
