package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cashly/internal/recurrence"
)

func TestImportLockKey(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, importLockKey(jan, feb), importLockKey(jan, feb))
	assert.NotEqual(t, importLockKey(jan, feb), importLockKey(feb, jan))
}

func TestRecurrenceArgs(t *testing.T) {
	freq, endsOn := recurrenceArgs(nil)
	assert.False(t, freq.Valid)
	assert.False(t, endsOn.Valid)

	freq, endsOn = recurrenceArgs(&recurrence.Rule{Frequency: recurrence.FrequencyMonthly})
	assert.Equal(t, "monthly", freq.String)
	assert.True(t, freq.Valid)
	assert.False(t, endsOn.Valid)

	freq, endsOn = recurrenceArgs(&recurrence.Rule{Frequency: recurrence.FrequencyWeekly, EndsOn: "2025-06-30"})
	assert.Equal(t, "weekly", freq.String)
	assert.Equal(t, "2025-06-30", endsOn.String)
	assert.True(t, endsOn.Valid)
}
