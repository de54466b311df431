package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineState_Step(t *testing.T) {
	start := lineState{date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	s, _, ok := start.step("AMAZON EU")
	assert.False(t, ok)
	assert.Equal(t, "AMAZON EU", s.lastDescription)

	s, _, ok = s.step("2025-02-03")
	assert.False(t, ok)
	assert.Empty(t, s.lastDescription)
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), s.date)

	s, _, _ = s.step("AMAZON EU")
	next, c, ok := s.step("-19,99")
	assert.True(t, ok)
	assert.Equal(t, "AMAZON EU", c.Description)
	assert.Equal(t, s, next)

	// The original state is untouched: step works on a copy.
	assert.Empty(t, start.lastDescription)
}
