package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestFloorDiv verifies rounding toward negative infinity, which the 30-day and 7-day
// slot arithmetic depends on before the due date.
func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 30, 0},
		{29, 30, 0},
		{30, 30, 1},
		{-1, 30, -1},
		{-30, 30, -1},
		{-31, 30, -2},
		{-61, 30, -3},
		{-1, 7, -1},
		{-7, 7, -1},
		{-8, 7, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "floorDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 2, ceilDiv(13, 12))
	assert.Equal(t, 4, ceilDiv(37, 12))
	assert.Equal(t, 1, ceilDiv(12, 12))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 28, daysIn(2025, time.February))
	assert.Equal(t, 29, daysIn(2024, time.February))
	assert.Equal(t, 31, daysIn(2026, 0), "Month 0 is December of the previous year")
	assert.Equal(t, 30, daysIn(2026, -1), "Month -1 is November of the previous year")
}

// TestCorrectedLabel_GestationalWeeks sweeps the days before a due date and checks
// that only the 4-week milestones from week 22 get a label.
func TestCorrectedLabel_GestationalWeeks(t *testing.T) {
	due := MustParseDate("2025-06-30")
	labels := DefaultAxisLabels()

	seen := map[string]bool{}
	for diff := -200; diff < 0; diff++ {
		text, zero := correctedLabel(due, due.AddDays(diff), labels)
		assert.False(t, zero)
		if text != nil {
			seen[*text] = true
		}
	}
	assert.Equal(t, map[string]bool{"22w": true, "26w": true, "30w": true, "34w": true, "38w": true}, seen)

	text, zero := correctedLabel(due, due, labels)
	assert.Equal(t, "予定日", *text)
	assert.True(t, zero)

	text, zero = correctedLabel(due, due.AddDays(29), labels)
	assert.Equal(t, "予定日", *text, "The whole first 30-day slot is month zero")
	assert.True(t, zero)

	text, _ = correctedLabel(due, due.AddDays(30), labels)
	assert.Equal(t, "修1M", *text)
}
