package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-babyage/internal/engine"
)

// TestBuildMonth_Shape runs every month of three years and checks the grid contract.
func TestBuildMonth_Shape(t *testing.T) {
	today := engine.MustParseDate("2025-11-15")

	for year := 2024; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			anchor := engine.NewDate(year, month, 15)
			cells := engine.BuildMonth(anchor, today, prematureSettings(), nil)

			require.Len(t, cells, 42)
			assert.Equal(t, time.Sunday, cells[0].Date.Weekday(), "Grid starts on Sunday")
			assert.False(t, cells[0].Date.After(engine.NewDate(year, month, 1)), "Grid starts on or before the 1st")

			inMonth := 0
			for i, c := range cells {
				if i > 0 {
					assert.Equal(t, cells[i-1].Date.AddDays(1), c.Date, "Cells are consecutive days")
				}
				if c.IsCurrentMonth {
					inMonth++
				}
			}
			daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			assert.Equal(t, daysInMonth, inMonth, "%d-%02d", year, month)
		}
	}
}

func TestBuildMonth_StartDay(t *testing.T) {
	// November 1st 2025 is a Saturday; June 1st 2025 is a Sunday.
	nov := engine.BuildMonth(engine.MustParseDate("2025-11-20"), engine.CalendarDate{}, engine.AgeSettings{}, nil)
	assert.Equal(t, "2025-10-26", nov[0].Date.Key())
	assert.Equal(t, "2025-12-06", nov[41].Date.Key())

	jun := engine.BuildMonth(engine.MustParseDate("2025-06-30"), engine.CalendarDate{}, engine.AgeSettings{}, nil)
	assert.Equal(t, "2025-06-01", jun[0].Date.Key())
	assert.True(t, jun[0].IsCurrentMonth)
}

func TestBuildMonth_TodayCountsAndAges(t *testing.T) {
	today := engine.MustParseDate("2025-11-15")
	counts := map[string]int{"2025-11-03": 2, "2025-10-27": 1, "2024-01-01": 9}

	cells := engine.BuildMonth(today, today, prematureSettings(), counts)

	todays := 0
	for _, c := range cells {
		if c.IsToday {
			todays++
			assert.Equal(t, today, c.Date)
		}
		require.NotNil(t, c.AgeInfo)
		switch c.Date.Key() {
		case "2025-11-03":
			assert.Equal(t, 2, c.AchievementCount)
		case "2025-10-27":
			assert.Equal(t, 1, c.AchievementCount)
		default:
			assert.Zero(t, c.AchievementCount)
		}
	}
	assert.Equal(t, 1, todays)

	// Day 20 of the grid is 2025-11-15.
	assert.Equal(t, engine.AgeLabels{Chronological: "1m14d", Corrected: "0d"}, *cells[20].AgeInfo)
}

func TestBuildMonth_WithoutBirthDate(t *testing.T) {
	cells := engine.BuildMonth(engine.MustParseDate("2025-11-15"), engine.CalendarDate{}, engine.AgeSettings{}, nil)
	for _, c := range cells {
		assert.Nil(t, c.AgeInfo)
		assert.False(t, c.ChronologicalChanged)
		assert.False(t, c.CorrectedChanged)
	}
}

// TestBuildMonth_ChangeHints checks that the month counters flag only the day they
// increase on. January 2026 starts on Thursday, so the grid opens on 2025-12-28.
func TestBuildMonth_ChangeHints(t *testing.T) {
	cells := engine.BuildMonth(engine.MustParseDate("2026-01-10"), engine.CalendarDate{}, prematureSettings(), nil)
	require.Equal(t, "2025-12-28", cells[0].Date.Key())

	changedChrono := map[string]bool{}
	changedCorr := map[string]bool{}
	for _, c := range cells {
		if c.ChronologicalChanged {
			changedChrono[c.Date.Key()] = true
		}
		if c.CorrectedChanged {
			changedCorr[c.Date.Key()] = true
		}
	}

	assert.Equal(t, map[string]bool{"2026-01-01": true, "2026-02-01": true}, changedChrono)
	assert.Equal(t, map[string]bool{"2026-01-01": true, "2026-02-01": true}, changedCorr)
	assert.False(t, cells[0].ChronologicalChanged, "First cell has no predecessor")
}

func TestBuildMonth_ChangeHintsWithoutDueDate(t *testing.T) {
	s := prematureSettings()
	s.DueDate = engine.CalendarDate{}

	cells := engine.BuildMonth(engine.MustParseDate("2025-11-01"), engine.CalendarDate{}, s, nil)
	for _, c := range cells {
		switch c.Date.Key() {
		case "2025-11-01", "2025-12-01":
			assert.True(t, c.ChronologicalChanged, c.Date.Key())
		default:
			assert.False(t, c.ChronologicalChanged, c.Date.Key())
		}
		assert.False(t, c.CorrectedChanged, "Corrected age is never shown without a due date")
	}
}

func TestBuildMonth_Idempotent(t *testing.T) {
	anchor := engine.MustParseDate("2026-02-14")
	counts := map[string]int{"2026-02-14": 3}

	first := engine.BuildMonth(anchor, anchor, prematureSettings(), counts)
	second := engine.BuildMonth(anchor, anchor, prematureSettings(), counts)
	assert.Equal(t, first, second)
}

func TestAgeService_MonthGrid(t *testing.T) {
	svc := &engine.AgeService{Clock: MockClock{CurrentTime: time.Date(2025, 11, 15, 8, 0, 0, 0, time.UTC)}}

	cells := svc.MonthGrid(engine.MustParseDate("2025-11-01"), prematureSettings(), nil)
	require.Len(t, cells, 42)
	assert.True(t, cells[20].IsToday)
}
