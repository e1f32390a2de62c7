package engine

import (
	"time"

	"github.com/tartampluch/go-babyage/internal/config"
)

// CalendarCell describes one day of the month grid.
type CalendarCell struct {
	Date             CalendarDate `json:"date"`
	IsCurrentMonth   bool         `json:"isCurrentMonth"`
	IsToday          bool         `json:"isToday"`
	AgeInfo          *AgeLabels   `json:"ageInfo"` // nil without a birth date
	AchievementCount int          `json:"achievementCount"`

	// ChronologicalChanged is set on the day the chronological month count goes up by
	// one compared to the previous cell. Views print the age only on those days.
	ChronologicalChanged bool `json:"chronologicalChanged"`
	// CorrectedChanged is the same hint for the corrected month count.
	CorrectedChanged bool `json:"correctedChanged"`
}

// cellMonths holds the month counts used for the change hints. -1 means "not shown".
type cellMonths struct {
	chronological int
	corrected     int
}

// BuildMonth returns exactly 42 cells starting on the Sunday on or before the first
// day of anchor's month.
func BuildMonth(anchor, today CalendarDate, s AgeSettings, counts map[string]int) []CalendarCell {
	first := NewDate(anchor.Year(), anchor.Month(), 1)
	start := first.AddDays(-int(first.Weekday() - time.Sunday))

	cells := make([]CalendarCell, 0, config.CalendarGridCells)
	prev := cellMonths{chronological: -1, corrected: -1}

	for i := 0; i < config.CalendarGridCells; i++ {
		day := start.AddDays(i)
		cell := CalendarCell{
			Date:             day,
			IsCurrentMonth:   day.Year() == anchor.Year() && day.Month() == anchor.Month(),
			IsToday:          day.Equal(today),
			AchievementCount: counts[day.Key()],
		}

		cur := cellMonths{chronological: -1, corrected: -1}
		if !s.BirthDate.IsZero() {
			labels := ComputeAgeLabels(s, day)
			cell.AgeInfo = &labels
			cur = monthsAt(s, day, labels)
		}

		if i > 0 {
			cell.ChronologicalChanged = advancedByOne(prev.chronological, cur.chronological)
			cell.CorrectedChanged = advancedByOne(prev.corrected, cur.corrected)
		}

		cells = append(cells, cell)
		prev = cur
	}
	return cells
}

func monthsAt(s AgeSettings, day CalendarDate, labels AgeLabels) cellMonths {
	m := cellMonths{
		chronological: CalendarDiff(s.BirthDate, day).TotalMonths(),
		corrected:     -1,
	}
	if !labels.Suppressed {
		m.corrected = CalendarDiff(CorrectedBase(s), day).TotalMonths()
	}
	return m
}

func advancedByOne(prev, cur int) bool {
	return prev >= 0 && cur >= 0 && cur == prev+1
}
