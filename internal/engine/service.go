package engine

import "github.com/tartampluch/go-babyage/internal/config"

// AgeLabels is the age display of a single day. Corrected is set iff Suppressed is false.
type AgeLabels struct {
	Chronological string `json:"chronological"`
	Corrected     string `json:"corrected,omitempty"`
	Suppressed    bool   `json:"suppressed"`
}

// ComputeAgeLabels returns the chronological and, when it adds information, the
// corrected age of day.
func ComputeAgeLabels(s AgeSettings, day CalendarDate) AgeLabels {
	if s.BirthDate.IsZero() {
		return AgeLabels{Chronological: config.AgeZeroLabel, Suppressed: true}
	}

	chronological := FormatAge(CalendarDiff(s.BirthDate, day), s.AgeFormat)
	if !s.HasDueDate() {
		return AgeLabels{Chronological: chronological, Suppressed: true}
	}

	base := CorrectedBase(s)
	corrected := FormatAge(CalendarDiff(base, day), s.AgeFormat)

	if corrected == chronological || CorrectedLimitReached(base, day, s.ShowCorrectedUntilMonths) {
		return AgeLabels{Chronological: chronological, Suppressed: true}
	}
	return AgeLabels{Chronological: chronological, Corrected: corrected}
}

// CorrectedBase is the day corrected age counts from: the due date, or the birth date
// when the baby was born after it. Callers must check HasDueDate first.
func CorrectedBase(s AgeSettings) CalendarDate {
	return MaxDate(s.BirthDate, s.DueDate)
}

// CorrectedLimitReached reports whether target lies past base + limitMonths calendar
// months. A nil limit, or one at the 999 sentinel or above, never expires.
func CorrectedLimitReached(base, target CalendarDate, limitMonths *int) bool {
	if limitMonths == nil || *limitMonths >= config.UnlimitedCorrectedMonths {
		return false
	}
	return target.After(base.AddMonths(*limitMonths))
}

// AgeService binds the pure age functions to a clock.
type AgeService struct {
	Clock Clock
}

// NewAgeService returns a service reading the system clock.
func NewAgeService() *AgeService {
	return &AgeService{Clock: RealClock{}}
}

// Today returns the current calendar day.
func (a *AgeService) Today() CalendarDate {
	return Today(a.Clock)
}

// AgeToday computes the labels of the current day.
func (a *AgeService) AgeToday(s AgeSettings) AgeLabels {
	return ComputeAgeLabels(s, a.Today())
}

// MonthGrid builds the 42-cell grid of anchor's month with the clock's today marked.
func (a *AgeService) MonthGrid(anchor CalendarDate, s AgeSettings, counts map[string]int) []CalendarCell {
	return BuildMonth(anchor, a.Today(), s, counts)
}
