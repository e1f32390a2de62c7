package engine

import "github.com/tartampluch/go-babyage/internal/config"

// AgeParts is the calendar-correct decomposition of the time between two days.
// Months is always 0..11 and no field is ever negative.
type AgeParts struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// TotalMonths folds the years into the month count.
func (p AgeParts) TotalMonths() int {
	return p.Years*config.MonthsPerYear + p.Months
}

// CalendarDiff returns the years, months and days from base to target using real
// month lengths. A target before base yields the zero age.
//
// Negative days borrow the length of the month preceding target's month; when that
// month is shorter than the deficit (only February can be) the borrow continues into
// the month before it. diff(2025-01-31, 2025-03-01) is therefore {0, 0, 29}.
func CalendarDiff(base, target CalendarDate) AgeParts {
	if target.Before(base) {
		return AgeParts{}
	}

	years := target.Year() - base.Year()
	months := int(target.Month()) - int(base.Month())
	days := target.Day() - base.Day()

	borrowMonth := target.Month()
	for days < 0 {
		borrowMonth--
		// time.Date normalizes month 0 to December of the previous year.
		days += daysIn(target.Year(), borrowMonth)
		months--
	}

	for months < 0 {
		months += config.MonthsPerYear
		years--
	}

	return AgeParts{Years: years, Months: months, Days: days}
}

// AddAge moves base forward by parts, normalizing overflowing days like time.AddDate.
// For target >= base, AddAge(base, CalendarDiff(base, target)) == target.
func AddAge(base CalendarDate, parts AgeParts) CalendarDate {
	return CalendarDate{t: base.t.AddDate(parts.Years, parts.Months, parts.Days)}
}

// ActualYear is the number of completed birthdays at target. It is negative for
// days before the birth year's anniversary would allow, e.g. -1 for the day before birth.
func ActualYear(birth, target CalendarDate) int {
	years := target.Year() - birth.Year()
	if target.Month() < birth.Month() ||
		(target.Month() == birth.Month() && target.Day() < birth.Day()) {
		years--
	}
	return years
}
