package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrInvalidDateFormat is returned for any date string that is not a real YYYY-MM-DD day.
var ErrInvalidDateFormat = errors.New(config.ErrInvalidDateFormat)

const secondsPerDay = 24 * 60 * 60

// keyPattern only checks the shape; the calendar check is done by round-tripping.
var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CalendarDate is a day without time of day, stored as a UTC midnight instant.
// The zero value means "no date", so 0001-01-01 itself is not representable and
// ParseDate rejects it.
type CalendarDate struct {
	t time.Time
}

// NewDate builds a CalendarDate. Out-of-range values are normalized the way time.Date does;
// use ParseDate for untrusted input.
func NewDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day in the instant's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the clock's current calendar day as a UTC midnight date.
func Today(c Clock) CalendarDate {
	return DateOf(c.Now())
}

// ParseDate accepts exactly "YYYY-MM-DD" naming a day that exists.
// "2025-02-30" is rejected instead of rolling over into March.
func ParseDate(text string) (CalendarDate, error) {
	if !keyPattern.MatchString(text) {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
	}

	t, err := time.Parse(config.DateFormatKey, text)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
	}

	d := DateOf(t)
	if d.Key() != text {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
	}
	return d, nil
}

// ParseOptionalDate treats an empty (or blank) string as an absent date.
func ParseOptionalDate(text string) (CalendarDate, error) {
	if strings.TrimSpace(text) == "" {
		return CalendarDate{}, nil
	}
	return ParseDate(text)
}

// MustParseDate is ParseDate for literals known to be valid. It panics otherwise.
func MustParseDate(text string) CalendarDate {
	d, err := ParseDate(text)
	if err != nil {
		panic(err)
	}
	return d
}

// Key is the canonical zero-padded "YYYY-MM-DD" form. Keys sort chronologically.
func (d CalendarDate) Key() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(config.DateFormatKey)
}

// String implements fmt.Stringer.
func (d CalendarDate) String() string {
	return d.Key()
}

// IsZero reports whether the date is absent.
func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the UTC midnight instant of the day.
func (d CalendarDate) Time() time.Time {
	return d.t
}

func (d CalendarDate) Year() int { return d.t.Year() }

func (d CalendarDate) Month() time.Month { return d.t.Month() }

func (d CalendarDate) Day() int { return d.t.Day() }

func (d CalendarDate) Weekday() time.Weekday { return d.t.Weekday() }

// Before reports whether d is an earlier day than o.
func (d CalendarDate) Before(o CalendarDate) bool { return d.t.Before(o.t) }

// After reports whether d is a later day than o.
func (d CalendarDate) After(o CalendarDate) bool { return d.t.After(o.t) }

// Equal reports whether both dates name the same day.
func (d CalendarDate) Equal(o CalendarDate) bool { return d.t.Equal(o.t) }

// AddDays moves by n calendar days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{t: d.t.AddDate(0, 0, n)}
}

// AddMonths moves by n calendar months. Days past the end of the target month
// overflow into the next one, like time.AddDate (Jan 31 + 1 month = Mar 3 in 2025).
func (d CalendarDate) AddMonths(n int) CalendarDate {
	return CalendarDate{t: d.t.AddDate(0, n, 0)}
}

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	// Both are UTC midnights, so the division is exact. Unix seconds avoid the
	// ~292 year saturation of time.Duration.
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

// MaxDate returns the later of two dates.
func MaxDate(a, b CalendarDate) CalendarDate {
	if b.After(a) {
		return b
	}
	return a
}

// MarshalText encodes the key form; an absent date encodes as "".
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.Key()), nil
}

// UnmarshalText decodes the key form strictly; "" decodes to the zero date.
func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseOptionalDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// daysIn returns the length of a month, following year boundaries for month 0 or 13.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
