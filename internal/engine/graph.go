package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrUnsupportedPeriod is returned for graph periods other than 1y, 3y and all.
var ErrUnsupportedPeriod = errors.New(config.ErrUnsupportedPeriod)

// Period selects the bucket width and horizon of the graph.
type Period string

const (
	PeriodOneYear   Period = config.PeriodOneYear
	PeriodThreeYear Period = config.PeriodThreeYear
	PeriodAll       Period = config.PeriodAll
)

// ParsePeriod validates a requested period.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodOneYear, PeriodThreeYear, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPeriod, s)
	}
}

// monthHorizon is the last month bucket index of a month-based period.
func (p Period) monthHorizon() int {
	if p == PeriodThreeYear {
		return 3 * config.MonthsPerYear
	}
	return config.MonthsPerYear
}

// AxisLabelFormats renders the axis texts. The zero value is not usable; start from
// DefaultAxisLabels.
type AxisLabelFormats struct {
	Month     func(n int) string
	Year      func(n int) string
	Corrected func(n int) string
	Week      func(week int) string
	DueDate   string
}

// DefaultAxisLabels returns the built-in label set ("3M", "2Y", "修3M", "予定日", "30w").
func DefaultAxisLabels() AxisLabelFormats {
	return AxisLabelFormats{
		Month:     func(n int) string { return fmt.Sprintf(config.AxisLabelMonth, n) },
		Year:      func(n int) string { return fmt.Sprintf(config.AxisLabelYear, n) },
		Corrected: func(n int) string { return fmt.Sprintf(config.AxisLabelCorrected, n) },
		Week:      func(w int) string { return fmt.Sprintf(config.AxisLabelWeek, w) },
		DueDate:   config.AxisLabelDueDate,
	}
}

// GraphInput gathers everything a graph build depends on.
type GraphInput struct {
	Period                 Period
	BirthDate              CalendarDate
	DueDate                CalendarDate // zero when unknown
	EnablePrematureDisplay bool
	Records                []Record
	Labels                 *AxisLabelFormats // nil selects DefaultAxisLabels
}

// GraphBucket is one slot of the graph.
type GraphBucket struct {
	Key                   string  `json:"key"`
	TriedCount            int     `json:"triedCount"`
	DidCount              int     `json:"didCount"`
	Cumulative            int     `json:"cumulative"`
	ActualLabel           string  `json:"actualLabel"`
	CorrectedLabel        *string `json:"correctedLabel"`
	ShowActualLabel       bool    `json:"showActualLabel"`
	ShowCorrectedLabel    bool    `json:"showCorrectedLabel"`
	ShowCorrectedZeroLine bool    `json:"showCorrectedZeroLine"`
}

// AxisLabelInfo describes one visible tick of the axis.
type AxisLabelInfo struct {
	Index     int    `json:"index"`
	Key       string `json:"key"`
	Actual    string `json:"actual"`
	Corrected string `json:"corrected,omitempty"`
	ZeroLine  bool   `json:"zeroLine"`
}

// GraphResult is the output of BuildBuckets.
type GraphResult struct {
	Buckets []GraphBucket   `json:"buckets"`
	Labels  []AxisLabelInfo `json:"labels"`
	Dropped int             `json:"dropped"`
}

// CorrectedAxisEnabled reports whether the corrected axis is drawn: the premature
// display must be on, the due date more than three weeks after birth, and the period
// month-based.
func CorrectedAxisEnabled(in GraphInput) bool {
	return in.EnablePrematureDisplay &&
		!in.DueDate.IsZero() &&
		in.BirthDate.DaysUntil(in.DueDate) > config.PrematureMinDays &&
		in.Period != PeriodAll
}

// BuildBuckets aggregates records into month or year buckets and lays out the axis.
//
// Month buckets are fixed 30-day slots counted from birth, not calendar months; this
// differs from CalendarDiff on purpose and moving to calendar months would shift
// bucket boundaries. The year buckets of "all" follow birthdays (ActualYear).
func BuildBuckets(in GraphInput) (GraphResult, error) {
	if _, err := ParsePeriod(string(in.Period)); err != nil {
		return GraphResult{}, err
	}
	if in.BirthDate.IsZero() {
		return GraphResult{Buckets: []GraphBucket{}, Labels: []AxisLabelInfo{}}, nil
	}

	labels := DefaultAxisLabels()
	if in.Labels != nil {
		labels = *in.Labels
	}

	monthly := in.Period != PeriodAll
	indexOf := func(day CalendarDate) int {
		if monthly {
			return floorDiv(in.BirthDate.DaysUntil(day), config.BucketMonthDays)
		}
		return ActualYear(in.BirthDate, day)
	}

	horizon := 0
	if monthly {
		horizon = in.Period.monthHorizon()
	} else {
		for _, r := range in.Records {
			if y := indexOf(r.Day); y > horizon {
				horizon = y
			}
		}
	}

	buckets := make([]GraphBucket, horizon+1)
	dropped := 0
	for _, r := range in.Records {
		idx := indexOf(r.Day)
		if idx < 0 || idx > horizon {
			dropped++
			continue
		}
		switch r.Type {
		case Did:
			buckets[idx].DidCount++
		case Tried:
			buckets[idx].TriedCount++
		}
	}

	step := 1
	if len(buckets) > config.MaxAxisLabels {
		step = ceilDiv(len(buckets), config.MaxAxisLabels)
	}
	corrected := CorrectedAxisEnabled(in)

	axis := make([]AxisLabelInfo, 0, len(buckets)/step+1)
	running := 0
	for i := range buckets {
		b := &buckets[i]

		var slot CalendarDate
		if monthly {
			slot = in.BirthDate.AddDays(i * config.BucketMonthDays)
			b.ActualLabel = labels.Month(i)
		} else {
			slot = in.BirthDate.AddMonths(i * config.MonthsPerYear)
			b.ActualLabel = labels.Year(i)
		}
		b.Key = slot.Key()

		running += b.TriedCount + b.DidCount
		b.Cumulative = running
		b.ShowActualLabel = i%step == 0

		if corrected {
			text, zero := correctedLabel(in.DueDate, slot, labels)
			b.CorrectedLabel = text
			b.ShowCorrectedZeroLine = zero
			b.ShowCorrectedLabel = text != nil && b.ShowActualLabel
		}

		if b.ShowActualLabel {
			info := AxisLabelInfo{Index: i, Key: b.Key, Actual: b.ActualLabel, ZeroLine: b.ShowCorrectedZeroLine}
			if b.ShowCorrectedLabel {
				info.Corrected = *b.CorrectedLabel
			}
			axis = append(axis, info)
		}
	}

	if dropped > 0 {
		slog.Debug(config.MsgRecordsDropped,
			config.LogKeyComponent, config.CompGraph,
			config.LogKeyPeriod, string(in.Period),
			config.LogKeyDropped, dropped)
	}
	slog.Debug(config.MsgBucketsBuilt,
		config.LogKeyComponent, config.CompGraph,
		config.LogKeyPeriod, string(in.Period),
		config.LogKeyBuckets, len(buckets))

	return GraphResult{Buckets: buckets, Labels: axis, Dropped: dropped}, nil
}

// correctedLabel annotates a month slot relative to the due date. Before the due date
// only 4-week gestational milestones from week 22 are labelled; the slot holding the
// due date gets the due-date marker and the zero line.
func correctedLabel(due, slot CalendarDate, labels AxisLabelFormats) (*string, bool) {
	diff := due.DaysUntil(slot)
	month := floorDiv(diff, config.BucketMonthDays)

	switch {
	case month < 0:
		week := config.TermWeeks + floorDiv(diff, config.GestationWeekDays)
		if week >= config.MinGestationalWeek && (week-config.MinGestationalWeek)%config.GestationalWeekStep == 0 {
			text := labels.Week(week)
			return &text, false
		}
		return nil, false
	case month == 0:
		text := labels.DueDate
		return &text, true
	default:
		text := labels.Corrected(month)
		return &text, false
	}
}

// floorDiv divides rounding toward negative infinity, unlike Go's truncating "/".
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
