package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-babyage/internal/config"
)

// uidNamespace makes event UIDs stable across refreshes so calendar clients update
// events in place instead of duplicating them.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespaceSeed))

// MilestoneKind classifies exported events.
type MilestoneKind int

const (
	MilestoneBirth MilestoneKind = iota
	MilestoneMonth
	MilestoneDueDate
)

// Milestone is one exported all-day event.
type Milestone struct {
	Kind   MilestoneKind
	Month  int // months since birth, for MilestoneMonth
	Day    CalendarDate
	Labels AgeLabels
}

// SummaryFunc lets the i18n layer word the event titles.
type SummaryFunc func(name string, m Milestone) string

// MilestoneExporter renders the monthly birthdays of the profile as an iCalendar feed.
type MilestoneExporter struct {
	Clock         Clock
	FormatSummary SummaryFunc // nil selects the English fallbacks
}

// Milestones lists the birth, the monthly birthdays up to months and the due date,
// each with its age labels. It returns nil without a birth date.
func Milestones(s AgeSettings, months int) []Milestone {
	if s.BirthDate.IsZero() {
		return nil
	}

	list := []Milestone{{
		Kind:   MilestoneBirth,
		Day:    s.BirthDate,
		Labels: ComputeAgeLabels(s, s.BirthDate),
	}}
	for m := 1; m <= months; m++ {
		day := s.BirthDate.AddMonths(m)
		list = append(list, Milestone{
			Kind:   MilestoneMonth,
			Month:  m,
			Day:    day,
			Labels: ComputeAgeLabels(s, day),
		})
	}
	if s.HasDueDate() && !s.DueDate.Equal(s.BirthDate) {
		list = append(list, Milestone{
			Kind:   MilestoneDueDate,
			Day:    s.DueDate,
			Labels: ComputeAgeLabels(s, s.DueDate),
		})
	}
	return list
}

// Export returns the ICS document and its event count.
func (e *MilestoneExporter) Export(ctx context.Context, s AgeSettings, months int) ([]byte, int, error) {
	milestones := Milestones(s, months)
	if len(milestones) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(e.Clock.Now().UTC())

	name := s.Name
	if name == "" {
		name = config.FallbackName
	}
	format := e.FormatSummary
	if format == nil {
		format = fallbackSummary
	}

	for _, m := range milestones {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		event := ical.NewEvent()
		input := fmt.Sprintf(config.FormatUIDInput, s.BirthDate.Key(), m.Day.Key(), m.Kind)
		uid := uuid.NewSHA1(uidNamespace, []byte(input))
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.ICalUIDFormat, uid, config.ICalDomain))
		event.Props.SetText(config.PropSummary, format(name, m))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(m.Day.Time())
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgExportSuccess,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyEvents, len(milestones),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), len(milestones), nil
}

func fallbackSummary(name string, m Milestone) string {
	switch m.Kind {
	case MilestoneBirth:
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	case MilestoneDueDate:
		return fmt.Sprintf(config.FallbackSummaryDue, name)
	}
	if m.Labels.Suppressed {
		return fmt.Sprintf(config.FallbackSummaryAge, m.Labels.Chronological)
	}
	return fmt.Sprintf(config.FallbackSummaryAgeCorr, m.Labels.Chronological, m.Labels.Corrected)
}
