package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-babyage/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func intPtr(v int) *int { return &v }

// prematureSettings is a baby born two months before the due date.
func prematureSettings() engine.AgeSettings {
	return engine.AgeSettings{
		BirthDate:                engine.MustParseDate("2025-10-01"),
		DueDate:                  engine.MustParseDate("2025-12-01"),
		AgeFormat:                engine.FormatYMD,
		ShowCorrectedUntilMonths: intPtr(24),
	}
}

func TestComputeAgeLabels_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want engine.AgeLabels
	}{
		{
			name: "Before due date corrected age is zero but shown",
			day:  "2025-11-15",
			want: engine.AgeLabels{Chronological: "1m14d", Corrected: "0d"},
		},
		{
			name: "After due date both ages shown",
			day:  "2026-01-15",
			want: engine.AgeLabels{Chronological: "3m14d", Corrected: "1m14d"},
		},
		{
			name: "Exactly on the horizon is still shown",
			day:  "2027-12-01",
			want: engine.AgeLabels{Chronological: "2y2m0d", Corrected: "2y0m0d"},
		},
		{
			name: "One day past the horizon is suppressed",
			day:  "2027-12-02",
			want: engine.AgeLabels{Chronological: "2y2m1d", Suppressed: true},
		},
		{
			name: "Far past the horizon is suppressed",
			day:  "2028-01-01",
			want: engine.AgeLabels{Chronological: "2y3m0d", Suppressed: true},
		},
		{
			name: "Birth day itself",
			day:  "2025-10-01",
			want: engine.AgeLabels{Chronological: "0d", Suppressed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ComputeAgeLabels(prematureSettings(), engine.MustParseDate(tt.day))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Suppressed, got.Corrected == "", "Corrected must be present iff not suppressed")
		})
	}
}

func TestComputeAgeLabels_NoDueDate(t *testing.T) {
	s := prematureSettings()
	s.DueDate = engine.CalendarDate{}

	for _, day := range []string{"2025-10-01", "2025-11-15", "2030-06-30"} {
		got := engine.ComputeAgeLabels(s, engine.MustParseDate(day))
		assert.True(t, got.Suppressed, day)
		assert.Empty(t, got.Corrected, day)
	}

	got := engine.ComputeAgeLabels(s, engine.MustParseDate("2026-01-15"))
	assert.Equal(t, "3m14d", got.Chronological, "Chronological age does not depend on the due date")
}

func TestComputeAgeLabels_NoBirthDate(t *testing.T) {
	got := engine.ComputeAgeLabels(engine.AgeSettings{AgeFormat: engine.FormatMD}, engine.MustParseDate("2025-11-15"))
	assert.Equal(t, engine.AgeLabels{Chronological: "0d", Suppressed: true}, got)
}

// TestComputeAgeLabels_DueDateBeforeBirth covers a due date entered before the birth
// date: the corrected base falls back to birth, so both ages agree and are collapsed.
func TestComputeAgeLabels_DueDateBeforeBirth(t *testing.T) {
	s := prematureSettings()
	s.DueDate = engine.MustParseDate("2025-09-01")

	got := engine.ComputeAgeLabels(s, engine.MustParseDate("2025-11-15"))
	assert.Equal(t, engine.AgeLabels{Chronological: "1m14d", Suppressed: true}, got)
	assert.Equal(t, s.BirthDate, engine.CorrectedBase(s))
}

func TestComputeAgeLabels_MDFormat(t *testing.T) {
	s := prematureSettings()
	s.AgeFormat = engine.FormatMD

	got := engine.ComputeAgeLabels(s, engine.MustParseDate("2025-11-15"))
	assert.Equal(t, engine.AgeLabels{Chronological: "1m14d", Corrected: "0m0d"}, got)

	got = engine.ComputeAgeLabels(s, engine.MustParseDate("2027-01-20"))
	assert.Equal(t, engine.AgeLabels{Chronological: "15m19d", Corrected: "13m19d"}, got)
}

func TestComputeAgeLabels_UnlimitedHorizon(t *testing.T) {
	far := engine.MustParseDate("2040-01-01")

	for name, limit := range map[string]*int{"nil": nil, "sentinel": intPtr(999), "above sentinel": intPtr(1200)} {
		t.Run(name, func(t *testing.T) {
			s := prematureSettings()
			s.ShowCorrectedUntilMonths = limit

			got := engine.ComputeAgeLabels(s, far)
			assert.False(t, got.Suppressed)
			assert.Equal(t, "14y3m0d", got.Chronological)
			assert.Equal(t, "14y1m0d", got.Corrected)
		})
	}
}

func TestCorrectedLimitReached(t *testing.T) {
	base := engine.MustParseDate("2025-01-31")

	// base + 1 month overflows to March 3rd.
	assert.False(t, engine.CorrectedLimitReached(base, engine.MustParseDate("2025-03-03"), intPtr(1)))
	assert.True(t, engine.CorrectedLimitReached(base, engine.MustParseDate("2025-03-04"), intPtr(1)))

	assert.False(t, engine.CorrectedLimitReached(base, base, intPtr(0)))
	assert.True(t, engine.CorrectedLimitReached(base, base.AddDays(1), intPtr(0)))
	assert.False(t, engine.CorrectedLimitReached(base, engine.MustParseDate("2099-01-01"), nil))
	assert.False(t, engine.CorrectedLimitReached(base, engine.MustParseDate("2099-01-01"), intPtr(999)))
}

func TestAgeService_UsesClock(t *testing.T) {
	svc := &engine.AgeService{Clock: MockClock{CurrentTime: time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)}}

	assert.Equal(t, "2026-01-15", svc.Today().Key())
	assert.Equal(t,
		engine.AgeLabels{Chronological: "3m14d", Corrected: "1m14d"},
		svc.AgeToday(prematureSettings()))
}
