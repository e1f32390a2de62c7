package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-babyage/internal/engine"
)

func rec(day string, typ engine.AchievementType) engine.Record {
	return engine.Record{Day: engine.MustParseDate(day), Type: typ}
}

func TestBuildBuckets_OneYearBucketing(t *testing.T) {
	in := engine.GraphInput{
		Period:    engine.PeriodOneYear,
		BirthDate: engine.MustParseDate("2025-01-01"),
		Records: []engine.Record{
			rec("2024-12-31", engine.Did),   // before birth: dropped
			rec("2025-01-01", engine.Did),   // day 0 -> bucket 0
			rec("2025-01-30", engine.Tried), // day 29 -> bucket 0
			rec("2025-01-31", engine.Did),   // day 30 -> bucket 1
			rec("2025-12-27", engine.Did),   // day 360 -> bucket 12
			rec("2025-12-31", engine.Tried), // day 364 -> bucket 12
			rec("2026-01-26", engine.Did),   // day 390 -> bucket 13: dropped
		},
	}

	res, err := engine.BuildBuckets(in)
	require.NoError(t, err)
	require.Len(t, res.Buckets, 13, "Months 0..12 inclusive")

	b := res.Buckets
	assert.Equal(t, 1, b[0].DidCount)
	assert.Equal(t, 1, b[0].TriedCount)
	assert.Equal(t, 1, b[1].DidCount)
	assert.Equal(t, 1, b[12].DidCount)
	assert.Equal(t, 1, b[12].TriedCount)
	assert.Equal(t, 2, res.Dropped)

	assert.Equal(t, "2025-01-01", b[0].Key)
	assert.Equal(t, "2025-01-31", b[1].Key)
	assert.Equal(t, "0M", b[0].ActualLabel)
	assert.Equal(t, "12M", b[12].ActualLabel)

	assert.Equal(t, 2, b[0].Cumulative)
	assert.Equal(t, 3, b[1].Cumulative)
	assert.Equal(t, 3, b[11].Cumulative)
	assert.Equal(t, 5, b[12].Cumulative, "Final cumulative equals the in-range total")

	for i := 1; i < len(b); i++ {
		assert.GreaterOrEqual(t, b[i].Cumulative, b[i-1].Cumulative)
	}
}

func TestBuildBuckets_Thinning(t *testing.T) {
	birth := engine.MustParseDate("2025-01-01")

	tests := []struct {
		period    engine.Period
		buckets   int
		step      int
		shownTick int
	}{
		{engine.PeriodOneYear, 13, 2, 7},
		{engine.PeriodThreeYear, 37, 4, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			res, err := engine.BuildBuckets(engine.GraphInput{Period: tt.period, BirthDate: birth})
			require.NoError(t, err)
			require.Len(t, res.Buckets, tt.buckets)

			for i, b := range res.Buckets {
				assert.Equal(t, i%tt.step == 0, b.ShowActualLabel, "bucket %d", i)
				assert.Nil(t, b.CorrectedLabel, "No corrected axis without a due date")
			}
			assert.Len(t, res.Labels, tt.shownTick)
			for _, l := range res.Labels {
				assert.Zero(t, l.Index%tt.step)
				assert.Equal(t, res.Buckets[l.Index].ActualLabel, l.Actual)
			}
		})
	}
}

// TestBuildBuckets_CorrectedAxis uses a birth 95 days before the due date.
// Slot i starts 30*i days after birth, i.e. 30*i-95 days from the due date.
func TestBuildBuckets_CorrectedAxis(t *testing.T) {
	in := engine.GraphInput{
		Period:                 engine.PeriodOneYear,
		BirthDate:              engine.MustParseDate("2025-01-01"),
		DueDate:                engine.MustParseDate("2025-04-06"),
		EnablePrematureDisplay: true,
	}

	res, err := engine.BuildBuckets(in)
	require.NoError(t, err)
	b := res.Buckets

	// -95 days: gestational week 26 is a 4-week milestone.
	require.NotNil(t, b[0].CorrectedLabel)
	assert.Equal(t, "26w", *b[0].CorrectedLabel)
	assert.True(t, b[0].ShowCorrectedLabel)

	// -65 days: week 30, a milestone, but the tick is thinned away.
	require.NotNil(t, b[1].CorrectedLabel)
	assert.Equal(t, "30w", *b[1].CorrectedLabel)
	assert.False(t, b[1].ShowCorrectedLabel, "Corrected label follows the actual tick")

	// -35 and -5 days: weeks 35 and 39 are not milestones.
	assert.Nil(t, b[2].CorrectedLabel)
	assert.Nil(t, b[3].CorrectedLabel)

	// +25 days: the slot holding the due date.
	require.NotNil(t, b[4].CorrectedLabel)
	assert.Equal(t, "予定日", *b[4].CorrectedLabel)
	assert.True(t, b[4].ShowCorrectedZeroLine)
	assert.True(t, b[4].ShowCorrectedLabel)

	// +55 and +85 days.
	assert.Equal(t, "修1M", *b[5].CorrectedLabel)
	assert.False(t, b[5].ShowCorrectedLabel)
	assert.Equal(t, "修2M", *b[6].CorrectedLabel)
	assert.True(t, b[6].ShowCorrectedLabel)

	zeroLines := 0
	for _, bucket := range b {
		if bucket.ShowCorrectedZeroLine {
			zeroLines++
		}
	}
	assert.Equal(t, 1, zeroLines)

	require.Len(t, res.Labels, 7)
	assert.Equal(t, engine.AxisLabelInfo{Index: 0, Key: "2025-01-01", Actual: "0M", Corrected: "26w"}, res.Labels[0])
	assert.Equal(t, "", res.Labels[1].Corrected)
	assert.Equal(t, engine.AxisLabelInfo{Index: 4, Key: "2025-05-01", Actual: "4M", Corrected: "予定日", ZeroLine: true}, res.Labels[2])
	assert.Equal(t, "修2M", res.Labels[3].Corrected)
}

func TestBuildBuckets_CorrectedAxisDisabled(t *testing.T) {
	base := engine.GraphInput{
		Period:                 engine.PeriodOneYear,
		BirthDate:              engine.MustParseDate("2025-01-01"),
		DueDate:                engine.MustParseDate("2025-04-06"),
		EnablePrematureDisplay: true,
	}

	tests := map[string]func(in *engine.GraphInput){
		"premature display off": func(in *engine.GraphInput) { in.EnablePrematureDisplay = false },
		"no due date":           func(in *engine.GraphInput) { in.DueDate = engine.CalendarDate{} },
		"exactly three weeks":   func(in *engine.GraphInput) { in.DueDate = in.BirthDate.AddDays(21) },
		"due date before birth": func(in *engine.GraphInput) { in.DueDate = in.BirthDate.AddDays(-30) },
		"all time period":       func(in *engine.GraphInput) { in.Period = engine.PeriodAll },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			assert.False(t, engine.CorrectedAxisEnabled(in))

			res, err := engine.BuildBuckets(in)
			require.NoError(t, err)
			for _, b := range res.Buckets {
				assert.Nil(t, b.CorrectedLabel)
				assert.False(t, b.ShowCorrectedLabel)
				assert.False(t, b.ShowCorrectedZeroLine)
			}
		})
	}

	in := base
	in.DueDate = in.BirthDate.AddDays(22)
	assert.True(t, engine.CorrectedAxisEnabled(in), "22 days early is premature enough")
}

func TestBuildBuckets_AllTime(t *testing.T) {
	in := engine.GraphInput{
		Period:                 engine.PeriodAll,
		BirthDate:              engine.MustParseDate("2023-06-15"),
		DueDate:                engine.MustParseDate("2023-09-01"),
		EnablePrematureDisplay: true,
		Records: []engine.Record{
			rec("2023-06-14", engine.Tried), // before birth: dropped
			rec("2023-06-15", engine.Did),   // year 0
			rec("2024-06-14", engine.Tried), // year 0, one day short of the birthday
			rec("2024-06-15", engine.Did),   // year 1
			rec("2026-01-01", engine.Did),   // year 2
		},
	}

	res, err := engine.BuildBuckets(in)
	require.NoError(t, err)
	require.Len(t, res.Buckets, 3)
	assert.Equal(t, 1, res.Dropped)

	keys := []string{"2023-06-15", "2024-06-15", "2025-06-15"}
	cumulative := []int{2, 3, 4}
	for i, b := range res.Buckets {
		assert.Equal(t, keys[i], b.Key)
		assert.Equal(t, fmt.Sprintf("%dY", i), b.ActualLabel)
		assert.Equal(t, cumulative[i], b.Cumulative)
		assert.True(t, b.ShowActualLabel)
		assert.Nil(t, b.CorrectedLabel, "All-time view never shows corrected age")
	}
	assert.Len(t, res.Labels, 3)
}

func TestBuildBuckets_AllTimeWithoutRecords(t *testing.T) {
	res, err := engine.BuildBuckets(engine.GraphInput{Period: engine.PeriodAll, BirthDate: engine.MustParseDate("2023-06-15")})
	require.NoError(t, err)
	require.Len(t, res.Buckets, 1)
	assert.Zero(t, res.Buckets[0].Cumulative)
}

func TestBuildBuckets_Errors(t *testing.T) {
	_, err := engine.BuildBuckets(engine.GraphInput{Period: "6m", BirthDate: engine.MustParseDate("2023-06-15")})
	assert.ErrorIs(t, err, engine.ErrUnsupportedPeriod)

	_, err = engine.ParsePeriod("")
	assert.ErrorIs(t, err, engine.ErrUnsupportedPeriod)

	res, err := engine.BuildBuckets(engine.GraphInput{Period: engine.PeriodOneYear})
	require.NoError(t, err, "A missing birth date degrades to an empty graph")
	assert.Empty(t, res.Buckets)
	assert.Empty(t, res.Labels)
}

func TestBuildBuckets_CustomLabels(t *testing.T) {
	labels := engine.DefaultAxisLabels()
	labels.Month = func(n int) string { return fmt.Sprintf("%d mo", n) }
	labels.DueDate = "Due"

	res, err := engine.BuildBuckets(engine.GraphInput{
		Period:                 engine.PeriodOneYear,
		BirthDate:              engine.MustParseDate("2025-01-01"),
		DueDate:                engine.MustParseDate("2025-04-06"),
		EnablePrematureDisplay: true,
		Labels:                 &labels,
	})
	require.NoError(t, err)
	assert.Equal(t, "4 mo", res.Buckets[4].ActualLabel)
	assert.Equal(t, "Due", *res.Buckets[4].CorrectedLabel)
}

func TestBuildBuckets_Idempotent(t *testing.T) {
	in := engine.GraphInput{
		Period:                 engine.PeriodThreeYear,
		BirthDate:              engine.MustParseDate("2025-01-01"),
		DueDate:                engine.MustParseDate("2025-04-06"),
		EnablePrematureDisplay: true,
		Records:                []engine.Record{rec("2025-02-01", engine.Did), rec("2026-02-01", engine.Tried)},
	}

	first, err := engine.BuildBuckets(in)
	require.NoError(t, err)
	second, err := engine.BuildBuckets(in)
	require.NoError(t, err)
	assert.Equal(t, first, second, "Cumulative totals must not carry over between builds")
}
