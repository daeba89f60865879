package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekPercentArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		score    float64
		required int
		want     float64
	}{
		{"empty week", 0, 7, 0},
		{"full week", 7, 7, 1},
		{"half credit", 3.5, 7, 0.5},
		{"score above required is capped", 6, 5, 1},
		{"days off covers whole week", 3, 0, 1},
		{"negative required treated as covered", 0, -1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, WeekPercent(tt.score, tt.required), 1e-9)
		})
	}
}

func TestRequiredDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, RequiredDays(0))
	assert.Equal(t, 2, RequiredDays(5))
	assert.Equal(t, 0, RequiredDays(7))
	assert.Equal(t, 0, RequiredDays(10))
}

// Round starts Monday 2026-01-05, one category with no days off.
// Monday DONE and Tuesday HALF give week 1 a score of 1.5/7 ≈ 21%.
func TestSummarizeSingleCategoryExample(t *testing.T) {
	t.Parallel()

	cats := []CategorySnapshot{{CategoryID: 1, DisplayName: "Cardio", AllowDaysOffPerWeek: 0}}
	entries := []DayEntry{
		{CategoryID: 1, Date: "2026-01-05", Status: StatusDone},
		{CategoryID: 1, Date: "2026-01-06", Status: StatusHalf},
	}

	summary, err := Summarize("2026-01-05", 4, cats, entries, 1)
	require.NoError(t, err)

	require.Len(t, summary.Categories, 1)
	require.Len(t, summary.Categories[0].Weekly, 4)
	assert.InDelta(t, 1.5/7.0, summary.Categories[0].Weekly[0], 1e-9)

	require.NotNil(t, summary.Categories[0].Percent)
	assert.InDelta(t, 1.5/7.0, *summary.Categories[0].Percent, 1e-9)

	// Single category: the aggregate equals the category percentage.
	require.NotNil(t, summary.Percent)
	assert.InDelta(t, 1.5/7.0, *summary.Percent, 1e-9)
}

func TestSummarizeAggregateWeighsByRequiredDays(t *testing.T) {
	t.Parallel()

	// Strict category requires 7 days, lenient one only 2.
	cats := []CategorySnapshot{
		{CategoryID: 1, AllowDaysOffPerWeek: 0},
		{CategoryID: 2, AllowDaysOffPerWeek: 5},
	}
	entries := []DayEntry{
		// Category 2 fully done for the week: 3 DONE days, capped at its
		// required 2.
		{CategoryID: 2, Date: "2026-01-05", Status: StatusDone},
		{CategoryID: 2, Date: "2026-01-06", Status: StatusDone},
		{CategoryID: 2, Date: "2026-01-07", Status: StatusDone},
	}

	summary, err := Summarize("2026-01-05", 4, cats, entries, 1)
	require.NoError(t, err)

	// Aggregate week 1: (0 + min(3,2)) / (7+2) = 2/9.
	assert.InDelta(t, 2.0/9.0, summary.WeeklyTotal[0], 1e-9)

	// The lenient category itself reads 100%.
	require.NotNil(t, summary.Categories[1].Percent)
	assert.InDelta(t, 1.0, *summary.Categories[1].Percent, 1e-9)
}

func TestSummarizeZeroWindowReportsNoData(t *testing.T) {
	t.Parallel()

	cats := []CategorySnapshot{{CategoryID: 1, AllowDaysOffPerWeek: 0}}

	summary, err := Summarize("2026-01-05", 4, cats, nil, 0)
	require.NoError(t, err)

	assert.Nil(t, summary.Percent, "zero-week window must report no data, not 0%")
	assert.Nil(t, summary.Categories[0].Percent)
	assert.Len(t, summary.Categories[0].Weekly, 4, "full-length weekly series is still produced")
}

func TestSummarizeAllDaysOffCategoriesAreComplete(t *testing.T) {
	t.Parallel()

	cats := []CategorySnapshot{{CategoryID: 1, AllowDaysOffPerWeek: 7}}

	summary, err := Summarize("2026-01-05", 4, cats, nil, 4)
	require.NoError(t, err)

	require.NotNil(t, summary.Percent)
	assert.InDelta(t, 1.0, *summary.Percent, 1e-9)
	for _, w := range summary.WeeklyTotal {
		assert.InDelta(t, 1.0, w, 1e-9)
	}
}

func TestSummarizeWindowClampedToRoundLength(t *testing.T) {
	t.Parallel()

	cats := []CategorySnapshot{{CategoryID: 1, AllowDaysOffPerWeek: 0}}

	summary, err := Summarize("2026-01-05", 4, cats, nil, 12)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.WindowWeeks)
}

func TestSummarizeOffTreatSickScoreZero(t *testing.T) {
	t.Parallel()

	cats := []CategorySnapshot{{CategoryID: 1, AllowDaysOffPerWeek: 0}}
	entries := []DayEntry{
		{CategoryID: 1, Date: "2026-01-05", Status: StatusOff},
		{CategoryID: 1, Date: "2026-01-06", Status: StatusTreat},
		{CategoryID: 1, Date: "2026-01-07", Status: StatusSick},
		{CategoryID: 1, Date: "2026-01-08", Status: StatusDone},
	}

	summary, err := Summarize("2026-01-05", 4, cats, entries, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/7.0, summary.Categories[0].Weekly[0], 1e-9)
}
