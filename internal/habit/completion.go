package habit

// CategorySnapshot is a round's frozen view of one category, carrying the
// per-week days-off allowance the calculator needs.
type CategorySnapshot struct {
	CategoryID          uint
	DisplayName         string
	SortOrder           int
	AllowDaysOffPerWeek int
}

// DayEntry is one category's status on one calendar day.
type DayEntry struct {
	CategoryID uint
	Date       string
	Status     Status
}

// CategoryWeeks holds the per-week percentages for one category over a
// full round, plus the average over the selected window. Percent is nil
// when the window is empty: "not yet measurable" is distinct from 0%.
type CategoryWeeks struct {
	CategoryID  uint      `json:"categoryId"`
	DisplayName string    `json:"displayName"`
	Weekly      []float64 `json:"weekly"`
	Percent     *float64  `json:"percent"`
}

// Summary is the server-side completion rollup for a round.
type Summary struct {
	WindowWeeks int             `json:"windowWeeks"`
	Categories  []CategoryWeeks `json:"categories"`
	WeeklyTotal []float64       `json:"weeklyTotal"`
	Percent     *float64        `json:"percent"`
}

// RequiredDays is the weekly score a category needs for 100%.
func RequiredDays(allowDaysOffPerWeek int) int {
	return max(0, 7-allowDaysOffPerWeek)
}

// Score maps a status to its daily completion contribution.
func Score(s Status) float64 {
	switch s {
	case StatusDone:
		return 1.0
	case StatusHalf:
		return 0.5
	default:
		return 0.0
	}
}

type entryKey struct {
	categoryID uint
	date       string
}

// EntrySet indexes entries for constant-time per-day lookup.
type EntrySet map[entryKey]Status

// NewEntrySet builds an EntrySet from a round's entries.
func NewEntrySet(entries []DayEntry) EntrySet {
	set := make(EntrySet, len(entries))
	for _, e := range entries {
		set[entryKey{e.CategoryID, e.Date}] = e.Status
	}
	return set
}

// StatusOn returns the stored status for a category and day, EMPTY when no
// entry exists.
func (s EntrySet) StatusOn(categoryID uint, date string) Status {
	if st, ok := s[entryKey{categoryID, date}]; ok {
		return st
	}
	return StatusEmpty
}

// weekScore sums the raw day scores of one category over one week.
func weekScore(set EntrySet, cat *CategorySnapshot, start string, week int) (float64, error) {
	var score float64
	for day := 0; day < 7; day++ {
		date, err := AddDays(start, week*7+day)
		if err != nil {
			return 0, err
		}
		score += Score(set.StatusOn(cat.CategoryID, date))
	}
	return score, nil
}

// WeekPercent is the clamped weekly percentage for one category: a week
// whose allowance covers all seven days is complete by definition.
func WeekPercent(score float64, required int) float64 {
	if required <= 0 {
		return 1.0
	}
	pct := min(score, float64(required)) / float64(required)
	return min(max(pct, 0.0), 1.0)
}

// windowAverage averages the first window values, nil when the window is
// empty so callers can distinguish "no data" from 0%.
func windowAverage(weekly []float64, window int) *float64 {
	if window <= 0 {
		return nil
	}
	if window > len(weekly) {
		window = len(weekly)
	}
	var sum float64
	for _, v := range weekly[:window] {
		sum += v
	}
	avg := sum / float64(window)
	return &avg
}

// Summarize computes the per-category and aggregate weekly percentages for a
// round, averaged over the first windowWeeks weeks. Callers pass the count of
// fully elapsed weeks for an active round and the full length for history.
func Summarize(start string, lengthWeeks int, cats []CategorySnapshot, entries []DayEntry, windowWeeks int) (Summary, error) {
	set := NewEntrySet(entries)
	windowWeeks = min(max(windowWeeks, 0), lengthWeeks)

	summary := Summary{
		WindowWeeks: windowWeeks,
		Categories:  make([]CategoryWeeks, 0, len(cats)),
		WeeklyTotal: make([]float64, 0, lengthWeeks),
	}

	scores := make([][]float64, len(cats))
	for i := range cats {
		cat := &cats[i]
		required := RequiredDays(cat.AllowDaysOffPerWeek)
		weekly := make([]float64, 0, lengthWeeks)
		scores[i] = make([]float64, lengthWeeks)

		for w := 0; w < lengthWeeks; w++ {
			score, err := weekScore(set, cat, start, w)
			if err != nil {
				return Summary{}, err
			}
			scores[i][w] = min(score, float64(required))
			weekly = append(weekly, WeekPercent(score, required))
		}

		summary.Categories = append(summary.Categories, CategoryWeeks{
			CategoryID:  cat.CategoryID,
			DisplayName: cat.DisplayName,
			Weekly:      weekly,
			Percent:     windowAverage(weekly, windowWeeks),
		})
	}

	// Aggregate: capped scores over summed requirements, per week.
	var requiredTotal int
	for i := range cats {
		requiredTotal += RequiredDays(cats[i].AllowDaysOffPerWeek)
	}
	for w := 0; w < lengthWeeks; w++ {
		if requiredTotal <= 0 {
			summary.WeeklyTotal = append(summary.WeeklyTotal, 1.0)
			continue
		}
		var capped float64
		for i := range cats {
			capped += scores[i][w]
		}
		pct := capped / float64(requiredTotal)
		summary.WeeklyTotal = append(summary.WeeklyTotal, min(max(pct, 0.0), 1.0))
	}
	summary.Percent = windowAverage(summary.WeeklyTotal, windowWeeks)

	return summary, nil
}
