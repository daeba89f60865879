package habit

import (
	"time"

	"github.com/tphakala/habitwheel/internal/errors"
)

// DayLayout is the wire and storage format for calendar days.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string as a calendar day with no
// time-of-day component.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, errors.Newf("invalid date %q (expected YYYY-MM-DD)", s).
			Component("habit").
			Category(errors.CategoryValidation).
			Build()
	}
	return t, nil
}

// FormatDay renders a time as a YYYY-MM-DD string.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// AddDays shifts a YYYY-MM-DD string by a whole number of days.
func AddDays(day string, delta int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, delta)), nil
}

// DaysBetween returns the whole-day difference to - from. Both arguments are
// calendar days, so the result is exact.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDay(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// Today returns the current calendar day in the given location.
func Today(loc *time.Location) string {
	return FormatDay(time.Now().In(loc))
}

// DayWithinRound reports whether day falls inside
// [start, start+lengthWeeks*7) and returns its zero-based day offset.
func DayWithinRound(start, day string, lengthWeeks int) (offset int, ok bool, err error) {
	offset, err = DaysBetween(start, day)
	if err != nil {
		return 0, false, err
	}
	return offset, offset >= 0 && offset < lengthWeeks*7, nil
}

// WeekIndexOf returns the zero-based week a day offset falls in.
func WeekIndexOf(dayOffset int) int {
	return dayOffset / 7
}

// CompletedWeeks returns the number of fully elapsed weeks of a round as of
// today, clamped to [0, lengthWeeks]. Both dates are local calendar days.
func CompletedWeeks(start, today string, lengthWeeks int) (int, error) {
	days, err := DaysBetween(start, today)
	if err != nil {
		return 0, err
	}
	weeks := days / 7
	if days < 0 {
		weeks = 0
	}
	return min(max(weeks, 0), lengthWeeks), nil
}
