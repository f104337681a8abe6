// Package week resolves mission weeks. A mission week always runs from
// Thursday through the following Wednesday.
package week

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrInvertedRange is returned when an end date precedes its start date.
var ErrInvertedRange = errors.New("end date must not be before start date")

// Day is one column of a mission week.
type Day struct {
	Date    Date    `json:"date"`
	Weekday Weekday `json:"weekday"`
	DayName string  `json:"day_name"`
	Label   string  `json:"label"` // M/D
}

func newDay(d Date) Day {
	return Day{
		Date:    d,
		Weekday: d.Weekday(),
		DayName: d.Weekday().Short(),
		Label:   fmt.Sprintf("%d/%d", int(d.Month), d.Day),
	}
}

// offsetToThursday is the number of days from a date on weekday w forward
// to the nearest Thursday, zero when w is already Thursday.
func offsetToThursday(w Weekday) int {
	switch {
	case w == Sunday:
		return 4
	case w <= Thursday:
		return int(Thursday - w)
	default:
		return int(Thursday-w) + DaysPerWeek
	}
}

// WeekStart returns the Thursday that opens the mission week for start.
func WeekStart(start Date) Date {
	return start.AddDays(offsetToThursday(start.Weekday()))
}

// Resolve yields the days of the mission week anchored at start that fall
// inside [start, end], in ascending order. The sequence holds no state and
// can be ranged over any number of times.
func Resolve(start, end Date) iter.Seq[Day] {
	return func(yield func(Day) bool) {
		first := WeekStart(start)
		for i := range DaysPerWeek {
			d := first.AddDays(i)
			if !d.Within(start, end) {
				continue
			}
			if !yield(newDay(d)) {
				return
			}
		}
	}
}

// Window collects Resolve into a slice and rejects inverted ranges.
// PRE: start and end are non-zero dates
// POST: Returns between 0 and 7 consecutive days inside [start, end]
func Window(start, end Date) ([]Day, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("week window: %w", ErrInvalidDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("week window %s..%s: %w", start, end, ErrInvertedRange)
	}
	days := slices.Collect(Resolve(start, end))
	if days == nil {
		days = []Day{}
	}
	return days, nil
}
