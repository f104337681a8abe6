package week

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownWeekday is returned when a day name is not one of the seven weekdays.
var ErrUnknownWeekday = errors.New("unknown weekday")

// Weekday is a closed set of day names, numbered like time.Weekday (Sunday = 0).
type Weekday int

// Weekday values.
const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysPerWeek is the length of a mission week.
const DaysPerWeek = 7

var shortNames = [DaysPerWeek]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseWeekday accepts a full or three-letter English day name, case-insensitive.
// PRE: none
// POST: Returns the weekday or an error wrapping ErrUnknownWeekday
func ParseWeekday(s string) (Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, short := range shortNames {
		if v == short || v == strings.ToLower(time.Weekday(i).String()) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownWeekday)
}

// Valid reports whether w is one of the seven weekdays.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// String returns the full English name.
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return time.Weekday(w).String()
}

// Short returns the three-letter English name.
func (w Weekday) Short() string {
	if !w.Valid() {
		return ""
	}
	s := shortNames[w]
	return strings.ToUpper(s[:1]) + s[1:]
}

// Key returns the lower-case short name used in storage and JSON.
func (w Weekday) Key() string {
	if !w.Valid() {
		return ""
	}
	return shortNames[w]
}

// MissionIndex returns w's position in a mission week, Thursday being 0.
func (w Weekday) MissionIndex() int {
	return (int(w) - int(Thursday) + DaysPerWeek) % DaysPerWeek
}

// MarshalText implements encoding.TextMarshaler using the lower-case short name.
func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("weekday %d: %w", int(w), ErrUnknownWeekday)
	}
	return []byte(shortNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
