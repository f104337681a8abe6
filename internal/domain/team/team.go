package team

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownTeam is returned when a label is not one of the club's teams.
var ErrUnknownTeam = errors.New("unknown team")

// Team is a closed set of cohort labels.
type Team string

// Team labels in canonical order.
const (
	A Team = "A"
	B Team = "B"
	C Team = "C"
	D Team = "D"
	E Team = "E"
	F Team = "F"
)

var canonical = []Team{A, B, C, D, E, F}

// All returns every team in canonical order. The caller owns the slice.
func All() []Team {
	return slices.Clone(canonical)
}

// Parse normalises a label ("a", " B ") and rejects anything outside the set.
// PRE: none
// POST: Returns a valid Team or an error wrapping ErrUnknownTeam
func Parse(s string) (Team, error) {
	t := Team(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownTeam)
	}
	return t, nil
}

// Valid reports whether t is a member of the closed set.
func (t Team) Valid() bool {
	return slices.Contains(canonical, t)
}

// MarshalText implements encoding.TextMarshaler.
func (t Team) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%q: %w", string(t), ErrUnknownTeam)
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Team) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
