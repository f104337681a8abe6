package member

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"runclub/internal/domain/record"
	"runclub/internal/domain/team"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength       = 100
	MaxDepartmentLength = 100
)

// Domain errors
var (
	ErrEmptyName = errors.New("member name cannot be empty")
)

// Member is a club runner on a team roster.
type Member struct {
	ID         string
	Name       string
	Department string
	Team       team.Team
	Best10K    string // HH:MM:SS, empty when unset
	BestHalf   string
	BestFull   string
	CreatedAt  time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name is non-empty, Team is in the closed set, bests parse as HH:MM:SS
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return fmt.Errorf("member name cannot exceed %d characters", MaxNameLength)
	}
	if len(m.Department) > MaxDepartmentLength {
		return fmt.Errorf("department cannot exceed %d characters", MaxDepartmentLength)
	}
	if !m.Team.Valid() {
		return fmt.Errorf("team %q: %w", string(m.Team), team.ErrUnknownTeam)
	}
	for _, c := range Categories {
		if v := m.Best(c); v != "" {
			if _, err := record.ParseClock(v); err != nil {
				return fmt.Errorf("%s best: %w", c, err)
			}
		}
	}
	return nil
}

// MatchesSearch reports whether the case-insensitive term appears in the
// member's name or department. An empty term matches everyone.
func (m *Member) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.Department), term)
}
