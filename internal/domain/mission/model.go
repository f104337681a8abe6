package mission

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"runclub/internal/domain/team"
	"runclub/internal/domain/week"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxContentLength     = 500
	MaxWeekNumber        = 53
)

// Domain errors
var (
	ErrEmptyTitle        = errors.New("mission title cannot be empty")
	ErrInvalidYear       = errors.New("mission year must be between 2000 and 2100")
	ErrInvalidWeekNumber = errors.New("week number must be between 1 and 53")
	ErrMissingDates      = errors.New("mission start and end dates are required")
	ErrEndBeforeStart    = errors.New("mission end date cannot be before start date")
	ErrInvalidTarget     = errors.New("target distance must be a non-negative number of kilometres")
	ErrDuplicateSlot     = errors.New("duplicate mission detail for team and weekday")
)

// Mission is a weekly team challenge.
type Mission struct {
	ID             string
	Year           int
	WeekNumber     int
	Title          string
	Description    string // Markdown
	Active         bool
	StartDate      week.Date
	EndDate        week.Date
	TargetDistance *float64 // aggregate per-member target in km, nil when unset
	CreatedAt      time.Time
}

// Validate checks if the Mission has valid data.
// PRE: Mission struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: StartDate <= EndDate, Title non-empty
func (m *Mission) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if len(m.Title) > MaxTitleLength {
		return fmt.Errorf("mission title cannot exceed %d characters", MaxTitleLength)
	}
	if len(m.Description) > MaxDescriptionLength {
		return fmt.Errorf("mission description cannot exceed %d characters", MaxDescriptionLength)
	}
	if m.Year < 2000 || m.Year > 2100 {
		return ErrInvalidYear
	}
	if m.WeekNumber < 1 || m.WeekNumber > MaxWeekNumber {
		return ErrInvalidWeekNumber
	}
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return ErrMissingDates
	}
	if m.EndDate.Before(m.StartDate) {
		return ErrEndBeforeStart
	}
	if m.TargetDistance != nil && !validTarget(*m.TargetDistance) {
		return ErrInvalidTarget
	}
	return nil
}

// Covers reports whether d lies inside the mission window.
func (m *Mission) Covers(d week.Date) bool {
	return d.Within(m.StartDate, m.EndDate)
}

// Target returns the aggregate target in km, or 0 when unset.
func (m *Mission) Target() float64 {
	if m.TargetDistance == nil || !validTarget(*m.TargetDistance) {
		return 0
	}
	return *m.TargetDistance
}

// Days returns the mission's Thursday to Wednesday window.
func (m *Mission) Days() ([]week.Day, error) {
	return week.Window(m.StartDate, m.EndDate)
}

// Detail is one (team, weekday) slot of a mission's target matrix.
type Detail struct {
	MissionID      string
	Team           team.Team
	Weekday        week.Weekday
	Content        string
	TargetDistance *float64
}

// Validate checks if the Detail has valid data.
// INVARIANT: Team and Weekday are in their closed sets
func (d *Detail) Validate() error {
	if !d.Team.Valid() {
		return fmt.Errorf("team %q: %w", string(d.Team), team.ErrUnknownTeam)
	}
	if !d.Weekday.Valid() {
		return week.ErrUnknownWeekday
	}
	if len(d.Content) > MaxContentLength {
		return fmt.Errorf("mission content cannot exceed %d characters", MaxContentLength)
	}
	if d.TargetDistance != nil && !validTarget(*d.TargetDistance) {
		return ErrInvalidTarget
	}
	return nil
}

// Target returns the slot target in km, or 0 when unset.
func (d *Detail) Target() float64 {
	if d.TargetDistance == nil || !validTarget(*d.TargetDistance) {
		return 0
	}
	return *d.TargetDistance
}

// Slot identifies a cell of the detail matrix.
type Slot struct {
	Team    team.Team
	Weekday week.Weekday
}

// Slot returns the detail's matrix key.
func (d *Detail) Slot() Slot {
	return Slot{Team: d.Team, Weekday: d.Weekday}
}

// ValidateDetails validates every detail and rejects repeated slots.
// PRE: details belong to a single mission
// POST: Returns the first failure, wrapped with the offending slot
func ValidateDetails(details []Detail) error {
	seen := make(map[Slot]struct{}, len(details))
	for i := range details {
		d := &details[i]
		if err := d.Validate(); err != nil {
			return err
		}
		key := d.Slot()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("team %s %s: %w", key.Team, key.Weekday, ErrDuplicateSlot)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Float returns a pointer to v, for optional targets.
func Float(v float64) *float64 {
	return &v
}

func validTarget(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
