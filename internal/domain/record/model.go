package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"runclub/internal/domain/week"
)

// Max length constants for user-editable fields.
const (
	MaxMemoLength = 500
)

// Placeholder values written when an attendance cell is marked completed
// without a real record behind it.
const (
	PlaceholderDistance = 1.0
	PlaceholderTime     = 30 * time.Minute
)

// Domain errors
var (
	ErrMissingMember    = errors.New("record must be associated with a member")
	ErrMissingDate      = errors.New("running date is required")
	ErrInvalidDistance  = errors.New("distance must be a non-negative number of kilometres")
	ErrInvalidClockTime = errors.New("time must be HH:MM:SS")
)

// Record is one run logged by a member.
type Record struct {
	ID          string
	MemberID    string
	MemberName  string // denormalised for display; not persisted
	RunningDate week.Date
	Distance    float64       // kilometres
	RunningTime time.Duration // elapsed
	Pace        string        // MM:SS per km, derived
	Memo        string
	CreatedAt   time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Distance is finite and >= 0, RunningTime >= 0
func (r *Record) Validate() error {
	if strings.TrimSpace(r.MemberID) == "" {
		return ErrMissingMember
	}
	if r.RunningDate.IsZero() {
		return ErrMissingDate
	}
	if math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0) || r.Distance < 0 {
		return ErrInvalidDistance
	}
	if r.RunningTime < 0 {
		return ErrInvalidClockTime
	}
	if len(r.Memo) > MaxMemoLength {
		return fmt.Errorf("memo cannot exceed %d characters", MaxMemoLength)
	}
	return nil
}

// Completed reports whether the record counts toward attendance.
func (r *Record) Completed() bool {
	return SafeDistance(r.Distance) > 0
}

// DerivePace sets Pace from Distance and RunningTime.
func (r *Record) DerivePace() {
	r.Pace = FormatPace(r.RunningTime, r.Distance)
}

// SafeDistance maps NaN, infinities and negatives to zero.
func SafeDistance(km float64) float64 {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return 0
	}
	return km
}

// ParseDistance reads a distance leniently: blank or non-numeric input is 0.
func ParseDistance(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return SafeDistance(v)
}

// DistanceFromAny converts a loosely typed stored value to kilometres.
// Unknown types and unparsable text are 0.
func DistanceFromAny(v any) float64 {
	switch x := v.(type) {
	case float64:
		return SafeDistance(x)
	case float32:
		return SafeDistance(float64(x))
	case int64:
		return SafeDistance(float64(x))
	case int:
		return SafeDistance(float64(x))
	case []byte:
		return ParseDistance(string(x))
	case string:
		return ParseDistance(x)
	default:
		return 0
	}
}

// ParseClock parses an HH:MM:SS elapsed time. Hours may exceed 24.
// PRE: none
// POST: Returns the duration or ErrInvalidClockTime
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClockTime)
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && (n > 59 || len(p) != 2)) {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidClockTime)
		}
		vals[i] = n
	}
	return time.Duration(vals[0])*time.Hour + time.Duration(vals[1])*time.Minute + time.Duration(vals[2])*time.Second, nil
}

// FormatClock renders d as HH:MM:SS, truncating sub-second parts.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatPace renders elapsed/distance as MM:SS per kilometre, or "" when
// either side is zero.
func FormatPace(elapsed time.Duration, km float64) string {
	km = SafeDistance(km)
	if km == 0 || elapsed <= 0 {
		return ""
	}
	perKm := elapsed.Seconds() / km
	mins := int(perKm / 60)
	secs := int(math.Mod(perKm, 60))
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
