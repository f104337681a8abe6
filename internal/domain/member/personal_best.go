package member

import (
	"time"

	"runclub/internal/domain/record"
)

// Category is a race-distance band tracked as a personal best.
type Category string

// Personal best categories.
const (
	Category10K  Category = "10km"
	CategoryHalf Category = "half"
	CategoryFull Category = "full"
)

// Categories lists every personal best band.
var Categories = []Category{Category10K, CategoryHalf, CategoryFull}

// band bounds are inclusive, in kilometres.
type band struct {
	category Category
	min, max float64
}

var bands = []band{
	{Category10K, 9.5, 10.5},
	{CategoryHalf, 20.5, 21.5},
	{CategoryFull, 41.5, 43.0},
}

// CategoryFor returns the personal best band a run distance falls into.
func CategoryFor(km float64) (Category, bool) {
	km = record.SafeDistance(km)
	for _, b := range bands {
		if km >= b.min && km <= b.max {
			return b.category, true
		}
	}
	return "", false
}

// Best returns the stored best time for a category.
func (m *Member) Best(c Category) string {
	switch c {
	case Category10K:
		return m.Best10K
	case CategoryHalf:
		return m.BestHalf
	case CategoryFull:
		return m.BestFull
	}
	return ""
}

func (m *Member) setBest(c Category, v string) {
	switch c {
	case Category10K:
		m.Best10K = v
	case CategoryHalf:
		m.BestHalf = v
	case CategoryFull:
		m.BestFull = v
	}
}

// ApplyRun records elapsed as a new personal best when the distance falls in
// a band and the time beats the stored one (or none is stored).
// PRE: elapsed >= 0
// POST: Returns the improved category and true when the member was updated
func (m *Member) ApplyRun(km float64, elapsed time.Duration) (Category, bool) {
	c, ok := CategoryFor(km)
	if !ok || elapsed <= 0 {
		return "", false
	}
	if current := m.Best(c); current != "" {
		prev, err := record.ParseClock(current)
		if err == nil && prev <= elapsed {
			return "", false
		}
	}
	m.setBest(c, record.FormatClock(elapsed))
	return c, true
}
