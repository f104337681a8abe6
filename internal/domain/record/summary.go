package record

import "time"

// Summary aggregates a set of records for the statistics cards.
type Summary struct {
	TotalDistance float64       `json:"total_distance"`
	TotalTime     time.Duration `json:"-"`
	TotalClock    string        `json:"total_time"`   // HH:MM:SS
	AveragePace   string        `json:"average_pace"` // MM:SS per km, "" when undefined
	RunCount      int           `json:"run_count"`
}

// Summarize totals distance and time over records.
// INVARIANT: non-numeric or negative distances count as 0
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.TotalDistance += SafeDistance(r.Distance)
		if r.RunningTime > 0 {
			s.TotalTime += r.RunningTime
		}
	}
	s.RunCount = len(records)
	s.TotalClock = FormatClock(s.TotalTime)
	s.AveragePace = FormatPace(s.TotalTime, s.TotalDistance)
	return s
}

// TotalDistance sums SafeDistance over records.
func TotalDistance(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += SafeDistance(r.Distance)
	}
	return total
}
