// Package progress ranks teams by how far their members ran against a
// mission's target.
//
// Compute is pure: callers fetch the roster, records and detail matrix once
// and pass the snapshots in.
package progress

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"runclub/internal/domain/member"
	"runclub/internal/domain/mission"
	"runclub/internal/domain/record"
	"runclub/internal/domain/team"
)

// Domain errors
var (
	ErrUnknownPolicy = errors.New("unknown target policy")
)

// Policy selects how a team's target distance is resolved.
type Policy string

const (
	// PolicyAuto uses per-slot targets when a detail matrix is supplied,
	// otherwise the mission's aggregate target.
	PolicyAuto Policy = "auto"
	// PolicyAggregate uses the mission's single target distance.
	PolicyAggregate Policy = "aggregate"
	// PolicySlots sums the team's configured detail targets.
	PolicySlots Policy = "slots"
)

// ParsePolicy maps a query value to a Policy. Empty means auto.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return PolicyAuto, nil
	case PolicyAuto, PolicyAggregate, PolicySlots:
		return p, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownPolicy)
}

// TeamProgress is one ranked row of the standings.
type TeamProgress struct {
	Team            team.Team `json:"team"`
	TotalDistance   float64   `json:"total_distance"`
	MemberCount     int       `json:"member_count"`
	AverageDistance float64   `json:"average_distance"`
	AchievementRate float64   `json:"achievement_rate"`
	Target          float64   `json:"target"`
}

// Compute ranks every canonical team using PolicyAuto.
func Compute(m mission.Mission, roster []member.Member, records []record.Record, details []mission.Detail) ([]TeamProgress, error) {
	return ComputeWithPolicy(m, roster, records, details, PolicyAuto)
}

// ComputeWithPolicy ranks every canonical team against the target resolved by
// policy.
// PRE: roster members carry valid teams; the mission window is not inverted
// POST: Returns exactly one row per team, sorted by AchievementRate descending
// INVARIANT: AchievementRate is 0 when the target is 0; ties keep team order
func ComputeWithPolicy(m mission.Mission, roster []member.Member, records []record.Record, details []mission.Detail, policy Policy) ([]TeamProgress, error) {
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}
	if m.EndDate.Before(m.StartDate) {
		return nil, mission.ErrEndBeforeStart
	}
	if err := mission.ValidateDetails(details); err != nil {
		return nil, fmt.Errorf("detail matrix: %w", err)
	}

	teamOf := make(map[string]team.Team, len(roster))
	counts := make(map[team.Team]int, len(roster))
	for _, mem := range roster {
		if !mem.Team.Valid() {
			return nil, fmt.Errorf("member %s team %q: %w", mem.ID, string(mem.Team), team.ErrUnknownTeam)
		}
		teamOf[mem.ID] = mem.Team
		counts[mem.Team]++
	}

	totals := make(map[team.Team]float64)
	for _, r := range records {
		if !m.Covers(r.RunningDate) {
			continue
		}
		// Records of members outside the roster do not count.
		if t, ok := teamOf[r.MemberID]; ok {
			totals[t] += record.SafeDistance(r.Distance)
		}
	}

	slotTargets := make(map[team.Team]float64)
	for i := range details {
		slotTargets[details[i].Team] += details[i].Target()
	}

	usesSlots := policy == PolicySlots || (policy == PolicyAuto && len(details) > 0)

	rows := make([]TeamProgress, 0, len(team.All()))
	for _, t := range team.All() {
		row := TeamProgress{Team: t}
		n := counts[t]
		if n == 0 {
			rows = append(rows, row)
			continue
		}
		row.MemberCount = n
		row.TotalDistance = totals[t]
		row.AverageDistance = row.TotalDistance / float64(n)
		if usesSlots {
			row.Target = slotTargets[t]
		} else {
			row.Target = m.Target()
		}
		row.AchievementRate = rate(row.AverageDistance, row.Target)
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b TeamProgress) int {
		return cmp.Compare(b.AchievementRate, a.AchievementRate)
	})
	return rows, nil
}

func rate(average, target float64) float64 {
	if target <= 0 {
		return 0
	}
	r := average / target * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
