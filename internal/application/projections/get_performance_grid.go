package projections

import (
	"context"
	"fmt"

	"runclub/internal/adapters/storage/member"
	"runclub/internal/application/apperr"
	"runclub/internal/domain/attendance"
	domainMission "runclub/internal/domain/mission"
	"runclub/internal/domain/team"
)

// GetPerformanceGridQuery carries query parameters. Filters are explicit per
// request; nothing is remembered between calls.
type GetPerformanceGridQuery struct {
	MissionID string
	Team      string // "" for every team
	MemberID  string // "" for every member of the selected team(s)
}

// GetPerformanceGridResult carries the query result.
type GetPerformanceGridResult struct {
	Mission domainMission.Mission
	Team    team.Team
	Grid    *attendance.Grid
}

// GetPerformanceGridDeps holds dependencies for GetPerformanceGrid.
type GetPerformanceGridDeps struct {
	MissionStore    MissionStore
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
}

// QueryGetPerformanceGrid builds the completion grid for a mission window.
// PRE: MissionID is non-empty
// POST: One row per displayed member, one cell per window day
func QueryGetPerformanceGrid(ctx context.Context, query GetPerformanceGridQuery, deps GetPerformanceGridDeps) (GetPerformanceGridResult, error) {
	filter := member.ListFilter{}
	var selected team.Team
	if query.Team != "" {
		t, err := team.Parse(query.Team)
		if err != nil {
			return GetPerformanceGridResult{}, apperr.Invalid(err)
		}
		selected = t
		filter.Team = t
	}
	if query.MemberID != "" {
		filter.IDs = []string{query.MemberID}
	}

	m, err := deps.MissionStore.GetByID(ctx, query.MissionID)
	if err != nil {
		return GetPerformanceGridResult{}, apperr.Store("get mission", err)
	}
	days, err := m.Days()
	if err != nil {
		return GetPerformanceGridResult{}, apperr.Invalid(err)
	}

	roster, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetPerformanceGridResult{}, apperr.Store("list members", err)
	}
	if query.MemberID != "" && len(roster) == 0 {
		return GetPerformanceGridResult{}, apperr.Invalidf("member %s is not in the selected team", query.MemberID)
	}

	ids := make([]string, 0, len(roster))
	for _, mem := range roster {
		ids = append(ids, mem.ID)
	}
	records, err := deps.AttendanceStore.ListInWindow(ctx, ids, m.StartDate, m.EndDate)
	if err != nil {
		return GetPerformanceGridResult{}, apperr.Store(fmt.Sprintf("list records %s..%s", m.StartDate, m.EndDate), err)
	}

	return GetPerformanceGridResult{
		Mission: m,
		Team:    selected,
		Grid:    attendance.BuildGrid(roster, records, days),
	}, nil
}
