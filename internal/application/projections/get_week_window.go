package projections

import (
	"context"

	"runclub/internal/application/apperr"
	domainMission "runclub/internal/domain/mission"
	"runclub/internal/domain/week"
)

// GetWeekWindowQuery carries query parameters.
type GetWeekWindowQuery struct {
	MissionID string
}

// GetWeekWindowResult carries the query result.
type GetWeekWindowResult struct {
	Mission domainMission.Mission
	Days    []week.Day
}

// GetWeekWindowDeps holds dependencies for GetWeekWindow.
type GetWeekWindowDeps struct {
	MissionStore MissionStore
}

// QueryGetWeekWindow resolves the Thursday to Wednesday columns of a mission.
// PRE: MissionID is non-empty
// POST: Days are consecutive, ascending and inside the mission range
func QueryGetWeekWindow(ctx context.Context, query GetWeekWindowQuery, deps GetWeekWindowDeps) (GetWeekWindowResult, error) {
	m, err := deps.MissionStore.GetByID(ctx, query.MissionID)
	if err != nil {
		return GetWeekWindowResult{}, apperr.Store("get mission", err)
	}
	days, err := m.Days()
	if err != nil {
		return GetWeekWindowResult{}, apperr.Invalid(err)
	}
	return GetWeekWindowResult{Mission: m, Days: days}, nil
}
