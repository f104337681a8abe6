package projections

import (
	"context"

	"runclub/internal/adapters/storage/mission"
	"runclub/internal/application/apperr"
	"runclub/internal/application/listutil"
	domainMission "runclub/internal/domain/mission"
)

// GetMissionListQuery carries query parameters.
type GetMissionListQuery struct {
	Year    int   // 0 for every year
	Active  *bool // nil for both
	Page    int
	PerPage int
}

// GetMissionListResult carries the query result.
type GetMissionListResult struct {
	Missions []domainMission.Mission
	Years    []int // year filter options, newest first
	Page     listutil.PageInfo
}

// GetMissionListDeps holds dependencies for GetMissionList.
type GetMissionListDeps struct {
	MissionStore MissionStore
}

// QueryGetMissionList lists missions newest week first, with the year options.
// PRE: Valid query parameters
// POST: Missions are ordered by year desc, then week number desc
func QueryGetMissionList(ctx context.Context, query GetMissionListQuery, deps GetMissionListDeps) (GetMissionListResult, error) {
	filter := mission.ListFilter{Year: query.Year, Active: query.Active}

	total, err := deps.MissionStore.Count(ctx, filter)
	if err != nil {
		return GetMissionListResult{}, apperr.Store("count missions", err)
	}
	page := listutil.NewPageInfo(query.Page, query.PerPage, total)
	filter.Limit = page.PerPage
	filter.Offset = page.Offset()

	missions, err := deps.MissionStore.List(ctx, filter)
	if err != nil {
		return GetMissionListResult{}, apperr.Store("list missions", err)
	}
	years, err := deps.MissionStore.Years(ctx)
	if err != nil {
		return GetMissionListResult{}, apperr.Store("list mission years", err)
	}
	return GetMissionListResult{Missions: missions, Years: years, Page: page}, nil
}
