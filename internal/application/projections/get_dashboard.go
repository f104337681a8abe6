package projections

import (
	"context"

	"runclub/internal/adapters/storage/member"
	"runclub/internal/adapters/storage/mission"
	"runclub/internal/adapters/storage/record"
	"runclub/internal/application/apperr"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// RecentRecordLimit is how many records the dashboard shows.
const RecentRecordLimit = 10

// GetDashboardQuery carries query parameters.
type GetDashboardQuery struct {
	Today week.Date
}

// GetDashboardResult carries the query result.
type GetDashboardResult struct {
	MemberCount    int
	MonthDistance  float64
	MonthRuns      int
	ActiveMissions int
	RecentRecords  []domainRecord.Record
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	MemberStore  MemberStore
	RecordStore  RecordStore
	MissionStore MissionStore
}

// QueryGetDashboard gathers the overview counters.
// PRE: Today is set
// POST: Month figures cover the calendar month containing Today
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	var res GetDashboardResult
	var err error

	if res.MemberCount, err = deps.MemberStore.Count(ctx, member.ListFilter{}); err != nil {
		return GetDashboardResult{}, apperr.Store("count members", err)
	}

	month, err := deps.RecordStore.List(ctx, record.ListFilter{
		Start: query.Today.FirstOfMonth(),
		End:   query.Today.LastOfMonth(),
	})
	if err != nil {
		return GetDashboardResult{}, apperr.Store("list month records", err)
	}
	res.MonthDistance = domainRecord.TotalDistance(month)
	res.MonthRuns = len(month)

	active := true
	if res.ActiveMissions, err = deps.MissionStore.Count(ctx, mission.ListFilter{Active: &active, CoversOn: query.Today}); err != nil {
		return GetDashboardResult{}, apperr.Store("count active missions", err)
	}

	if res.RecentRecords, err = deps.RecordStore.List(ctx, record.ListFilter{Limit: RecentRecordLimit}); err != nil {
		return GetDashboardResult{}, apperr.Store("list recent records", err)
	}
	return res, nil
}
