package projections

import (
	"context"
	"errors"

	"runclub/internal/adapters/storage/member"
	"runclub/internal/adapters/storage/record"
	"runclub/internal/application/apperr"
	domainMember "runclub/internal/domain/member"
	domainMission "runclub/internal/domain/mission"
	"runclub/internal/domain/progress"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/team"
)

// GetMissionProgressQuery carries query parameters.
type GetMissionProgressQuery struct {
	MissionID string
	Policy    string // "", auto, aggregate or slots
}

// GetMissionProgressResult carries the query result.
type GetMissionProgressResult struct {
	Mission   domainMission.Mission
	Policy    progress.Policy
	Standings []progress.TeamProgress
}

// GetMissionProgressDeps holds dependencies for GetMissionProgress.
type GetMissionProgressDeps struct {
	MissionStore MissionStore
	MemberStore  MemberStore
	RecordStore  RecordStore
}

// QueryGetMissionProgress ranks every team for one mission.
// PRE: MissionID is non-empty
// POST: Returns one standing per team, best achievement rate first
// INVARIANT: roster, records and details are each fetched once before computing
func QueryGetMissionProgress(ctx context.Context, query GetMissionProgressQuery, deps GetMissionProgressDeps) (GetMissionProgressResult, error) {
	policy, err := progress.ParsePolicy(query.Policy)
	if err != nil {
		return GetMissionProgressResult{}, apperr.Invalid(err)
	}

	m, err := deps.MissionStore.GetByID(ctx, query.MissionID)
	if err != nil {
		return GetMissionProgressResult{}, apperr.Store("get mission", err)
	}
	details, err := deps.MissionStore.ListDetails(ctx, m.ID)
	if err != nil {
		return GetMissionProgressResult{}, apperr.Store("list mission details", err)
	}
	roster, records, err := missionSnapshot(ctx, m, deps.MemberStore, deps.RecordStore)
	if err != nil {
		return GetMissionProgressResult{}, err
	}

	standings, err := progress.ComputeWithPolicy(m, roster, records, details, policy)
	if err != nil {
		return GetMissionProgressResult{}, classifyCompute(err)
	}
	return GetMissionProgressResult{Mission: m, Policy: policy, Standings: standings}, nil
}

// missionSnapshot loads the full roster and every record in the mission window.
func missionSnapshot(ctx context.Context, m domainMission.Mission, members MemberStore, records RecordStore) ([]domainMember.Member, []domainRecord.Record, error) {
	roster, err := members.List(ctx, member.ListFilter{})
	if err != nil {
		return nil, nil, apperr.Store("list members", err)
	}
	recs, err := records.List(ctx, record.ListFilter{Start: m.StartDate, End: m.EndDate})
	if err != nil {
		return nil, nil, apperr.Store("list records", err)
	}
	return roster, recs, nil
}

// classifyCompute marks input problems the admin can correct as validation
// failures; anything else passes through.
func classifyCompute(err error) error {
	switch {
	case errors.Is(err, domainMission.ErrEndBeforeStart),
		errors.Is(err, domainMission.ErrDuplicateSlot),
		errors.Is(err, team.ErrUnknownTeam),
		errors.Is(err, progress.ErrUnknownPolicy):
		return apperr.Invalid(err)
	}
	return err
}
