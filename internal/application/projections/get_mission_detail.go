package projections

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"runclub/internal/application/apperr"
	domainMission "runclub/internal/domain/mission"
	"runclub/internal/domain/progress"
	"runclub/internal/domain/week"
)

// mdRenderer renders mission descriptions. Raw HTML in the source is escaped
// because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a mission description to safe HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// GetMissionDetailsQuery carries query parameters.
type GetMissionDetailsQuery struct {
	MissionID string
}

// GetMissionDetailsDeps holds dependencies for GetMissionDetails.
type GetMissionDetailsDeps struct {
	MissionStore MissionStore
}

// QueryGetMissionDetails returns a mission's (team, weekday) matrix, ordered
// by team and then by position in the mission week.
func QueryGetMissionDetails(ctx context.Context, query GetMissionDetailsQuery, deps GetMissionDetailsDeps) ([]domainMission.Detail, error) {
	if _, err := deps.MissionStore.GetByID(ctx, query.MissionID); err != nil {
		return nil, apperr.Store("get mission", err)
	}
	details, err := deps.MissionStore.ListDetails(ctx, query.MissionID)
	if err != nil {
		return nil, apperr.Store("list mission details", err)
	}
	return details, nil
}

// GetMissionDetailQuery carries query parameters.
type GetMissionDetailQuery struct {
	MissionID string
	Policy    string
}

// GetMissionDetailResult carries the query result.
type GetMissionDetailResult struct {
	Mission         domainMission.Mission
	DescriptionHTML string
	Days            []week.Day
	Details         []domainMission.Detail
	Policy          progress.Policy
	Standings       []progress.TeamProgress
}

// GetMissionDetailDeps holds dependencies for GetMissionDetail.
type GetMissionDetailDeps struct {
	MissionStore MissionStore
	MemberStore  MemberStore
	RecordStore  RecordStore
}

// QueryGetMissionDetail assembles the mission page: rendered description,
// week columns, the detail matrix and the team standings.
// PRE: MissionID is non-empty
// POST: Standings hold one row per team
func QueryGetMissionDetail(ctx context.Context, query GetMissionDetailQuery, deps GetMissionDetailDeps) (GetMissionDetailResult, error) {
	policy, err := progress.ParsePolicy(query.Policy)
	if err != nil {
		return GetMissionDetailResult{}, apperr.Invalid(err)
	}

	m, err := deps.MissionStore.GetByID(ctx, query.MissionID)
	if err != nil {
		return GetMissionDetailResult{}, apperr.Store("get mission", err)
	}
	days, err := m.Days()
	if err != nil {
		return GetMissionDetailResult{}, apperr.Invalid(err)
	}
	details, err := deps.MissionStore.ListDetails(ctx, m.ID)
	if err != nil {
		return GetMissionDetailResult{}, apperr.Store("list mission details", err)
	}
	roster, records, err := missionSnapshot(ctx, m, deps.MemberStore, deps.RecordStore)
	if err != nil {
		return GetMissionDetailResult{}, err
	}
	standings, err := progress.ComputeWithPolicy(m, roster, records, details, policy)
	if err != nil {
		return GetMissionDetailResult{}, classifyCompute(err)
	}

	html, err := RenderMarkdown(m.Description)
	if err != nil {
		return GetMissionDetailResult{}, err
	}

	return GetMissionDetailResult{
		Mission:         m,
		DescriptionHTML: html,
		Days:            days,
		Details:         details,
		Policy:          policy,
		Standings:       standings,
	}, nil
}
