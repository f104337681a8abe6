package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"runclub/internal/application/apperr"
	"runclub/internal/domain/mission"
	"runclub/internal/domain/week"
)

// MissionFields are the editable mission attributes.
type MissionFields struct {
	Year           int
	WeekNumber     int
	Title          string
	Description    string
	Active         bool
	StartDate      week.Date
	EndDate        week.Date
	TargetDistance *float64
}

func (f MissionFields) apply(m *mission.Mission) {
	m.Year = f.Year
	m.WeekNumber = f.WeekNumber
	m.Title = strings.TrimSpace(f.Title)
	m.Description = f.Description
	m.Active = f.Active
	m.StartDate = f.StartDate
	m.EndDate = f.EndDate
	m.TargetDistance = f.TargetDistance
}

// --- Create Mission ---

// CreateMissionDeps holds dependencies for CreateMission.
type CreateMissionDeps struct {
	MissionStore MissionStore
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateMission adds a weekly mission.
// PRE: EndDate >= StartDate
// POST: Mission persisted; nothing is written when validation fails
func ExecuteCreateMission(ctx context.Context, input MissionFields, deps CreateMissionDeps) (mission.Mission, error) {
	m := mission.Mission{ID: deps.GenerateID(), CreatedAt: deps.Now()}
	input.apply(&m)
	if err := m.Validate(); err != nil {
		return mission.Mission{}, apperr.Invalid(err)
	}
	if err := deps.MissionStore.Save(ctx, m); err != nil {
		return mission.Mission{}, apperr.Store("save mission", err)
	}

	slog.Info("mission_event", "event", "mission_created", "mission_id", m.ID, "start", m.StartDate.String(), "end", m.EndDate.String())
	return m, nil
}

// --- Update Mission ---

// UpdateMissionInput carries input for the update mission orchestrator.
type UpdateMissionInput struct {
	MissionID string
	MissionFields
}

// UpdateMissionDeps holds dependencies for UpdateMission.
type UpdateMissionDeps struct {
	MissionStore MissionStore
}

// ExecuteUpdateMission overwrites every editable field of a mission.
// PRE: MissionID exists; EndDate >= StartDate
// POST: Mission persisted; nothing is written when validation fails
func ExecuteUpdateMission(ctx context.Context, input UpdateMissionInput, deps UpdateMissionDeps) (mission.Mission, error) {
	m, err := deps.MissionStore.GetByID(ctx, input.MissionID)
	if err != nil {
		return mission.Mission{}, apperr.Store("get mission", err)
	}
	input.apply(&m)
	if err := m.Validate(); err != nil {
		return mission.Mission{}, apperr.Invalid(err)
	}
	if err := deps.MissionStore.Save(ctx, m); err != nil {
		return mission.Mission{}, apperr.Store("save mission", err)
	}

	slog.Info("mission_event", "event", "mission_updated", "mission_id", m.ID)
	return m, nil
}

// --- Delete Mission ---

// DeleteMissionDeps holds dependencies for DeleteMission.
type DeleteMissionDeps struct {
	MissionStore MissionStore
}

// ExecuteDeleteMission removes a mission and its detail matrix.
// PRE: missionID exists
// POST: Mission and details deleted; running records are untouched
func ExecuteDeleteMission(ctx context.Context, missionID string, deps DeleteMissionDeps) error {
	if err := deps.MissionStore.Delete(ctx, missionID); err != nil {
		return apperr.Store("delete mission", err)
	}
	slog.Info("mission_event", "event", "mission_deleted", "mission_id", missionID)
	return nil
}

// --- Replace Mission Details ---

// ReplaceMissionDetailsInput carries input for the replace details orchestrator.
type ReplaceMissionDetailsInput struct {
	MissionID string
	Details   []mission.Detail
}

// ReplaceMissionDetailsDeps holds dependencies for ReplaceMissionDetails.
type ReplaceMissionDetailsDeps struct {
	MissionStore MissionStore
}

// ExecuteReplaceMissionDetails swaps a mission's whole (team, weekday) matrix.
// PRE: MissionID exists
// POST: Exactly the given slots exist; a duplicate slot writes nothing
func ExecuteReplaceMissionDetails(ctx context.Context, input ReplaceMissionDetailsInput, deps ReplaceMissionDetailsDeps) ([]mission.Detail, error) {
	details := make([]mission.Detail, len(input.Details))
	for i, d := range input.Details {
		d.MissionID = input.MissionID
		d.Content = strings.TrimSpace(d.Content)
		details[i] = d
	}
	if err := mission.ValidateDetails(details); err != nil {
		return nil, apperr.Invalid(err)
	}
	if err := deps.MissionStore.ReplaceDetails(ctx, input.MissionID, details); err != nil {
		return nil, apperr.Store("replace mission details", err)
	}

	slog.Info("mission_event", "event", "mission_details_replaced", "mission_id", input.MissionID, "slots", len(details))
	return details, nil
}
