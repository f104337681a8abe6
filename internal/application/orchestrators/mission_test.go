package orchestrators

import (
	"context"
	"errors"
	"testing"

	"runclub/internal/application/apperr"
	domainMission "runclub/internal/domain/mission"
	"runclub/internal/domain/team"
	"runclub/internal/domain/week"
)

func validMissionFields() MissionFields {
	return MissionFields{
		Year: 2024, WeekNumber: 23, Title: "Hill week", Active: true,
		StartDate: june(6), EndDate: june(12), TargetDistance: domainMission.Float(10),
	}
}

// TestExecuteCreateMission_Valid persists a mission.
func TestExecuteCreateMission_Valid(t *testing.T) {
	store := newMockMissionStore()
	m, err := ExecuteCreateMission(context.Background(), validMissionFields(), CreateMissionDeps{MissionStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "test-id-001" || m.Target() != 10 || store.saves != 1 {
		t.Errorf("mission=%+v saves=%d", m, store.saves)
	}
}

// TestExecuteCreateMission_EndBeforeStart writes nothing.
func TestExecuteCreateMission_EndBeforeStart(t *testing.T) {
	store := newMockMissionStore()
	f := validMissionFields()
	f.StartDate, f.EndDate = june(12), june(6)
	_, err := ExecuteCreateMission(context.Background(), f, CreateMissionDeps{MissionStore: store, GenerateID: fixedID, Now: fixedNow})
	if !apperr.IsValidation(err) || !errors.Is(err, domainMission.ErrEndBeforeStart) {
		t.Errorf("err=%v want validation ErrEndBeforeStart", err)
	}
	if store.saves != 0 {
		t.Errorf("saves=%d want 0", store.saves)
	}
}

// TestExecuteUpdateMission_InvalidLeavesStoredMission keeps the old row on a bad update.
func TestExecuteUpdateMission_InvalidLeavesStoredMission(t *testing.T) {
	orig := domainMission.Mission{ID: "w1", Year: 2024, WeekNumber: 23, Title: "Hill week", StartDate: june(6), EndDate: june(12)}
	store := newMockMissionStore(orig)

	f := validMissionFields()
	f.Title = ""
	_, err := ExecuteUpdateMission(context.Background(), UpdateMissionInput{MissionID: "w1", MissionFields: f}, UpdateMissionDeps{MissionStore: store})
	if !apperr.IsValidation(err) {
		t.Errorf("err=%v want validation error", err)
	}
	if store.missions["w1"].Title != "Hill week" || store.saves != 0 {
		t.Errorf("stored mission changed: %+v", store.missions["w1"])
	}

	f = validMissionFields()
	f.Active = false
	m, err := ExecuteUpdateMission(context.Background(), UpdateMissionInput{MissionID: "w1", MissionFields: f}, UpdateMissionDeps{MissionStore: store})
	if err != nil || m.Active {
		t.Errorf("update = %+v, %v", m, err)
	}
}

// TestExecuteDeleteMission removes the mission and its details.
func TestExecuteDeleteMission(t *testing.T) {
	store := newMockMissionStore(domainMission.Mission{ID: "w1"})
	store.details["w1"] = []domainMission.Detail{{MissionID: "w1", Team: team.A, Weekday: week.Friday}}
	if err := ExecuteDeleteMission(context.Background(), "w1", DeleteMissionDeps{MissionStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.details["w1"]; ok {
		t.Error("details should be gone")
	}
	if err := ExecuteDeleteMission(context.Background(), "w1", DeleteMissionDeps{MissionStore: store}); !apperr.IsNotFound(err) {
		t.Errorf("err=%v want not found", err)
	}
}

// TestExecuteReplaceMissionDetails stamps the mission ID and rejects duplicates.
func TestExecuteReplaceMissionDetails(t *testing.T) {
	store := newMockMissionStore(domainMission.Mission{ID: "w1"})
	details := []domainMission.Detail{
		{Team: team.A, Weekday: week.Thursday, Content: " 5k tempo ", TargetDistance: domainMission.Float(5)},
		{Team: team.B, Weekday: week.Sunday, Content: "long run"},
	}
	got, err := ExecuteReplaceMissionDetails(context.Background(), ReplaceMissionDetailsInput{MissionID: "w1", Details: details}, ReplaceMissionDetailsDeps{MissionStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].MissionID != "w1" || got[0].Content != "5k tempo" || len(store.details["w1"]) != 2 {
		t.Errorf("details=%+v", got)
	}

	dup := append(details, domainMission.Detail{Team: team.A, Weekday: week.Thursday})
	_, err = ExecuteReplaceMissionDetails(context.Background(), ReplaceMissionDetailsInput{MissionID: "w1", Details: dup}, ReplaceMissionDetailsDeps{MissionStore: store})
	if !apperr.IsValidation(err) || !errors.Is(err, domainMission.ErrDuplicateSlot) {
		t.Errorf("err=%v want validation ErrDuplicateSlot", err)
	}
	if len(store.details["w1"]) != 2 {
		t.Error("a rejected matrix must not replace the stored one")
	}

	_, err = ExecuteReplaceMissionDetails(context.Background(), ReplaceMissionDetailsInput{MissionID: "ghost", Details: details}, ReplaceMissionDetailsDeps{MissionStore: store})
	if !apperr.IsNotFound(err) {
		t.Errorf("err=%v want not found", err)
	}
}
