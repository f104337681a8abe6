package orchestrators

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"runclub/internal/adapters/storage/attendance"
	"runclub/internal/adapters/storage/member"
	"runclub/internal/application/apperr"
	domainAttendance "runclub/internal/domain/attendance"
)

// SaveAttendanceInput carries input for the save attendance orchestrator.
type SaveAttendanceInput struct {
	MissionID string
	Toggles   []domainAttendance.Toggle
}

// SaveAttendanceDeps holds dependencies for SaveAttendance.
type SaveAttendanceDeps struct {
	MissionStore    MissionStore
	MemberStore     MemberStore
	AttendanceStore AttendanceStore
	GenerateID      func() string
	Now             func() time.Time
}

// SaveAttendanceResult reports what the save wrote.
type SaveAttendanceResult struct {
	Plan    domainAttendance.SavePlan
	Applied attendance.Applied
}

// ExecuteSaveAttendance reconciles grid toggles against stored records and
// applies the resulting plan: deletions, then updates, then insertions.
// PRE: toggles reference members and dates of the mission window
// POST: Each toggled cell is completed iff its last toggle was checked
// INVARIANT: The whole plan commits or none of it does
func ExecuteSaveAttendance(ctx context.Context, input SaveAttendanceInput, deps SaveAttendanceDeps) (SaveAttendanceResult, error) {
	m, err := deps.MissionStore.GetByID(ctx, input.MissionID)
	if err != nil {
		return SaveAttendanceResult{}, apperr.Store("get mission", err)
	}
	days, err := m.Days()
	if err != nil {
		return SaveAttendanceResult{}, apperr.Invalid(err)
	}
	if len(input.Toggles) == 0 {
		return SaveAttendanceResult{}, nil
	}

	var ids []string
	for _, t := range input.Toggles {
		if !slices.Contains(ids, t.MemberID) {
			ids = append(ids, t.MemberID)
		}
	}
	roster, err := deps.MemberStore.List(ctx, member.ListFilter{IDs: ids})
	if err != nil {
		return SaveAttendanceResult{}, apperr.Store("list members", err)
	}
	records, err := deps.AttendanceStore.ListInWindow(ctx, ids, m.StartDate, m.EndDate)
	if err != nil {
		return SaveAttendanceResult{}, apperr.Store("list window records", err)
	}

	grid := domainAttendance.BuildGrid(roster, records, days)
	plan, err := grid.Plan(input.Toggles, deps.GenerateID, deps.Now())
	if err != nil {
		return SaveAttendanceResult{}, apperr.Invalid(err)
	}
	if plan.Empty() {
		return SaveAttendanceResult{Plan: plan}, nil
	}

	applied, err := deps.AttendanceStore.ApplyPlan(ctx, plan)
	if err != nil {
		return SaveAttendanceResult{}, apperr.Store("apply attendance plan", err)
	}

	slog.Info("attendance_event", "event", "attendance_saved", "mission_id", m.ID,
		"deleted", applied.Deleted, "updated", applied.Updated, "inserted", applied.Inserted)
	return SaveAttendanceResult{Plan: plan, Applied: applied}, nil
}
