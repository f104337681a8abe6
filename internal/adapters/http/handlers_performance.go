package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"runclub/internal/adapters/export"
	"runclub/internal/application/orchestrators"
	"runclub/internal/application/projections"
	"runclub/internal/domain/attendance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func performanceGridDeps() projections.GetPerformanceGridDeps {
	return projections.GetPerformanceGridDeps{
		MissionStore:    stores.MissionStore,
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
	}
}

// handleGetPerformance handles GET /api/missions/{id}/performance?team=&member=
func handleGetPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetPerformanceGrid(r.Context(), projections.GetPerformanceGridQuery{
		MissionID: r.PathValue("id"),
		Team:      q.Get("team"),
		MemberID:  q.Get("member"),
	}, performanceGridDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mission": toMissionDTO(result.Mission),
		"team":    string(result.Team),
		"grid":    result.Grid,
	})
}

type savePerformanceRequest struct {
	Toggles []attendance.Toggle `json:"toggles"`
}

// handleSavePerformance handles POST /api/missions/{id}/performance
// The response reports how many records were deleted, updated and inserted.
func handleSavePerformance(w http.ResponseWriter, r *http.Request) {
	var req savePerformanceRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	result, err := orchestrators.ExecuteSaveAttendance(r.Context(), orchestrators.SaveAttendanceInput{
		MissionID: r.PathValue("id"),
		Toggles:   req.Toggles,
	}, orchestrators.SaveAttendanceDeps{
		MissionStore:    stores.MissionStore,
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		GenerateID:      generateID,
		Now:             timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": result.Applied})
}

// handleExportPerformance handles GET /api/missions/{id}/performance.xlsx
// The workbook holds the full grid and the standings under the automatic policy.
func handleExportPerformance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	grid, err := projections.QueryGetPerformanceGrid(r.Context(),
		projections.GetPerformanceGridQuery{MissionID: id}, performanceGridDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	prog, err := projections.QueryGetMissionProgress(r.Context(),
		projections.GetMissionProgressQuery{MissionID: id}, progressDeps())
	if err != nil {
		writeError(w, err)
		return
	}

	wb := export.Workbook{Mission: grid.Mission, Grid: grid.Grid, Standings: prog.Standings}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, wb); err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+wb.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("xlsx_write_failed", "mission_id", id, "error", err.Error())
	}
}
