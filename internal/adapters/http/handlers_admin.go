package web

import (
	"net/http"
	"strconv"
	"time"

	"runclub/internal/application/projections"
	"runclub/internal/domain/week"
)

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetDashboard handles GET /api/dashboard
func handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Today: today()},
		projections.GetDashboardDeps{
			MemberStore:  stores.MemberStore,
			RecordStore:  stores.RecordStore,
			MissionStore: stores.MissionStore,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"member_count":    result.MemberCount,
		"month_distance":  result.MonthDistance,
		"month_runs":      result.MonthRuns,
		"active_missions": result.ActiveMissions,
		"recent_records":  toRecordDTOs(result.RecentRecords),
	})
}

// handleGetWeek handles GET /api/week?start=&end=
// It resolves an arbitrary range without a stored mission.
func handleGetWeek(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil || start.IsZero() {
		badRequest(w, "start must be YYYY-MM-DD")
		return
	}
	end, err := queryDate(r, "end")
	if err != nil || end.IsZero() {
		badRequest(w, "end must be YYYY-MM-DD")
		return
	}
	days, err := week.Window(start, end)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"week_start": week.WeekStart(start),
		"days":       days,
	})
}

// handleGetAdminPerf handles GET /api/admin/perf?minutes=&top=
func handleGetAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "perf collection disabled"})
		return
	}
	q := r.URL.Query()
	minutes, err := strconv.Atoi(q.Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	top, err := strconv.Atoi(q.Get("top"))
	if err != nil || top <= 0 {
		top = 10
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, top))
}
