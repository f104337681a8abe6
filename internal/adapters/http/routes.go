package web

import "net/http"

// registerRoutes maps every endpoint onto mux using method patterns.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /api/dashboard", handleGetDashboard)
	mux.HandleFunc("GET /api/week", handleGetWeek)
	mux.HandleFunc("GET /api/admin/perf", handleGetAdminPerf)

	mux.HandleFunc("GET /api/members", handleListMembers)
	mux.HandleFunc("POST /api/members", handleCreateMember)
	mux.HandleFunc("POST /api/members/import", handleImportMembers)
	mux.HandleFunc("GET /api/members/{id}", handleGetMember)
	mux.HandleFunc("PUT /api/members/{id}", handleUpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", handleDeleteMember)

	mux.HandleFunc("GET /api/records", handleListRecords)
	mux.HandleFunc("POST /api/records", handleCreateRecord)
	mux.HandleFunc("GET /api/records/{id}", handleGetRecord)
	mux.HandleFunc("PUT /api/records/{id}", handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", handleDeleteRecord)

	mux.HandleFunc("GET /api/missions", handleListMissions)
	mux.HandleFunc("POST /api/missions", handleCreateMission)
	mux.HandleFunc("GET /api/missions/{id}", handleGetMission)
	mux.HandleFunc("PUT /api/missions/{id}", handleUpdateMission)
	mux.HandleFunc("DELETE /api/missions/{id}", handleDeleteMission)
	mux.HandleFunc("GET /api/missions/{id}/details", handleGetMissionDetails)
	mux.HandleFunc("PUT /api/missions/{id}/details", handleReplaceMissionDetails)
	mux.HandleFunc("GET /api/missions/{id}/progress", handleGetMissionProgress)
	mux.HandleFunc("GET /api/missions/{id}/week", handleGetMissionWeek)
	mux.HandleFunc("GET /api/missions/{id}/performance", handleGetPerformance)
	mux.HandleFunc("POST /api/missions/{id}/performance", handleSavePerformance)
	mux.HandleFunc("GET /api/missions/{id}/performance.xlsx", handleExportPerformance)
	mux.HandleFunc("POST /api/missions/{id}/digest", handleSendDigest)
}
