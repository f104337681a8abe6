package web

import (
	"net/http"
	"strconv"

	"runclub/internal/application/listutil"
	"runclub/internal/application/orchestrators"
	"runclub/internal/application/projections"
)

// handleListMissions handles GET /api/missions?year=&active=&page=&per_page=
func handleListMissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year := 0
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, "year must be a number")
			return
		}
		year = n
	}
	active, err := queryBool(r, "active")
	if err != nil {
		badRequest(w, "active must be true or false")
		return
	}
	pp := listutil.ParsePageParams(q)

	result, err := projections.QueryGetMissionList(r.Context(), projections.GetMissionListQuery{
		Year:    year,
		Active:  active,
		Page:    pp.Page,
		PerPage: pp.PerPage,
	}, projections.GetMissionListDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"missions": toMissionDTOs(result.Missions),
		"years":    result.Years,
		"page":     result.Page,
	})
}

// handleGetMission handles GET /api/missions/{id}?policy=
// The response carries the rendered description, the week window, the detail
// matrix and the current standings.
func handleGetMission(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMissionDetail(r.Context(), projections.GetMissionDetailQuery{
		MissionID: r.PathValue("id"),
		Policy:    r.URL.Query().Get("policy"),
	}, projections.GetMissionDetailDeps{
		MissionStore: stores.MissionStore,
		MemberStore:  stores.MemberStore,
		RecordStore:  stores.RecordStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mission":          toMissionDTO(result.Mission),
		"description_html": result.DescriptionHTML,
		"days":             result.Days,
		"details":          toDetailDTOs(result.Details),
		"policy":           result.Policy,
		"standings":        result.Standings,
	})
}

// handleCreateMission handles POST /api/missions
func handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var in missionInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	m, err := orchestrators.ExecuteCreateMission(r.Context(), in.fields(), orchestrators.CreateMissionDeps{
		MissionStore: stores.MissionStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMissionDTO(m))
}

// handleUpdateMission handles PUT /api/missions/{id}
func handleUpdateMission(w http.ResponseWriter, r *http.Request) {
	var in missionInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	m, err := orchestrators.ExecuteUpdateMission(r.Context(), orchestrators.UpdateMissionInput{
		MissionID:     r.PathValue("id"),
		MissionFields: in.fields(),
	}, orchestrators.UpdateMissionDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMissionDTO(m))
}

// handleDeleteMission handles DELETE /api/missions/{id}
func handleDeleteMission(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMission(r.Context(), r.PathValue("id"),
		orchestrators.DeleteMissionDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetMissionDetails handles GET /api/missions/{id}/details
func handleGetMissionDetails(w http.ResponseWriter, r *http.Request) {
	details, err := projections.QueryGetMissionDetails(r.Context(),
		projections.GetMissionDetailsQuery{MissionID: r.PathValue("id")},
		projections.GetMissionDetailsDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"details": toDetailDTOs(details)})
}

type replaceDetailsRequest struct {
	Details []detailDTO `json:"details"`
}

// handleReplaceMissionDetails handles PUT /api/missions/{id}/details
func handleReplaceMissionDetails(w http.ResponseWriter, r *http.Request) {
	var req replaceDetailsRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	details, err := fromDetailDTOs(req.Details)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	saved, err := orchestrators.ExecuteReplaceMissionDetails(r.Context(), orchestrators.ReplaceMissionDetailsInput{
		MissionID: r.PathValue("id"),
		Details:   details,
	}, orchestrators.ReplaceMissionDetailsDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"details": toDetailDTOs(saved)})
}

// handleGetMissionProgress handles GET /api/missions/{id}/progress?policy=
func handleGetMissionProgress(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetMissionProgress(r.Context(), projections.GetMissionProgressQuery{
		MissionID: r.PathValue("id"),
		Policy:    r.URL.Query().Get("policy"),
	}, progressDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mission":   toMissionDTO(result.Mission),
		"policy":    result.Policy,
		"standings": result.Standings,
	})
}

// handleGetMissionWeek handles GET /api/missions/{id}/week
func handleGetMissionWeek(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetWeekWindow(r.Context(),
		projections.GetWeekWindowQuery{MissionID: r.PathValue("id")},
		projections.GetWeekWindowDeps{MissionStore: stores.MissionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mission": toMissionDTO(result.Mission),
		"days":    result.Days,
	})
}

type digestRequest struct {
	Policy string `json:"policy"`
}

// handleSendDigest handles POST /api/missions/{id}/digest
// An empty body sends with the automatic policy.
func handleSendDigest(w http.ResponseWriter, r *http.Request) {
	var req digestRequest
	if r.ContentLength != 0 {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON")
			return
		}
	}
	result, err := orchestrators.ExecuteSendProgressDigest(r.Context(), orchestrators.SendProgressDigestInput{
		MissionID: r.PathValue("id"),
		Policy:    req.Policy,
	}, orchestrators.SendProgressDigestDeps{
		MissionStore: stores.MissionStore,
		MemberStore:  stores.MemberStore,
		RecordStore:  stores.RecordStore,
		EmailSender:  emailSender,
		Recipients:   digestRecipients,
		FromAddress:  emailFromAddress,
		ReplyTo:      emailReplyTo,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subject": result.Subject,
		"sent":    result.Sent,
	})
}

func progressDeps() projections.GetMissionProgressDeps {
	return projections.GetMissionProgressDeps{
		MissionStore: stores.MissionStore,
		MemberStore:  stores.MemberStore,
		RecordStore:  stores.RecordStore,
	}
}
