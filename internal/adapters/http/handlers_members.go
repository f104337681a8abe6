package web

import (
	"net/http"
	"strconv"

	"runclub/internal/application/listutil"
	"runclub/internal/application/orchestrators"
	"runclub/internal/application/projections"
)

// handleListMembers handles GET /api/members?team=&q=&sort=&dir=&page=&per_page=
func handleListMembers(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.MemberSortColumns, []string{"team"})
	result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		Team:    lp.Filters["team"],
		Search:  lp.Search,
		Sort:    lp.Sort,
		Dir:     lp.Dir,
		Page:    lp.Page,
		PerPage: lp.PerPage,
	}, projections.GetMemberListDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"members": toMemberDTOs(result.Members),
		"page":    result.Page,
	})
}

// handleGetMember handles GET /api/members/{id}
func handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := projections.QueryGetMember(r.Context(), projections.GetMemberQuery{MemberID: r.PathValue("id")},
		projections.GetMemberDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(m))
}

// handleCreateMember handles POST /api/members
func handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var in memberInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	m, err := orchestrators.ExecuteCreateMember(r.Context(), in.fields(), orchestrators.CreateMemberDeps{
		MemberStore: stores.MemberStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberDTO(m))
}

// handleUpdateMember handles PUT /api/members/{id}
func handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var in memberInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	m, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		MemberID:     r.PathValue("id"),
		MemberFields: in.fields(),
	}, orchestrators.UpdateMemberDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(m))
}

// handleDeleteMember handles DELETE /api/members/{id}
func handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMember(r.Context(), r.PathValue("id"),
		orchestrators.DeleteMemberDeps{MemberStore: stores.MemberStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportMembers handles POST /api/members/import?dry_run=&update=
// with a text/csv body.
func handleImportMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dryRun, _ := strconv.ParseBool(q.Get("dry_run"))
	update, _ := strconv.ParseBool(q.Get("update"))

	result, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:     http.MaxBytesReader(w, r.Body, maxBodyBytes),
		DryRun:     dryRun,
		UpdateMode: update,
	}, orchestrators.ImportMembersDeps{
		MemberStore: stores.MemberStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
