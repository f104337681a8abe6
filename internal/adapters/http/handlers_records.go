package web

import (
	"net/http"

	"runclub/internal/application/listutil"
	"runclub/internal/application/orchestrators"
	"runclub/internal/application/projections"
)

// handleListRecords handles GET /api/records?member=&period=&start=&end=&page=&per_page=
func handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := queryDate(r, "start")
	if err != nil {
		badRequest(w, "start: "+err.Error())
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		badRequest(w, "end: "+err.Error())
		return
	}
	pp := listutil.ParsePageParams(q)

	result, err := projections.QueryGetRecordList(r.Context(), projections.GetRecordListQuery{
		MemberID: q.Get("member"),
		Period:   projections.Period(q.Get("period")),
		Start:    start,
		End:      end,
		Today:    today(),
		Page:     pp.Page,
		PerPage:  pp.PerPage,
	}, projections.GetRecordListDeps{RecordStore: stores.RecordStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": toRecordDTOs(result.Records),
		"summary": result.Summary,
		"page":    result.Page,
		"start":   dateOrNil(result.Start),
		"end":     dateOrNil(result.End),
	})
}

func dateOrNil(d interface{ IsZero() bool }) any {
	if d.IsZero() {
		return nil
	}
	return d
}

// handleGetRecord handles GET /api/records/{id}
func handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := projections.QueryGetRecord(r.Context(), projections.GetRecordQuery{RecordID: r.PathValue("id")},
		projections.GetRecordDeps{RecordStore: stores.RecordStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// handleCreateRecord handles POST /api/records
func handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	res, err := orchestrators.ExecuteCreateRecord(r.Context(), in.fields(), orchestrators.CreateRecordDeps{
		RecordStore: stores.RecordStore,
		MemberStore: stores.MemberStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"record":        toRecordDTO(res.Record),
		"personal_best": res.NewBest(),
		"category":      string(res.PersonalBest),
	})
}

// handleUpdateRecord handles PUT /api/records/{id}
func handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := strictDecode(w, r, &in); err != nil {
		badRequest(w, "invalid JSON")
		return
	}
	rec, err := orchestrators.ExecuteUpdateRecord(r.Context(), orchestrators.UpdateRecordInput{
		RecordID:     r.PathValue("id"),
		RecordFields: in.fields(),
	}, orchestrators.UpdateRecordDeps{RecordStore: stores.RecordStore, MemberStore: stores.MemberStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// handleDeleteRecord handles DELETE /api/records/{id}
func handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteRecord(r.Context(), r.PathValue("id"),
		orchestrators.DeleteRecordDeps{RecordStore: stores.RecordStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
