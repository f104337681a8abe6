package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"runclub/internal/application/apperr"
	"runclub/internal/domain/member"
	"runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// ErrUnknownMember is returned when a record names a member that does not exist.
var ErrUnknownMember = errors.New("member does not exist")

// RecordFields are the editable running record attributes.
type RecordFields struct {
	MemberID    string
	RunningDate week.Date
	Distance    float64
	RunningTime string // HH:MM:SS
	Memo        string
}

func (f RecordFields) apply(r *record.Record) error {
	elapsed, err := record.ParseClock(f.RunningTime)
	if err != nil {
		return err
	}
	r.MemberID = strings.TrimSpace(f.MemberID)
	r.RunningDate = f.RunningDate
	r.Distance = f.Distance
	r.RunningTime = elapsed
	r.Memo = strings.TrimSpace(f.Memo)
	r.DerivePace()
	return r.Validate()
}

// lookupMember fetches the record owner, reporting a missing one as bad input.
func lookupMember(ctx context.Context, store MemberStore, id string) (member.Member, error) {
	m, err := store.GetByID(ctx, id)
	if err != nil {
		err = apperr.Store("get member", err)
		if apperr.IsNotFound(err) {
			return member.Member{}, apperr.Invalid(fmt.Errorf("member %s: %w", id, ErrUnknownMember))
		}
		return member.Member{}, err
	}
	return m, nil
}

// --- Create Record ---

// CreateRecordDeps holds dependencies for CreateRecord.
type CreateRecordDeps struct {
	RecordStore RecordStore
	MemberStore MemberStore
	GenerateID  func() string
	Now         func() time.Time
}

// CreateRecordResult reports the saved record and any personal best it set.
type CreateRecordResult struct {
	Record       record.Record
	PersonalBest member.Category // "" when no best was set
}

// NewBest reports whether the record set a personal best.
func (r CreateRecordResult) NewBest() bool {
	return r.PersonalBest != ""
}

// ExecuteCreateRecord logs a run and updates the member's personal best when
// the distance falls in a race band and the time beats the stored one.
// PRE: MemberID exists; RunningTime is HH:MM:SS
// POST: Record persisted with derived pace; member best updated when beaten
func ExecuteCreateRecord(ctx context.Context, input RecordFields, deps CreateRecordDeps) (CreateRecordResult, error) {
	r := record.Record{ID: deps.GenerateID(), CreatedAt: deps.Now()}
	if err := input.apply(&r); err != nil {
		return CreateRecordResult{}, apperr.Invalid(err)
	}
	m, err := lookupMember(ctx, deps.MemberStore, r.MemberID)
	if err != nil {
		return CreateRecordResult{}, err
	}
	if err := deps.RecordStore.Save(ctx, r); err != nil {
		return CreateRecordResult{}, apperr.Store("save record", err)
	}
	r.MemberName = m.Name

	res := CreateRecordResult{Record: r}
	if c, ok := m.ApplyRun(r.Distance, r.RunningTime); ok {
		if err := deps.MemberStore.UpdateBests(ctx, m); err != nil {
			return res, apperr.Store("update personal best", err)
		}
		res.PersonalBest = c
		slog.Info("record_event", "event", "personal_best", "member_id", m.ID, "category", string(c), "time", m.Best(c))
	}

	slog.Info("record_event", "event", "record_created", "record_id", r.ID, "member_id", r.MemberID, "distance", r.Distance)
	return res, nil
}

// --- Update Record ---

// UpdateRecordInput carries input for the update record orchestrator.
type UpdateRecordInput struct {
	RecordID string
	RecordFields
}

// UpdateRecordDeps holds dependencies for UpdateRecord.
type UpdateRecordDeps struct {
	RecordStore RecordStore
	MemberStore MemberStore
}

// ExecuteUpdateRecord edits a run. Personal bests are only checked on create.
// PRE: RecordID exists
// POST: Record persisted with re-derived pace; CreatedAt unchanged
func ExecuteUpdateRecord(ctx context.Context, input UpdateRecordInput, deps UpdateRecordDeps) (record.Record, error) {
	r, err := deps.RecordStore.GetByID(ctx, input.RecordID)
	if err != nil {
		return record.Record{}, apperr.Store("get record", err)
	}
	if err := input.apply(&r); err != nil {
		return record.Record{}, apperr.Invalid(err)
	}
	m, err := lookupMember(ctx, deps.MemberStore, r.MemberID)
	if err != nil {
		return record.Record{}, err
	}
	if err := deps.RecordStore.Save(ctx, r); err != nil {
		return record.Record{}, apperr.Store("save record", err)
	}
	r.MemberName = m.Name

	slog.Info("record_event", "event", "record_updated", "record_id", r.ID, "member_id", r.MemberID)
	return r, nil
}

// --- Delete Record ---

// DeleteRecordDeps holds dependencies for DeleteRecord.
type DeleteRecordDeps struct {
	RecordStore RecordStore
}

// ExecuteDeleteRecord removes a run.
// PRE: recordID exists
// POST: Record deleted
func ExecuteDeleteRecord(ctx context.Context, recordID string, deps DeleteRecordDeps) error {
	if err := deps.RecordStore.Delete(ctx, recordID); err != nil {
		return apperr.Store("delete record", err)
	}
	slog.Info("record_event", "event", "record_deleted", "record_id", recordID)
	return nil
}
