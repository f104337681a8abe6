package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"runclub/internal/application/apperr"
	"runclub/internal/domain/member"
	"runclub/internal/domain/team"
)

// MemberFields are the editable member attributes.
type MemberFields struct {
	Name       string
	Department string
	Team       string
	Best10K    string
	BestHalf   string
	BestFull   string
}

func (f MemberFields) apply(m *member.Member) error {
	t, err := team.Parse(f.Team)
	if err != nil {
		return err
	}
	m.Name = strings.TrimSpace(f.Name)
	m.Department = strings.TrimSpace(f.Department)
	m.Team = t
	m.Best10K = strings.TrimSpace(f.Best10K)
	m.BestHalf = strings.TrimSpace(f.BestHalf)
	m.BestFull = strings.TrimSpace(f.BestFull)
	return nil
}

// --- Create Member ---

// CreateMemberDeps holds dependencies for CreateMember.
type CreateMemberDeps struct {
	MemberStore MemberStore
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateMember adds a runner to the roster.
// PRE: Name non-empty; Team in A..F
// POST: Member persisted with a generated ID
func ExecuteCreateMember(ctx context.Context, input MemberFields, deps CreateMemberDeps) (member.Member, error) {
	m := member.Member{ID: deps.GenerateID(), CreatedAt: deps.Now()}
	if err := input.apply(&m); err != nil {
		return member.Member{}, apperr.Invalid(err)
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, apperr.Invalid(err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, apperr.Store("save member", err)
	}

	slog.Info("member_event", "event", "member_created", "member_id", m.ID, "team", string(m.Team))
	return m, nil
}

// --- Update Member ---

// UpdateMemberInput carries input for the update member orchestrator.
type UpdateMemberInput struct {
	MemberID string
	MemberFields
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteUpdateMember overwrites every editable field of an existing member.
// PRE: MemberID exists
// POST: Member persisted; ID and CreatedAt unchanged
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, apperr.Store("get member", err)
	}
	if err := input.apply(&m); err != nil {
		return member.Member{}, apperr.Invalid(err)
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, apperr.Invalid(err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, apperr.Store("save member", err)
	}

	slog.Info("member_event", "event", "member_updated", "member_id", m.ID, "team", string(m.Team))
	return m, nil
}

// --- Delete Member ---

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStore
}

// ExecuteDeleteMember removes a member. Their running records go with them.
// PRE: memberID exists
// POST: Member and records deleted
func ExecuteDeleteMember(ctx context.Context, memberID string, deps DeleteMemberDeps) error {
	if err := deps.MemberStore.Delete(ctx, memberID); err != nil {
		return apperr.Store("delete member", err)
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", memberID)
	return nil
}
