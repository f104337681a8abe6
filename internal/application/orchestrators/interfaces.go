package orchestrators

import (
	"context"

	"runclub/internal/adapters/storage/attendance"
	"runclub/internal/adapters/storage/member"
	domainAttendance "runclub/internal/domain/attendance"
	domainMember "runclub/internal/domain/member"
	domainMission "runclub/internal/domain/mission"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// MemberStore defines the member persistence the orchestrators need.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	Save(ctx context.Context, m domainMember.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
	UpdateBests(ctx context.Context, m domainMember.Member) error
}

// RecordStore defines the running record persistence the orchestrators need.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (domainRecord.Record, error)
	Save(ctx context.Context, r domainRecord.Record) error
	Delete(ctx context.Context, id string) error
}

// MissionStore defines the mission persistence the orchestrators need.
type MissionStore interface {
	GetByID(ctx context.Context, id string) (domainMission.Mission, error)
	Save(ctx context.Context, m domainMission.Mission) error
	Delete(ctx context.Context, id string) error
	ReplaceDetails(ctx context.Context, missionID string, details []domainMission.Detail) error
}

// AttendanceStore reads grid records and applies save plans.
type AttendanceStore interface {
	ListInWindow(ctx context.Context, memberIDs []string, start, end week.Date) ([]domainRecord.Record, error)
	ApplyPlan(ctx context.Context, plan domainAttendance.SavePlan) (attendance.Applied, error)
}
