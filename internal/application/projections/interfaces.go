package projections

import (
	"context"

	"runclub/internal/adapters/storage/member"
	"runclub/internal/adapters/storage/mission"
	"runclub/internal/adapters/storage/record"
	domainMember "runclub/internal/domain/member"
	domainMission "runclub/internal/domain/mission"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context, filter member.ListFilter) (int, error)
}

// RecordStore interface for running record queries.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (domainRecord.Record, error)
	List(ctx context.Context, filter record.ListFilter) ([]domainRecord.Record, error)
	Count(ctx context.Context, filter record.ListFilter) (int, error)
}

// MissionStore interface for mission queries.
type MissionStore interface {
	GetByID(ctx context.Context, id string) (domainMission.Mission, error)
	List(ctx context.Context, filter mission.ListFilter) ([]domainMission.Mission, error)
	Count(ctx context.Context, filter mission.ListFilter) (int, error)
	Years(ctx context.Context) ([]int, error)
	ListDetails(ctx context.Context, missionID string) ([]domainMission.Detail, error)
}

// AttendanceStore interface for performance grid queries.
type AttendanceStore interface {
	ListInWindow(ctx context.Context, memberIDs []string, start, end week.Date) ([]domainRecord.Record, error)
}
