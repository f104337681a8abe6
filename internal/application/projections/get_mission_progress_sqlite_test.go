package projections_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"runclub/internal/adapters/storage"
	memberStore "runclub/internal/adapters/storage/member"
	missionStore "runclub/internal/adapters/storage/mission"
	recordStore "runclub/internal/adapters/storage/record"
	"runclub/internal/application/projections"
	"runclub/internal/domain/member"
	"runclub/internal/domain/mission"
	"runclub/internal/domain/record"
	"runclub/internal/domain/team"
	"runclub/internal/domain/week"
)

// TestQueryGetMissionProgress_LargeRoster counts every member of a club
// bigger than one list page against real storage.
func TestQueryGetMissionProgress_LargeRoster(t *testing.T) {
	db, err := storage.Open(":memory:", 1)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	members := memberStore.NewSQLiteStore(db)
	records := recordStore.NewSQLiteStore(db)
	missions := missionStore.NewSQLiteStore(db)

	m := mission.Mission{
		ID: "w23", Year: 2024, WeekNumber: 23, Title: "Week 23", Active: true,
		StartDate: week.MustDate(2024, time.June, 6), EndDate: week.MustDate(2024, time.June, 12),
		TargetDistance: mission.Float(10),
	}
	if err := missions.Save(ctx, m); err != nil {
		t.Fatalf("save mission: %v", err)
	}

	const size = 1200
	created := time.Date(2024, 6, 7, 7, 0, 0, 0, time.UTC)
	for i := range size {
		id := fmt.Sprintf("m%04d", i)
		if err := members.Save(ctx, member.Member{ID: id, Name: "Runner " + id, Team: team.A}); err != nil {
			t.Fatalf("save member %s: %v", id, err)
		}
		r := record.Record{
			ID: "r" + id, MemberID: id, RunningDate: week.MustDate(2024, time.June, 7),
			Distance: 10, RunningTime: time.Hour, CreatedAt: created,
		}
		if err := records.Save(ctx, r); err != nil {
			t.Fatalf("save record %s: %v", r.ID, err)
		}
	}

	res, err := projections.QueryGetMissionProgress(ctx,
		projections.GetMissionProgressQuery{MissionID: "w23", Policy: "aggregate"},
		projections.GetMissionProgressDeps{MissionStore: missions, MemberStore: members, RecordStore: records})
	if err != nil {
		t.Fatalf("QueryGetMissionProgress: %v", err)
	}
	for _, tp := range res.Standings {
		if tp.Team != team.A {
			continue
		}
		if tp.MemberCount != size || tp.TotalDistance != 10*size {
			t.Errorf("team A: member_count=%d total=%v, want %d / %d", tp.MemberCount, tp.TotalDistance, size, 10*size)
		}
		if tp.AchievementRate != 100 {
			t.Errorf("team A: rate=%v, want 100", tp.AchievementRate)
		}
		return
	}
	t.Fatal("team A missing from standings")
}
