package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"runclub/internal/application/apperr"
	domainMember "runclub/internal/domain/member"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/team"
)

func recordDeps(members *mockMemberStore, records *mockRecordStore) CreateRecordDeps {
	return CreateRecordDeps{RecordStore: records, MemberStore: members, GenerateID: fixedID, Now: fixedNow}
}

// TestExecuteCreateRecord_PersonalBest covers each band and the slower-time case.
func TestExecuteCreateRecord_PersonalBest(t *testing.T) {
	tests := []struct {
		name     string
		existing domainMember.Member
		distance float64
		clock    string
		wantCat  domainMember.Category
		wantBest string
	}{
		{"first 10k", domainMember.Member{}, 10.0, "00:52:00", domainMember.Category10K, "00:52:00"},
		{"faster half", domainMember.Member{BestHalf: "01:55:00"}, 21.1, "01:49:30", domainMember.CategoryHalf, "01:49:30"},
		{"slower full", domainMember.Member{BestFull: "03:59:59"}, 42.2, "04:10:00", "", "03:59:59"},
		{"outside bands", domainMember.Member{}, 15, "01:20:00", "", ""},
		{"band edge", domainMember.Member{}, 43.0, "04:30:00", domainMember.CategoryFull, "04:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.existing
			m.ID, m.Name, m.Team = "m1", "Kim", team.A
			members := newMockMemberStore(m)
			records := newMockRecordStore()

			res, err := ExecuteCreateRecord(context.Background(), RecordFields{
				MemberID: "m1", RunningDate: june(8), Distance: tt.distance, RunningTime: tt.clock,
			}, recordDeps(members, records))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.PersonalBest != tt.wantCat || res.NewBest() != (tt.wantCat != "") {
				t.Errorf("PersonalBest=%q want %q", res.PersonalBest, tt.wantCat)
			}
			if tt.wantCat != "" {
				stored := members.members["m1"]
				if got := stored.Best(tt.wantCat); got != tt.wantBest {
					t.Errorf("best=%q want %q", got, tt.wantBest)
				}
			}
			if tt.wantCat == "" && members.bestSaves != 0 {
				t.Errorf("bestSaves=%d want 0", members.bestSaves)
			}
			if _, ok := records.records["test-id-001"]; !ok {
				t.Error("expected record to be persisted")
			}
		})
	}
}

// TestExecuteCreateRecord_DerivesPace stores pace as MM:SS per km.
func TestExecuteCreateRecord_DerivesPace(t *testing.T) {
	members := newMockMemberStore(domainMember.Member{ID: "m1", Name: "Kim", Team: team.A})
	res, err := ExecuteCreateRecord(context.Background(), RecordFields{
		MemberID: "m1", RunningDate: june(8), Distance: 5, RunningTime: "00:27:30", Memo: " easy ",
	}, recordDeps(members, newMockRecordStore()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := res.Record
	if r.Pace != "05:30" || r.RunningTime != 27*time.Minute+30*time.Second || r.Memo != "easy" || r.MemberName != "Kim" {
		t.Errorf("record=%+v", r)
	}
}

// TestExecuteCreateRecord_Invalid rejects bad input without writing.
func TestExecuteCreateRecord_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		fields RecordFields
	}{
		{"bad clock", RecordFields{MemberID: "m1", RunningDate: june(8), Distance: 5, RunningTime: "27:30"}},
		{"negative distance", RecordFields{MemberID: "m1", RunningDate: june(8), Distance: -1, RunningTime: "00:27:30"}},
		{"missing date", RecordFields{MemberID: "m1", Distance: 5, RunningTime: "00:27:30"}},
		{"unknown member", RecordFields{MemberID: "ghost", RunningDate: june(8), Distance: 5, RunningTime: "00:27:30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := newMockMemberStore(domainMember.Member{ID: "m1", Name: "Kim", Team: team.A})
			records := newMockRecordStore()
			_, err := ExecuteCreateRecord(context.Background(), tt.fields, recordDeps(members, records))
			if !apperr.IsValidation(err) {
				t.Errorf("err=%v want validation error", err)
			}
			if len(records.records) != 0 {
				t.Errorf("records=%d want 0", len(records.records))
			}
		})
	}
}

// TestExecuteCreateRecord_BestUpdateFailure surfaces the failure after the record is saved.
func TestExecuteCreateRecord_BestUpdateFailure(t *testing.T) {
	members := newMockMemberStore(domainMember.Member{ID: "m1", Name: "Kim", Team: team.A})
	members.bestErr = errors.New("database is locked")
	records := newMockRecordStore()
	res, err := ExecuteCreateRecord(context.Background(), RecordFields{
		MemberID: "m1", RunningDate: june(8), Distance: 10, RunningTime: "00:50:00",
	}, recordDeps(members, records))
	var se *apperr.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v want StoreError", err)
	}
	if res.Record.ID != "test-id-001" || len(records.records) != 1 {
		t.Errorf("record should still be saved, got %+v", res.Record)
	}
}

// TestExecuteUpdateRecord does not touch personal bests.
func TestExecuteUpdateRecord(t *testing.T) {
	members := newMockMemberStore(domainMember.Member{ID: "m1", Name: "Kim", Team: team.A})
	records := newMockRecordStore(domainRecord.Record{ID: "r1", MemberID: "m1", RunningDate: june(6), Distance: 5, CreatedAt: fixedTime})
	r, err := ExecuteUpdateRecord(context.Background(), UpdateRecordInput{
		RecordID:     "r1",
		RecordFields: RecordFields{MemberID: "m1", RunningDate: june(7), Distance: 10, RunningTime: "00:45:00"},
	}, UpdateRecordDeps{RecordStore: records, MemberStore: members})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Pace != "04:30" || r.RunningDate != june(7) || !r.CreatedAt.Equal(fixedTime) {
		t.Errorf("record=%+v", r)
	}
	if members.bestSaves != 0 {
		t.Errorf("bestSaves=%d want 0", members.bestSaves)
	}
}

// TestExecuteDeleteRecord maps a missing record to not found.
func TestExecuteDeleteRecord(t *testing.T) {
	records := newMockRecordStore(domainRecord.Record{ID: "r1"})
	if err := ExecuteDeleteRecord(context.Background(), "r1", DeleteRecordDeps{RecordStore: records}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteDeleteRecord(context.Background(), "r1", DeleteRecordDeps{RecordStore: records}); !apperr.IsNotFound(err) {
		t.Errorf("err=%v want not found", err)
	}
}
