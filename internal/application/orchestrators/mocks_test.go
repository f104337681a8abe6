package orchestrators

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"runclub/internal/adapters/storage"
	"runclub/internal/adapters/storage/attendance"
	"runclub/internal/adapters/storage/member"
	domainAttendance "runclub/internal/domain/attendance"
	domainMember "runclub/internal/domain/member"
	domainMission "runclub/internal/domain/mission"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

var fixedTime = time.Date(2024, time.June, 7, 7, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func june(day int) week.Date {
	return week.MustDate(2024, time.June, day)
}

// mockMemberStore implements MemberStore for testing.
type mockMemberStore struct {
	members    map[string]domainMember.Member
	saves      int
	bestSaves  int
	saveErr    error
	bestErr    error
	deletedIDs []string
}

func newMockMemberStore(ms ...domainMember.Member) *mockMemberStore {
	s := &mockMemberStore{members: make(map[string]domainMember.Member)}
	for _, m := range ms {
		s.members[m.ID] = m
	}
	return s
}

// GetByID implements MemberStore.
// PRE: id is non-empty
// POST: returns member or an error wrapping storage.ErrNotFound
func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return domainMember.Member{}, fmt.Errorf("member %w", storage.ErrNotFound)
	}
	return mem, nil
}

// Save implements MemberStore.
// PRE: member is valid
// POST: member is persisted
func (m *mockMemberStore) Save(_ context.Context, mem domainMember.Member) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.members[mem.ID] = mem
	return nil
}

// Delete implements MemberStore.
// PRE: id is non-empty
// POST: member is removed or storage.ErrNotFound returned
func (m *mockMemberStore) Delete(_ context.Context, id string) error {
	if _, ok := m.members[id]; !ok {
		return fmt.Errorf("member %w", storage.ErrNotFound)
	}
	delete(m.members, id)
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

// List implements MemberStore.
// PRE: filter is valid
// POST: returns stored members restricted to filter.IDs, in ID order
func (m *mockMemberStore) List(_ context.Context, filter member.ListFilter) ([]domainMember.Member, error) {
	var out []domainMember.Member
	for _, mem := range m.members {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, mem.ID) {
			continue
		}
		out = append(out, mem)
	}
	slices.SortFunc(out, func(a, b domainMember.Member) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// UpdateBests implements MemberStore.
// PRE: member exists
// POST: best times are persisted
func (m *mockMemberStore) UpdateBests(_ context.Context, mem domainMember.Member) error {
	if m.bestErr != nil {
		return m.bestErr
	}
	m.bestSaves++
	m.members[mem.ID] = mem
	return nil
}

// mockRecordStore implements RecordStore for testing.
type mockRecordStore struct {
	records map[string]domainRecord.Record
	saveErr error
}

func newMockRecordStore(rs ...domainRecord.Record) *mockRecordStore {
	s := &mockRecordStore{records: make(map[string]domainRecord.Record)}
	for _, r := range rs {
		s.records[r.ID] = r
	}
	return s
}

// GetByID implements RecordStore.
// PRE: id is non-empty
// POST: returns record or an error wrapping storage.ErrNotFound
func (m *mockRecordStore) GetByID(_ context.Context, id string) (domainRecord.Record, error) {
	r, ok := m.records[id]
	if !ok {
		return domainRecord.Record{}, fmt.Errorf("record %w", storage.ErrNotFound)
	}
	return r, nil
}

// Save implements RecordStore.
// PRE: record is valid
// POST: record is persisted
func (m *mockRecordStore) Save(_ context.Context, r domainRecord.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[r.ID] = r
	return nil
}

// Delete implements RecordStore.
// PRE: id is non-empty
// POST: record is removed or storage.ErrNotFound returned
func (m *mockRecordStore) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("record %w", storage.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

// mockMissionStore implements MissionStore for testing.
type mockMissionStore struct {
	missions map[string]domainMission.Mission
	details  map[string][]domainMission.Detail
	saves    int
}

func newMockMissionStore(ms ...domainMission.Mission) *mockMissionStore {
	s := &mockMissionStore{missions: make(map[string]domainMission.Mission), details: make(map[string][]domainMission.Detail)}
	for _, m := range ms {
		s.missions[m.ID] = m
	}
	return s
}

// GetByID implements MissionStore.
// PRE: id is non-empty
// POST: returns mission or an error wrapping storage.ErrNotFound
func (m *mockMissionStore) GetByID(_ context.Context, id string) (domainMission.Mission, error) {
	ms, ok := m.missions[id]
	if !ok {
		return domainMission.Mission{}, fmt.Errorf("mission %w", storage.ErrNotFound)
	}
	return ms, nil
}

// Save implements MissionStore.
// PRE: mission is valid
// POST: mission is persisted
func (m *mockMissionStore) Save(_ context.Context, ms domainMission.Mission) error {
	m.saves++
	m.missions[ms.ID] = ms
	return nil
}

// Delete implements MissionStore.
// PRE: id is non-empty
// POST: mission and details removed
func (m *mockMissionStore) Delete(_ context.Context, id string) error {
	if _, ok := m.missions[id]; !ok {
		return fmt.Errorf("mission %w", storage.ErrNotFound)
	}
	delete(m.missions, id)
	delete(m.details, id)
	return nil
}

// ReplaceDetails implements MissionStore.
// PRE: details are validated
// POST: the mission's matrix is exactly details
func (m *mockMissionStore) ReplaceDetails(_ context.Context, missionID string, details []domainMission.Detail) error {
	if _, ok := m.missions[missionID]; !ok {
		return fmt.Errorf("mission %w", storage.ErrNotFound)
	}
	m.details[missionID] = details
	return nil
}

// mockAttendanceStore implements AttendanceStore for testing.
type mockAttendanceStore struct {
	records  []domainRecord.Record
	applied  []domainAttendance.SavePlan
	applyErr error
}

// ListInWindow implements AttendanceStore.
// PRE: start <= end
// POST: returns seeded records of memberIDs inside [start, end]
func (m *mockAttendanceStore) ListInWindow(_ context.Context, memberIDs []string, start, end week.Date) ([]domainRecord.Record, error) {
	var out []domainRecord.Record
	for _, r := range m.records {
		if slices.Contains(memberIDs, r.MemberID) && r.RunningDate.Within(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ApplyPlan implements AttendanceStore.
// PRE: plan is staged by Grid.Plan
// POST: plan is recorded and counted
func (m *mockAttendanceStore) ApplyPlan(_ context.Context, plan domainAttendance.SavePlan) (attendance.Applied, error) {
	if m.applyErr != nil {
		return attendance.Applied{}, m.applyErr
	}
	m.applied = append(m.applied, plan)
	return attendance.Applied{Deleted: len(plan.Deletes), Updated: len(plan.Updates), Inserted: len(plan.Inserts)}, nil
}
