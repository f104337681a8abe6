package projections

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"runclub/internal/adapters/storage"
	"runclub/internal/adapters/storage/member"
	"runclub/internal/adapters/storage/mission"
	"runclub/internal/adapters/storage/record"
	domainMember "runclub/internal/domain/member"
	domainMission "runclub/internal/domain/mission"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

func june(day int) week.Date {
	return week.MustDate(2024, time.June, day)
}

type mockMemberStore struct {
	members []domainMember.Member
	err     error
	lists   int
}

// GetByID returns a seeded member by ID.
// PRE: id is non-empty
// POST: Returns the seeded member or an error wrapping storage.ErrNotFound
func (m *mockMemberStore) GetByID(_ context.Context, id string) (domainMember.Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return domainMember.Member{}, fmt.Errorf("member %w", storage.ErrNotFound)
}

func (m *mockMemberStore) match(filter member.ListFilter) []domainMember.Member {
	var out []domainMember.Member
	for _, mem := range m.members {
		if filter.Team != "" && mem.Team != filter.Team {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, mem.ID) {
			continue
		}
		if !mem.MatchesSearch(filter.Search) {
			continue
		}
		out = append(out, mem)
	}
	return out
}

// List returns seeded members matching the filter.
// PRE: filter is valid
// POST: Honors team, IDs, search, limit and offset
func (m *mockMemberStore) List(_ context.Context, filter member.ListFilter) ([]domainMember.Member, error) {
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	out := m.match(filter)
	if filter.Limit > 0 {
		lo := min(filter.Offset, len(out))
		hi := min(lo+filter.Limit, len(out))
		out = out[lo:hi]
	}
	return out, nil
}

// Count returns the number of matching seeded members.
// PRE: filter is valid
// POST: Returns count >= 0
func (m *mockMemberStore) Count(_ context.Context, filter member.ListFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.match(filter)), nil
}

type mockRecordStore struct {
	records []domainRecord.Record
	err     error
	lists   int
}

// GetByID returns a seeded record by ID.
// PRE: id is non-empty
// POST: Returns the seeded record or an error wrapping storage.ErrNotFound
func (m *mockRecordStore) GetByID(_ context.Context, id string) (domainRecord.Record, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domainRecord.Record{}, fmt.Errorf("record %w", storage.ErrNotFound)
}

func (m *mockRecordStore) match(filter record.ListFilter) []domainRecord.Record {
	var out []domainRecord.Record
	for _, r := range m.records {
		if filter.MemberID != "" && r.MemberID != filter.MemberID {
			continue
		}
		if !filter.Start.IsZero() && r.RunningDate.Before(filter.Start) {
			continue
		}
		if !filter.End.IsZero() && r.RunningDate.After(filter.End) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b domainRecord.Record) int {
		if c := b.RunningDate.Compare(a.RunningDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// List returns seeded records newest first.
// PRE: filter is valid
// POST: Honors member, date range and limit
func (m *mockRecordStore) List(_ context.Context, filter record.ListFilter) ([]domainRecord.Record, error) {
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	out := m.match(filter)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Count returns the number of matching seeded records.
// PRE: filter is valid
// POST: Returns count >= 0
func (m *mockRecordStore) Count(_ context.Context, filter record.ListFilter) (int, error) {
	return len(m.match(filter)), m.err
}

type mockMissionStore struct {
	missions []domainMission.Mission
	details  map[string][]domainMission.Detail
	err      error
}

// GetByID returns a seeded mission by ID.
// PRE: id is non-empty
// POST: Returns the seeded mission or an error wrapping storage.ErrNotFound
func (m *mockMissionStore) GetByID(_ context.Context, id string) (domainMission.Mission, error) {
	if m.err != nil {
		return domainMission.Mission{}, m.err
	}
	for _, ms := range m.missions {
		if ms.ID == id {
			return ms, nil
		}
	}
	return domainMission.Mission{}, fmt.Errorf("mission %w", storage.ErrNotFound)
}

func (m *mockMissionStore) match(filter mission.ListFilter) []domainMission.Mission {
	var out []domainMission.Mission
	for _, ms := range m.missions {
		if filter.Year != 0 && ms.Year != filter.Year {
			continue
		}
		if filter.Active != nil && ms.Active != *filter.Active {
			continue
		}
		if !filter.CoversOn.IsZero() && !ms.Covers(filter.CoversOn) {
			continue
		}
		out = append(out, ms)
	}
	return out
}

// List returns matching seeded missions.
// PRE: filter is valid
// POST: Honors year, active, coverage, limit and offset
func (m *mockMissionStore) List(_ context.Context, filter mission.ListFilter) ([]domainMission.Mission, error) {
	out := m.match(filter)
	if filter.Limit > 0 {
		lo := min(filter.Offset, len(out))
		hi := min(lo+filter.Limit, len(out))
		out = out[lo:hi]
	}
	return out, m.err
}

// Count returns the number of matching seeded missions.
// PRE: filter is valid
// POST: Returns count >= 0
func (m *mockMissionStore) Count(_ context.Context, filter mission.ListFilter) (int, error) {
	return len(m.match(filter)), m.err
}

// Years returns distinct seeded years, newest first.
// PRE: none
// POST: Returns unique years in descending order
func (m *mockMissionStore) Years(_ context.Context) ([]int, error) {
	var years []int
	for _, ms := range m.missions {
		if !slices.Contains(years, ms.Year) {
			years = append(years, ms.Year)
		}
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	return years, m.err
}

// ListDetails returns the seeded matrix for a mission.
// PRE: missionID is non-empty
// POST: Returns the seeded details
func (m *mockMissionStore) ListDetails(_ context.Context, missionID string) ([]domainMission.Detail, error) {
	return m.details[missionID], m.err
}

type mockAttendanceStore struct {
	records []domainRecord.Record
	gotIDs  []string
}

// ListInWindow returns seeded records for the members inside the range.
// PRE: start <= end
// POST: Returns records of memberIDs dated in [start, end]
func (m *mockAttendanceStore) ListInWindow(_ context.Context, memberIDs []string, start, end week.Date) ([]domainRecord.Record, error) {
	m.gotIDs = memberIDs
	var out []domainRecord.Record
	for _, r := range m.records {
		if slices.Contains(memberIDs, r.MemberID) && r.RunningDate.Within(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}
