package record

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"runclub/internal/adapters/storage"
	domain "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(":memory:", 1)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, q := range []string{
		`INSERT INTO member (id, name, team, created_at) VALUES ('m1', 'Oh', 'A', '2024-01-01T00:00:00Z')`,
		`INSERT INTO member (id, name, team, created_at) VALUES ('m2', 'Lim', 'B', '2024-01-01T00:00:00Z')`,
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	return db
}

func june(day int) week.Date {
	return week.MustDate(2024, time.June, day)
}

// TestSQLiteStore_SaveAndGet round trips a record with its member name.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	in := domain.Record{
		ID: "r1", MemberID: "m1", RunningDate: june(6), Distance: 10.5,
		RunningTime: 52*time.Minute + 30*time.Second, Memo: "tempo",
		CreatedAt: time.Date(2024, time.June, 6, 7, 0, 0, 0, time.UTC),
	}
	in.DerivePace()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.MemberName != "Oh" || got.RunningDate != june(6) || got.Distance != 10.5 {
		t.Errorf("got %+v", got)
	}
	if got.RunningTime != in.RunningTime || got.Pace != "05:00" || !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("time fields = %v %q %v", got.RunningTime, got.Pace, got.CreatedAt)
	}
}

// TestSQLiteStore_MalformedDistance reads a non-numeric stored distance as 0.
func TestSQLiteStore_MalformedDistance(t *testing.T) {
	db := openTestDB(t)
	s := NewSQLiteStore(db)
	if _, err := db.Exec(`INSERT INTO running_record (id, member_id, running_date, distance, created_at)
		VALUES ('bad', 'm1', '2024-06-07', 'lots', '2024-06-07T00:00:00.000000000Z')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.GetByID(context.Background(), "bad")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Distance != 0 {
		t.Errorf("Distance = %v, want 0", got.Distance)
	}
}

// TestSQLiteStore_ListOrderAndFilters checks newest-first order and filters.
func TestSQLiteStore_ListOrderAndFilters(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []domain.Record{
		{ID: "a", MemberID: "m1", RunningDate: june(6), Distance: 5},
		{ID: "b", MemberID: "m2", RunningDate: june(8), Distance: 3},
		{ID: "c", MemberID: "m1", RunningDate: june(6), Distance: 4},
		{ID: "d", MemberID: "m1", RunningDate: june(20), Distance: 8},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all newest first", ListFilter{}, []string{"d", "b", "c", "a"}},
		{"member", ListFilter{MemberID: "m2"}, []string{"b"}},
		{"range", ListFilter{Start: june(6), End: june(12)}, []string{"b", "c", "a"}},
		{"open start", ListFilter{End: june(7)}, []string{"c", "a"}},
		{"limit", ListFilter{Limit: 2}, []string{"d", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %v", len(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
			n, err := s.Count(ctx, ListFilter{MemberID: tt.filter.MemberID, Start: tt.filter.Start, End: tt.filter.End})
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if tt.filter.Limit == 0 && n != len(tt.want) {
				t.Errorf("Count = %d, want %d", n, len(tt.want))
			}
		})
	}
}

// TestSQLiteStore_DeleteNotFound reports a missing record.
func TestSQLiteStore_DeleteNotFound(t *testing.T) {
	s := NewSQLiteStore(openTestDB(t))
	if err := s.Delete(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}
