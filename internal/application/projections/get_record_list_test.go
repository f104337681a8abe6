package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"runclub/internal/application/apperr"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

func TestPeriodRange(t *testing.T) {
	wed := june(12)
	sun := june(16)

	tests := []struct {
		name      string
		period    Period
		today     week.Date
		start     week.Date
		end       week.Date
		wantStart week.Date
		wantEnd   week.Date
		wantErr   error
	}{
		{"all", PeriodAll, wed, week.Date{}, week.Date{}, week.Date{}, week.Date{}, nil},
		{"empty means all", "", wed, week.Date{}, week.Date{}, week.Date{}, week.Date{}, nil},
		{"week from monday", PeriodWeek, wed, week.Date{}, week.Date{}, june(10), wed, nil},
		{"week on sunday", PeriodWeek, sun, week.Date{}, week.Date{}, june(10), sun, nil},
		{"month", PeriodMonth, wed, week.Date{}, week.Date{}, june(1), june(30), nil},
		{"custom", PeriodCustom, wed, june(3), june(5), june(3), june(5), nil},
		{"custom open end", PeriodCustom, wed, june(3), week.Date{}, june(3), week.Date{}, nil},
		{"custom inverted", PeriodCustom, wed, june(5), june(3), week.Date{}, week.Date{}, week.ErrInvertedRange},
		{"unknown", "year", wed, week.Date{}, week.Date{}, week.Date{}, week.Date{}, ErrUnknownPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := PeriodRange(tt.period, tt.today, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v want %v", err, tt.wantErr)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("range=%s..%s want %s..%s", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// TestQueryGetRecordList_SummaryCoversAllPages totals the whole range while paging.
func TestQueryGetRecordList_SummaryCoversAllPages(t *testing.T) {
	var recs []domainRecord.Record
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := range 12 {
		recs = append(recs, domainRecord.Record{
			ID: string(rune('a' + i)), MemberID: "m1", RunningDate: june(1 + i),
			Distance: 5, RunningTime: 25 * time.Minute, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	recs = append(recs, domainRecord.Record{ID: "other", MemberID: "m2", RunningDate: june(3), Distance: 42})
	deps := GetRecordListDeps{RecordStore: &mockRecordStore{records: recs}}

	res, err := QueryGetRecordList(context.Background(), GetRecordListQuery{
		MemberID: "m1", Period: PeriodMonth, Today: june(20), Page: 2, PerPage: 10,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 2 {
		t.Errorf("page 2 rows=%d want 2", len(res.Records))
	}
	if res.Records[0].RunningDate != june(2) {
		t.Errorf("page 2 first=%s want 2024-06-02 (newest first)", res.Records[0].RunningDate)
	}
	if res.Summary.RunCount != 12 || res.Summary.TotalDistance != 60 {
		t.Errorf("summary=%+v want 12 runs and 60 km", res.Summary)
	}
	if res.Summary.TotalClock != "05:00:00" || res.Summary.AveragePace != "05:00" {
		t.Errorf("summary time=%s pace=%s", res.Summary.TotalClock, res.Summary.AveragePace)
	}
	if res.Page.Total != 12 || res.Page.TotalPages != 2 {
		t.Errorf("page=%+v", res.Page)
	}
}

// TestQueryGetRecordList_BadPeriod rejects an unknown period.
func TestQueryGetRecordList_BadPeriod(t *testing.T) {
	deps := GetRecordListDeps{RecordStore: &mockRecordStore{}}
	_, err := QueryGetRecordList(context.Background(), GetRecordListQuery{Period: "decade", Today: june(1)}, deps)
	if !apperr.IsValidation(err) {
		t.Errorf("err=%v want validation error", err)
	}
}

// TestQueryGetRecord_NotFound maps a missing row.
func TestQueryGetRecord_NotFound(t *testing.T) {
	_, err := QueryGetRecord(context.Background(), GetRecordQuery{RecordID: "ghost"}, GetRecordDeps{RecordStore: &mockRecordStore{}})
	if !apperr.IsNotFound(err) {
		t.Errorf("err=%v want not found", err)
	}
}
