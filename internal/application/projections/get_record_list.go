package projections

import (
	"context"
	"errors"
	"fmt"

	"runclub/internal/adapters/storage/record"
	"runclub/internal/application/apperr"
	"runclub/internal/application/listutil"
	domainRecord "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// Period names a record list date range.
type Period string

// Record list periods.
const (
	PeriodAll    Period = "all"
	PeriodWeek   Period = "week"  // Monday of the current week through today
	PeriodMonth  Period = "month" // the current calendar month
	PeriodCustom Period = "custom"
)

// ErrUnknownPeriod is returned for a period outside the list above.
var ErrUnknownPeriod = errors.New("unknown period")

// PeriodRange resolves p to an inclusive date range relative to today. Zero
// dates leave that side open.
// PRE: today is non-zero
// POST: start <= end whenever both are set
func PeriodRange(p Period, today, start, end week.Date) (week.Date, week.Date, error) {
	switch p {
	case "", PeriodAll:
		return week.Date{}, week.Date{}, nil
	case PeriodWeek:
		sinceMonday := (int(today.Weekday()) + 6) % week.DaysPerWeek
		return today.AddDays(-sinceMonday), today, nil
	case PeriodMonth:
		return today.FirstOfMonth(), today.LastOfMonth(), nil
	case PeriodCustom:
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return week.Date{}, week.Date{}, fmt.Errorf("%s..%s: %w", start, end, week.ErrInvertedRange)
		}
		return start, end, nil
	}
	return week.Date{}, week.Date{}, fmt.Errorf("%q: %w", string(p), ErrUnknownPeriod)
}

// GetRecordListQuery carries query parameters.
type GetRecordListQuery struct {
	MemberID string
	Period   Period
	Start    week.Date // custom period only
	End      week.Date
	Today    week.Date
	Page     int
	PerPage  int
}

// GetRecordListResult carries the query result.
type GetRecordListResult struct {
	Records []domainRecord.Record
	Summary domainRecord.Summary
	Page    listutil.PageInfo
	Start   week.Date
	End     week.Date
}

// GetRecordListDeps holds dependencies for GetRecordList.
type GetRecordListDeps struct {
	RecordStore RecordStore
}

// QueryGetRecordList lists records newest first with statistics over the
// whole filtered range, not just the current page.
// PRE: Today is set
// POST: Records are ordered by running date desc, then created_at desc
func QueryGetRecordList(ctx context.Context, query GetRecordListQuery, deps GetRecordListDeps) (GetRecordListResult, error) {
	start, end, err := PeriodRange(query.Period, query.Today, query.Start, query.End)
	if err != nil {
		return GetRecordListResult{}, apperr.Invalid(err)
	}

	all, err := deps.RecordStore.List(ctx, record.ListFilter{MemberID: query.MemberID, Start: start, End: end})
	if err != nil {
		return GetRecordListResult{}, apperr.Store("list records", err)
	}

	page := listutil.NewPageInfo(query.Page, query.PerPage, len(all))
	lo, hi := page.Window()
	return GetRecordListResult{
		Records: all[lo:hi],
		Summary: domainRecord.Summarize(all),
		Page:    page,
		Start:   start,
		End:     end,
	}, nil
}

// GetRecordQuery carries query parameters.
type GetRecordQuery struct {
	RecordID string
}

// GetRecordDeps holds dependencies for GetRecord.
type GetRecordDeps struct {
	RecordStore RecordStore
}

// QueryGetRecord fetches one record with its member name.
func QueryGetRecord(ctx context.Context, query GetRecordQuery, deps GetRecordDeps) (domainRecord.Record, error) {
	r, err := deps.RecordStore.GetByID(ctx, query.RecordID)
	if err != nil {
		return domainRecord.Record{}, apperr.Store("get record", err)
	}
	return r, nil
}
