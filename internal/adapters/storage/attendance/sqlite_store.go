package attendance

import (
	"context"
	"fmt"

	"runclub/internal/adapters/storage"
	recordStore "runclub/internal/adapters/storage/record"
	domain "runclub/internal/domain/attendance"
	"runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// SQLiteStore implements Store over the running_record table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListInWindow returns the records of the given members dated within
// [start, end]. An empty memberIDs slice returns nothing.
// PRE: start <= end
// POST: Records ordered by member then date
func (s *SQLiteStore) ListInWindow(ctx context.Context, memberIDs []string, start, end week.Date) ([]record.Record, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	where, args := recordStore.WhereClause(recordStore.ListFilter{MemberIDs: memberIDs, Start: start, End: end})
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordStore.Columns+recordStore.FromJoin+where+" ORDER BY r.member_id, r.running_date, r.created_at", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []record.Record
	for rows.Next() {
		r, err := recordStore.Scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ApplyPlan writes a save plan in one transaction: every delete, then every
// update, then every insert. Any failure rolls the whole plan back.
// PRE: plan came from Grid.Plan
// POST: Either all phases are committed or none
func (s *SQLiteStore) ApplyPlan(ctx context.Context, plan domain.SavePlan) (Applied, error) {
	var applied Applied
	if plan.Empty() {
		return applied, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Applied{}, err
	}
	defer tx.Rollback()

	for _, id := range plan.Deletes {
		res, err := tx.ExecContext(ctx, "DELETE FROM running_record WHERE id = ?", id)
		if err != nil {
			return Applied{}, fmt.Errorf("delete record %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		applied.Deleted += int(n)
	}

	for _, r := range plan.Updates {
		res, err := tx.ExecContext(ctx,
			"UPDATE running_record SET distance = ?, running_time = ?, pace = ? WHERE id = ?",
			record.SafeDistance(r.Distance), record.FormatClock(r.RunningTime), r.Pace, r.ID,
		)
		if err != nil {
			return Applied{}, fmt.Errorf("update record %s: %w", r.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return Applied{}, fmt.Errorf("update record %s: %w", r.ID, storage.ErrNotFound)
		}
		applied.Updated++
	}

	for _, r := range plan.Inserts {
		if _, err := tx.ExecContext(ctx, recordStore.InsertSQL, recordStore.Args(r)...); err != nil {
			return Applied{}, fmt.Errorf("insert record for %s on %s: %w", r.MemberID, r.RunningDate, err)
		}
		applied.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return Applied{}, err
	}
	return applied, nil
}
