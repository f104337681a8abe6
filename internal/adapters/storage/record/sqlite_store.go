package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"runclub/internal/adapters/storage"
	domain "runclub/internal/domain/record"
)

// Columns is the select list understood by Scan, for queries aliasing
// running_record as r and member as m.
const Columns = "r.id, r.member_id, COALESCE(m.name, ''), r.running_date, r.distance, r.running_time, r.pace, r.memo, r.created_at"

// FromJoin is the FROM clause matching Columns.
const FromJoin = " FROM running_record r LEFT JOIN member m ON m.id = r.member_id"

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Scan reads one row selected with Columns. Distance is read loosely so a
// malformed stored value counts as 0 instead of failing the whole query.
func Scan(row Scanner) (domain.Record, error) {
	var r domain.Record
	var date, clock, createdAt string
	var distance any
	if err := row.Scan(&r.ID, &r.MemberID, &r.MemberName, &date, &distance, &clock, &r.Pace, &r.Memo, &createdAt); err != nil {
		return domain.Record{}, err
	}
	if err := r.RunningDate.UnmarshalText([]byte(date)); err != nil {
		return domain.Record{}, fmt.Errorf("record %s running_date: %w", r.ID, err)
	}
	r.Distance = domain.DistanceFromAny(distance)
	r.RunningTime, _ = domain.ParseClock(clock)
	r.CreatedAt, _ = time.Parse(storage.TimeLayout, createdAt)
	return r, nil
}

// Args returns the insert arguments for r in table column order:
// id, member_id, running_date, distance, running_time, pace, memo, created_at.
func Args(r domain.Record) []any {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return []any{
		r.ID,
		r.MemberID,
		r.RunningDate.String(),
		domain.SafeDistance(r.Distance),
		domain.FormatClock(r.RunningTime),
		r.Pace,
		r.Memo,
		created.UTC().Format(storage.TimeLayout),
	}
}

// InsertSQL inserts a full record row.
const InsertSQL = `INSERT INTO running_record (id, member_id, running_date, distance, running_time, pace, memo, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new record SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Record by its ID, with the member's name.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+Columns+FromJoin+" WHERE r.id = ?", id)
	r, err := Scan(row)
	if err != nil {
		return domain.Record{}, storage.NotFound("record", err)
	}
	return r, nil
}

// Save persists a Record (insert or update). created_at is kept on update.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, InsertSQL+`
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id, running_date=excluded.running_date,
			distance=excluded.distance, running_time=excluded.running_time,
			pace=excluded.pace, memo=excluded.memo`,
		Args(entity)...,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a Record.
// PRE: id is non-empty
// POST: Returns storage.ErrNotFound when no row was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM running_record WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %w", storage.ErrNotFound)
	}
	return nil
}

// WhereClause builds the WHERE clause and args for a record filter.
func WhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.MemberID != "" {
		where += " AND r.member_id = ?"
		args = append(args, filter.MemberID)
	}
	if len(filter.MemberIDs) > 0 {
		where += " AND r.member_id IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.MemberIDs)), ",") + ")"
		for _, id := range filter.MemberIDs {
			args = append(args, id)
		}
	}
	if !filter.Start.IsZero() {
		where += " AND r.running_date >= ?"
		args = append(args, filter.Start.String())
	}
	if !filter.End.IsZero() {
		where += " AND r.running_date <= ?"
		args = append(args, filter.End.String())
	}
	return where, args
}

// Count returns the number of records matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := WhereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM running_record r"+where, args...).Scan(&n)
	return n, err
}

// List retrieves records matching the filter, newest first.
// PRE: filter has valid parameters; Limit <= 0 means no limit
// POST: Ordered by running_date desc, then created_at desc
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Record, error) {
	where, args := WhereClause(filter)
	query := "SELECT " + Columns + FromJoin + where + " ORDER BY r.running_date DESC, r.created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		r, err := Scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
