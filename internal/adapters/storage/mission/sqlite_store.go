package mission

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"runclub/internal/adapters/storage"
	domain "runclub/internal/domain/mission"
)

const missionColumns = "id, year, week_number, title, description, is_active, start_date, end_date, target_distance, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new mission SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMission(row scanner) (domain.Mission, error) {
	var m domain.Mission
	var active int
	var start, end, createdAt string
	var target sql.NullFloat64
	err := row.Scan(&m.ID, &m.Year, &m.WeekNumber, &m.Title, &m.Description, &active, &start, &end, &target, &createdAt)
	if err != nil {
		return domain.Mission{}, err
	}
	m.Active = active != 0
	if err := m.StartDate.UnmarshalText([]byte(start)); err != nil {
		return domain.Mission{}, fmt.Errorf("mission %s start_date: %w", m.ID, err)
	}
	if err := m.EndDate.UnmarshalText([]byte(end)); err != nil {
		return domain.Mission{}, fmt.Errorf("mission %s end_date: %w", m.ID, err)
	}
	if target.Valid {
		m.TargetDistance = domain.Float(target.Float64)
	}
	m.CreatedAt, _ = time.Parse(storage.TimeLayout, createdAt)
	return m, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// GetByID retrieves a Mission by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Mission, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+missionColumns+" FROM weekly_mission WHERE id = ?", id)
	m, err := scanMission(row)
	if err != nil {
		return domain.Mission{}, storage.NotFound("mission", err)
	}
	return m, nil
}

// Save persists a Mission (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; created_at is kept on update
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Mission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO weekly_mission (`+missionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			year=excluded.year, week_number=excluded.week_number, title=excluded.title,
			description=excluded.description, is_active=excluded.is_active,
			start_date=excluded.start_date, end_date=excluded.end_date,
			target_distance=excluded.target_distance`,
		entity.ID,
		entity.Year,
		entity.WeekNumber,
		entity.Title,
		entity.Description,
		storage.BoolInt(entity.Active),
		entity.StartDate.String(),
		entity.EndDate.String(),
		nullable(entity.TargetDistance),
		entity.CreatedAt.UTC().Format(storage.TimeLayout),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a Mission and, by cascade, its detail rows.
// PRE: id is non-empty
// POST: Returns storage.ErrNotFound when no row was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM weekly_mission WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mission %w", storage.ErrNotFound)
	}
	return nil
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filter.Year != 0 {
		where += " AND year = ?"
		args = append(args, filter.Year)
	}
	if filter.Active != nil {
		where += " AND is_active = ?"
		args = append(args, storage.BoolInt(*filter.Active))
	}
	if !filter.CoversOn.IsZero() {
		where += " AND start_date <= ? AND end_date >= ?"
		d := filter.CoversOn.String()
		args = append(args, d, d)
	}
	return where, args
}

// Count returns the number of missions matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM weekly_mission"+where, args...).Scan(&n)
	return n, err
}

// List retrieves missions matching the filter.
// PRE: filter has valid parameters
// POST: Ordered by year desc, then week_number desc
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Mission, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + missionColumns + " FROM weekly_mission" + where + " ORDER BY year DESC, week_number DESC, start_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// Years returns the distinct mission years, newest first.
func (s *SQLiteStore) Years(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT year FROM weekly_mission ORDER BY year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// ListDetails returns a mission's detail matrix ordered by team, then by
// position in the Thursday to Wednesday week.
func (s *SQLiteStore) ListDetails(ctx context.Context, missionID string) ([]domain.Detail, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT mission_id, team, weekday, content, target_distance FROM mission_detail WHERE mission_id = ? ORDER BY team",
		missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.Detail
	for rows.Next() {
		var d domain.Detail
		var team, weekday string
		var target sql.NullFloat64
		if err := rows.Scan(&d.MissionID, &team, &weekday, &d.Content, &target); err != nil {
			return nil, err
		}
		if err := d.Team.UnmarshalText([]byte(team)); err != nil {
			return nil, fmt.Errorf("mission %s detail: %w", missionID, err)
		}
		if err := d.Weekday.UnmarshalText([]byte(weekday)); err != nil {
			return nil, fmt.Errorf("mission %s detail: %w", missionID, err)
		}
		if target.Valid {
			d.TargetDistance = domain.Float(target.Float64)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortDetails(details)
	return details, nil
}

// sortDetails orders rows by team, then weekday in mission order.
func sortDetails(details []domain.Detail) {
	slices.SortStableFunc(details, func(a, b domain.Detail) int {
		if c := cmp.Compare(a.Team, b.Team); c != 0 {
			return c
		}
		return cmp.Compare(a.Weekday.MissionIndex(), b.Weekday.MissionIndex())
	})
}

// ReplaceDetails swaps a mission's whole detail matrix in one transaction.
// PRE: details passed mission.ValidateDetails
// POST: Exactly the given slots exist for the mission
func (s *SQLiteStore) ReplaceDetails(ctx context.Context, missionID string, details []domain.Detail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM weekly_mission WHERE id = ?", missionID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("mission %w", storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM mission_detail WHERE mission_id = ?", missionID); err != nil {
		return err
	}
	for _, d := range details {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO mission_detail (mission_id, team, weekday, content, target_distance) VALUES (?, ?, ?, ?, ?)",
			missionID, string(d.Team), d.Weekday.Key(), d.Content, nullable(d.TargetDistance),
		)
		if err != nil {
			return fmt.Errorf("insert detail %s %s: %w", d.Team, d.Weekday, err)
		}
	}
	return tx.Commit()
}
