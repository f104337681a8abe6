package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"runclub/internal/adapters/storage"
	domain "runclub/internal/domain/member"
)

const memberColumns = "id, name, department, team, best_10km, best_half, best_full, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (domain.Member, error) {
	var entity domain.Member
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Department,
		&entity.Team,
		&entity.Best10K,
		&entity.BestHalf,
		&entity.BestFull,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row)
	if err != nil {
		return domain.Member{}, storage.NotFound("member", err)
	}
	return entity, nil
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO member (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, department=excluded.department, team=excluded.team,
			best_10km=excluded.best_10km, best_half=excluded.best_half, best_full=excluded.best_full`,
		entity.ID,
		entity.Name,
		entity.Department,
		string(entity.Team),
		entity.Best10K,
		entity.BestHalf,
		entity.BestFull,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateBests writes only the personal best columns.
// PRE: member exists
// POST: Returns storage.ErrNotFound when no row was updated
func (s *SQLiteStore) UpdateBests(ctx context.Context, entity domain.Member) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE member SET best_10km = ?, best_half = ?, best_full = ? WHERE id = ?",
		entity.Best10K, entity.BestHalf, entity.BestFull, entity.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %w", storage.ErrNotFound)
	}
	return nil
}

// Delete removes a Member and, by cascade, their running records.
// PRE: id is non-empty
// POST: Returns storage.ErrNotFound when no row was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %w", storage.ErrNotFound)
	}
	return nil
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Team != "" {
		where += " AND team = ?"
		args = append(args, string(filter.Team))
	}
	if len(filter.IDs) > 0 {
		where += " AND id IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.IDs)), ",") + ")"
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? ESCAPE '\\' OR department LIKE ? ESCAPE '\\')"
		term := "%" + escapeLike(filter.Search) + "%"
		args = append(args, term, term)
	}
	return where, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "department": "department",
		"team": "team", "created_at": "created_at",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY team ASC, name ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", name ASC"
}

// Count returns the total number of members matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&count)
	return count, err
}

// List retrieves Members matching the filter.
// PRE: filter has valid parameters; Limit <= 0 means no limit
// POST: Returns matching entities, by team then name unless sorted otherwise
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + memberColumns + " FROM member" + where + sortClause(filter)
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
