package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// TimeLayout is the fixed-width UTC timestamp format stored in created_at
// columns, so text ordering matches time ordering.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// dsnPragmas keeps WAL, a busy timeout and foreign keys on every pooled
// connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// DSN returns the sqlite data source name for path.
// PRE: path is a file path or ":memory:"
// POST: Returns path with connection pragmas appended
func DSN(path string) string {
	if path == ":memory:" {
		return path + "?_pragma=foreign_keys(ON)"
	}
	return path + dsnPragmas
}

// Open opens and pings the database at path.
// PRE: path is writable, or ":memory:"
// POST: Returns a pooled connection with pragmas applied
func Open(path string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		maxConns = 1
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// NotFound wraps sql.ErrNoRows as ErrNotFound for the named entity, and
// passes every other error through.
func NotFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}

// BoolInt stores a bool as an INTEGER column value.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
