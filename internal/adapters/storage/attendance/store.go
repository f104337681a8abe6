package attendance

import (
	"context"

	domain "runclub/internal/domain/attendance"
	"runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// Store reads the records behind a performance grid and applies grid edits.
type Store interface {
	ListInWindow(ctx context.Context, memberIDs []string, start, end week.Date) ([]record.Record, error)
	ApplyPlan(ctx context.Context, plan domain.SavePlan) (Applied, error)
}

// Applied counts the rows each phase of a plan touched.
type Applied struct {
	Deleted  int `json:"deleted"`
	Updated  int `json:"updated"`
	Inserted int `json:"inserted"`
}
