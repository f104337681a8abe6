package record

import (
	"context"

	domain "runclub/internal/domain/record"
	"runclub/internal/domain/week"
)

// Store persists running records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero dates leave that side of the range open.
type ListFilter struct {
	Limit     int
	Offset    int
	MemberID  string
	MemberIDs []string
	Start     week.Date
	End       week.Date
}
