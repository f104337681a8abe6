package mission

import (
	"context"

	domain "runclub/internal/domain/mission"
	"runclub/internal/domain/week"
)

// Store persists weekly missions and their detail matrices.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Mission, error)
	Save(ctx context.Context, value domain.Mission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Mission, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Years(ctx context.Context) ([]int, error)
	ListDetails(ctx context.Context, missionID string) ([]domain.Detail, error)
	ReplaceDetails(ctx context.Context, missionID string, details []domain.Detail) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Year     int       // 0 for every year
	Active   *bool     // nil for both
	CoversOn week.Date // zero to skip; otherwise start_date <= d <= end_date
}
