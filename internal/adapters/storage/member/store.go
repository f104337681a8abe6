package member

import (
	"context"

	domain "runclub/internal/domain/member"
	"runclub/internal/domain/team"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	UpdateBests(ctx context.Context, value domain.Member) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Team   team.Team // "" for every team
	IDs    []string  // restrict to these members when non-empty
	Search string    // matched against name and department
	Sort   string
	Dir    string
}
