package tag

import (
	"context"

	domain "practiceplan/internal/domain/tag"
)

// Store persists Tag state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Tag, error)
	GetByName(ctx context.Context, teamID, name string) (domain.Tag, error)
	Save(ctx context.Context, value domain.Tag) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, teamID string) ([]domain.Tag, error)
}
