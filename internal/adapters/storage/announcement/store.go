package announcement

import (
	"context"
	"time"

	domain "practiceplan/internal/domain/announcement"
)

// Store persists Announcement state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Announcement, error)
	Save(ctx context.Context, value domain.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Announcement, error)
	ListPublished(ctx context.Context, teamID string, now time.Time) ([]domain.Announcement, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	TeamID string
	Status string
	Limit  int
	Offset int
}
