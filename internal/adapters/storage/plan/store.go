package plan

import (
	"context"
	"time"

	domain "practiceplan/internal/domain/practice"
)

// Store persists Plan state. Activities are saved and loaded with their plan.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Plan, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	DeleteSeries(ctx context.Context, seriesID string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// From/To bound StartTime as [From, To); ActiveAt selects plans whose
// window contains that instant. Zero values are ignored.
type ListFilter struct {
	TeamID   string
	From     time.Time
	To       time.Time
	ActiveAt time.Time
	SeriesID string
	Limit    int
	Offset   int
}
