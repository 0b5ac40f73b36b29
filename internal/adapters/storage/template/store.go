package template

import (
	"context"

	domain "practiceplan/internal/domain/template"
)

// Store persists Template state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Template, error)
	Save(ctx context.Context, value domain.Template) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, teamID string) ([]domain.Template, error)
}

// PeriodStore persists the team's library of reusable periods.
type PeriodStore interface {
	GetByID(ctx context.Context, id string) (domain.Period, error)
	Save(ctx context.Context, value domain.Period) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, teamID string) ([]domain.Period, error)
}
