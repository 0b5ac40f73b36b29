package projections

import (
	"context"
	"time"

	announcementstore "practiceplan/internal/adapters/storage/announcement"
	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/announcement"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
	"practiceplan/internal/domain/template"
)

// PlanStore interface for plan queries.
type PlanStore interface {
	GetByID(ctx context.Context, id string) (practice.Plan, error)
	List(ctx context.Context, filter planstore.ListFilter) ([]practice.Plan, error)
	Count(ctx context.Context, filter planstore.ListFilter) (int, error)
}

// TagStore interface for tag queries.
type TagStore interface {
	List(ctx context.Context, teamID string) ([]tag.Tag, error)
}

// TemplateStore interface for template queries.
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
}

// AnnouncementStore interface for announcement queries.
type AnnouncementStore interface {
	List(ctx context.Context, filter announcementstore.ListFilter) ([]announcement.Announcement, error)
	ListPublished(ctx context.Context, teamID string, now time.Time) ([]announcement.Announcement, error)
}
