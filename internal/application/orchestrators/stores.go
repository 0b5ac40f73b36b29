package orchestrators

import (
	"context"
	"errors"
	"fmt"

	"practiceplan/internal/domain/announcement"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
	"practiceplan/internal/domain/template"
)

// PlanStoreForOrchestrator defines the plan store interface needed by plan orchestrators.
type PlanStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (practice.Plan, error)
	Save(ctx context.Context, p practice.Plan) error
	Delete(ctx context.Context, id string) error
	DeleteSeries(ctx context.Context, seriesID string) (int, error)
}

// TagStoreForOrchestrator defines the tag store interface needed by orchestrators.
type TagStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (tag.Tag, error)
	GetByName(ctx context.Context, teamID, name string) (tag.Tag, error)
	Save(ctx context.Context, t tag.Tag) error
	Delete(ctx context.Context, id string) error
}

// TemplateStoreForOrchestrator defines the template store interface needed by template orchestrators.
type TemplateStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (template.Template, error)
	Save(ctx context.Context, t template.Template) error
	Delete(ctx context.Context, id string) error
}

// PeriodStoreForOrchestrator defines the period store interface needed by template orchestrators.
type PeriodStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (template.Period, error)
	Save(ctx context.Context, p template.Period) error
}

// AnnouncementStoreForOrchestrator defines the store interface needed by announcement orchestrators.
type AnnouncementStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (announcement.Announcement, error)
	Save(ctx context.Context, a announcement.Announcement) error
}

// checkTagIDs verifies every tag ID exists and belongs to teamID.
// PRE: tags may be nil, in which case only an empty id list passes
// POST: returns an error wrapping tag.ErrUnknownTag naming the first bad ID
func checkTagIDs(ctx context.Context, tags TagStoreForOrchestrator, teamID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if tags == nil {
		return fmt.Errorf("%w: %s", tag.ErrUnknownTag, ids[0])
	}
	for _, id := range ids {
		t, err := tags.GetByID(ctx, id)
		if err != nil || t.TeamID != teamID {
			return fmt.Errorf("%w: %s", tag.ErrUnknownTag, id)
		}
	}
	return nil
}

// activityTagIDs flattens the tag IDs used across activities.
func activityTagIDs(activities []practice.Activity) []string {
	p := practice.Plan{Activities: activities}
	return p.TagIDs()
}

// ErrTeamMismatch is returned when an operation would move data between teams.
var ErrTeamMismatch = errors.New("resource belongs to a different team")
