package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/domain/tag"
)

// TagDeps holds dependencies for tag orchestrators.
type TagDeps struct {
	TagStore   TagStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// CreateTagInput carries input for the create tag orchestrator.
type CreateTagInput struct {
	TeamID string
	Name   string
	Color  string
}

// ExecuteCreateTag adds a tag to the team.
// PRE: no tag with the same name (case-insensitive) exists for the team
// POST: tag persisted with normalised name and a preset colour
func ExecuteCreateTag(ctx context.Context, input CreateTagInput, deps TagDeps) (tag.Tag, error) {
	color := input.Color
	if color == "" {
		color = tag.ColorOrange
	}
	t := tag.Tag{
		ID:        deps.GenerateID(),
		TeamID:    input.TeamID,
		Name:      tag.NormalizeName(input.Name),
		Color:     color,
		CreatedAt: deps.Now(),
	}
	if err := t.Validate(); err != nil {
		return tag.Tag{}, err
	}
	if _, err := deps.TagStore.GetByName(ctx, t.TeamID, t.Name); err == nil {
		return tag.Tag{}, tag.ErrDuplicate
	}
	if err := deps.TagStore.Save(ctx, t); err != nil {
		if errors.Is(err, tag.ErrDuplicate) {
			return tag.Tag{}, err
		}
		return tag.Tag{}, fmt.Errorf("save tag: %w", err)
	}
	slog.Info("tag_event", "event", "tag_created", "tag_id", t.ID, "team_id", t.TeamID, "name", t.Name)
	return t, nil
}

// DeleteTagInput carries input for the delete tag orchestrator.
type DeleteTagInput struct {
	TagID string
}

// ExecuteDeleteTag removes a tag. Activities that reference it keep the ID;
// projections skip IDs that no longer resolve.
func ExecuteDeleteTag(ctx context.Context, input DeleteTagInput, deps TagDeps) error {
	if input.TagID == "" {
		return errors.New("tag ID is required")
	}
	if _, err := deps.TagStore.GetByID(ctx, input.TagID); err != nil {
		return err
	}
	if err := deps.TagStore.Delete(ctx, input.TagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	slog.Info("tag_event", "event", "tag_deleted", "tag_id", input.TagID)
	return nil
}
