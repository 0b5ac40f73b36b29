package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/domain/practice"
)

// --- Create Plan ---

// CreatePlanInput carries input for the create plan orchestrator.
type CreatePlanInput struct {
	TeamID          string
	Title           string
	Notes           string
	StartTime       time.Time
	DurationMinutes int
	Activities      []practice.Activity
}

// CreatePlanDeps holds dependencies for CreatePlan.
type CreatePlanDeps struct {
	PlanStore  PlanStoreForOrchestrator
	TagStore   TagStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// buildPlan validates input into an unsaved plan.
func buildPlan(ctx context.Context, input CreatePlanInput, tags TagStoreForOrchestrator, id string, now time.Time) (practice.Plan, error) {
	p := practice.NewPlan(id, input.TeamID, input.Title, input.StartTime, input.DurationMinutes,
		practice.CloneActivities(input.Activities))
	p.Notes = input.Notes
	p.CreatedAt = now
	if err := p.Validate(); err != nil {
		return practice.Plan{}, err
	}
	if err := checkTagIDs(ctx, tags, p.TeamID, p.TagIDs()); err != nil {
		return practice.Plan{}, err
	}
	return p, nil
}

// ExecuteCreatePlan schedules a new practice plan.
// PRE: input describes a valid plan; activity tag IDs exist for the team
// POST: plan persisted with generated ID and EndTime = StartTime + duration
func ExecuteCreatePlan(ctx context.Context, input CreatePlanInput, deps CreatePlanDeps) (practice.Plan, error) {
	p, err := buildPlan(ctx, input, deps.TagStore, deps.GenerateID(), deps.Now())
	if err != nil {
		return practice.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return practice.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "plan_created", "plan_id", p.ID, "team_id", p.TeamID,
		"start", p.StartTime, "duration_minutes", p.DurationMinutes, "activities", len(p.Activities))
	return p, nil
}

// --- Edit Plan ---

// EditPlanInput carries input for the edit plan orchestrator.
// Zero values leave a field unchanged; Notes and Activities are only
// written when their Set flag is true so they can be cleared.
type EditPlanInput struct {
	PlanID          string
	Title           string
	Notes           string
	SetNotes        bool
	StartTime       time.Time
	DurationMinutes int
	Activities      []practice.Activity
	SetActivities   bool
}

// EditPlanDeps holds dependencies for EditPlan.
type EditPlanDeps struct {
	PlanStore PlanStoreForOrchestrator
	TagStore  TagStoreForOrchestrator
	Now       func() time.Time
}

// ExecuteEditPlan updates an existing plan.
// PRE: PlanID is non-empty and exists
// POST: plan saved with EndTime recomputed and UpdatedAt set
func ExecuteEditPlan(ctx context.Context, input EditPlanInput, deps EditPlanDeps) (practice.Plan, error) {
	if input.PlanID == "" {
		return practice.Plan{}, errors.New("plan ID is required")
	}
	p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
	if err != nil {
		return practice.Plan{}, err
	}

	if input.Title != "" {
		p.Title = input.Title
	}
	if input.SetNotes {
		p.Notes = input.Notes
	}
	if input.DurationMinutes != 0 {
		p.DurationMinutes = input.DurationMinutes
	}
	start := p.StartTime
	if !input.StartTime.IsZero() {
		start = input.StartTime
	}
	p.Reschedule(start)
	if input.SetActivities {
		p.Activities = practice.CloneActivities(input.Activities)
	}
	p.UpdatedAt = deps.Now()

	if err := p.Validate(); err != nil {
		return practice.Plan{}, err
	}
	if err := checkTagIDs(ctx, deps.TagStore, p.TeamID, p.TagIDs()); err != nil {
		return practice.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return practice.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "plan_edited", "plan_id", p.ID)
	return p, nil
}

// --- Delete Plan ---

// DeletePlanInput carries input for the delete plan orchestrator.
type DeletePlanInput struct {
	PlanID string
}

// DeletePlanDeps holds dependencies for DeletePlan.
type DeletePlanDeps struct {
	PlanStore PlanStoreForOrchestrator
}

// ExecuteDeletePlan removes a single plan. Other plans in its series are kept.
// PRE: PlanID exists
// POST: plan and its activities removed
func ExecuteDeletePlan(ctx context.Context, input DeletePlanInput, deps DeletePlanDeps) error {
	if input.PlanID == "" {
		return errors.New("plan ID is required")
	}
	p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
	if err != nil {
		return err
	}
	if err := deps.PlanStore.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	slog.Info("plan_event", "event", "plan_deleted", "plan_id", p.ID, "series_id", p.SeriesID)
	return nil
}

// --- Create Series ---

// CreateSeriesInput carries input for the recurring plan orchestrator.
// Location is the team's zone; weekly steps keep the local start time
// there. Nil means the location of Plan.StartTime.
type CreateSeriesInput struct {
	Plan        CreatePlanInput
	Occurrences int
	Location    *time.Location
}

// ExecuteCreateSeries schedules the same plan weekly for Occurrences weeks.
// PRE: 1 <= Occurrences <= practice.MaxSeriesOccurrences
// POST: all plans persisted sharing a generated SeriesID, or an error and
// no guarantee about partially saved plans (callers may DeleteSeries)
func ExecuteCreateSeries(ctx context.Context, input CreateSeriesInput, deps CreatePlanDeps) ([]practice.Plan, error) {
	now := deps.Now()
	base, err := buildPlan(ctx, input.Plan, deps.TagStore, "", now)
	if err != nil {
		return nil, err
	}
	if input.Location != nil {
		base.Reschedule(base.StartTime.In(input.Location))
	}
	seriesID := deps.GenerateID()
	plans, err := practice.RepeatWeekly(base, seriesID, input.Occurrences, deps.GenerateID)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if err := deps.PlanStore.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("save plan %s in series %s: %w", p.ID, seriesID, err)
		}
	}
	slog.Info("plan_event", "event", "series_created", "series_id", seriesID, "team_id", base.TeamID,
		"occurrences", len(plans))
	return plans, nil
}

// --- Delete Series ---

// DeleteSeriesInput carries input for the delete series orchestrator.
type DeleteSeriesInput struct {
	SeriesID string
}

// ExecuteDeleteSeries removes every plan in a series and returns how many were removed.
func ExecuteDeleteSeries(ctx context.Context, input DeleteSeriesInput, deps DeletePlanDeps) (int, error) {
	if input.SeriesID == "" {
		return 0, errors.New("series ID is required")
	}
	n, err := deps.PlanStore.DeleteSeries(ctx, input.SeriesID)
	if err != nil {
		return 0, fmt.Errorf("delete series: %w", err)
	}
	slog.Info("plan_event", "event", "series_deleted", "series_id", input.SeriesID, "removed", n)
	return n, nil
}
