package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
	"practiceplan/internal/domain/template"
)

// --- Create Period ---

// CreatePeriodInput carries input for the create period orchestrator.
type CreatePeriodInput struct {
	TeamID          string
	Name            string
	DurationMinutes int
	Notes           string
	TagIDs          []string
}

// CreatePeriodDeps holds dependencies for CreatePeriod.
type CreatePeriodDeps struct {
	PeriodStore PeriodStoreForOrchestrator
	TagStore    TagStoreForOrchestrator
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreatePeriod adds a reusable activity to the team's library.
// PRE: tag IDs exist for the team
// POST: period persisted with generated ID
func ExecuteCreatePeriod(ctx context.Context, input CreatePeriodInput, deps CreatePeriodDeps) (template.Period, error) {
	p := template.Period{
		ID:              deps.GenerateID(),
		TeamID:          input.TeamID,
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		TagIDs:          append([]string(nil), input.TagIDs...),
		CreatedAt:       deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return template.Period{}, err
	}
	if err := checkTagIDs(ctx, deps.TagStore, p.TeamID, p.TagIDs); err != nil {
		return template.Period{}, err
	}
	if err := deps.PeriodStore.Save(ctx, p); err != nil {
		return template.Period{}, fmt.Errorf("save period: %w", err)
	}
	slog.Info("template_event", "event", "period_created", "period_id", p.ID, "team_id", p.TeamID)
	return p, nil
}

// --- Create Template ---

// CreateTemplateInput carries input for the create template orchestrator.
// PeriodIDs are expanded into activities after any explicit Activities.
type CreateTemplateInput struct {
	TeamID          string
	Name            string
	Description     string
	DurationMinutes int
	Activities      []practice.Activity
	PeriodIDs       []string
}

// TemplateDeps holds dependencies for template orchestrators.
type TemplateDeps struct {
	TemplateStore TemplateStoreForOrchestrator
	PeriodStore   PeriodStoreForOrchestrator
	PlanStore     PlanStoreForOrchestrator
	TagStore      TagStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteCreateTemplate saves a new template.
// PRE: every PeriodID exists for the team
// POST: template persisted with generated ID
func ExecuteCreateTemplate(ctx context.Context, input CreateTemplateInput, deps TemplateDeps) (template.Template, error) {
	activities := practice.CloneActivities(input.Activities)
	for _, id := range input.PeriodIDs {
		if deps.PeriodStore == nil {
			return template.Template{}, errors.New("period library unavailable")
		}
		p, err := deps.PeriodStore.GetByID(ctx, id)
		if err != nil {
			return template.Template{}, fmt.Errorf("period %s: %w", id, err)
		}
		if p.TeamID != input.TeamID {
			return template.Template{}, ErrTeamMismatch
		}
		activities = append(activities, p.Activity())
	}

	now := deps.Now()
	t := template.Template{
		ID:              deps.GenerateID(),
		TeamID:          input.TeamID,
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		Activities:      activities,
		CreatedAt:       now,
	}
	return saveNewTemplate(ctx, t, deps, "template_created")
}

func saveNewTemplate(ctx context.Context, t template.Template, deps TemplateDeps, event string) (template.Template, error) {
	if err := t.Validate(); err != nil {
		return template.Template{}, err
	}
	if err := checkTagIDs(ctx, deps.TagStore, t.TeamID, activityTagIDs(t.Activities)); err != nil {
		return template.Template{}, err
	}
	if err := deps.TemplateStore.Save(ctx, t); err != nil {
		return template.Template{}, fmt.Errorf("save template: %w", err)
	}
	slog.Info("template_event", "event", event, "template_id", t.ID, "team_id", t.TeamID,
		"activities", len(t.Activities))
	return t, nil
}

// --- Delete Template ---

// DeleteTemplateInput carries input for the delete template orchestrator.
type DeleteTemplateInput struct {
	TemplateID string
}

// ExecuteDeleteTemplate removes a template. Plans created from it are unaffected.
func ExecuteDeleteTemplate(ctx context.Context, input DeleteTemplateInput, deps TemplateDeps) error {
	if input.TemplateID == "" {
		return errors.New("template ID is required")
	}
	if _, err := deps.TemplateStore.GetByID(ctx, input.TemplateID); err != nil {
		return err
	}
	if err := deps.TemplateStore.Delete(ctx, input.TemplateID); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	slog.Info("template_event", "event", "template_deleted", "template_id", input.TemplateID)
	return nil
}

// --- Apply Template ---

// ApplyTemplateInput carries input for stamping a template onto the calendar.
type ApplyTemplateInput struct {
	TemplateID string
	Title      string
	StartTime  time.Time
}

// ExecuteApplyTemplate creates a plan from a template.
// POST: plan persisted; its activities are copies of the template's
func ExecuteApplyTemplate(ctx context.Context, input ApplyTemplateInput, deps TemplateDeps) (practice.Plan, error) {
	if input.TemplateID == "" {
		return practice.Plan{}, errors.New("template ID is required")
	}
	t, err := deps.TemplateStore.GetByID(ctx, input.TemplateID)
	if err != nil {
		return practice.Plan{}, err
	}
	p := t.Instantiate(deps.GenerateID(), input.Title, input.StartTime)
	p.CreatedAt = deps.Now()
	if err := p.Validate(); err != nil {
		return practice.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return practice.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "plan_created", "plan_id", p.ID, "team_id", p.TeamID, "template_id", t.ID)
	return p, nil
}

// --- Save Plan As Template ---

// SavePlanAsTemplateInput carries input for capturing a plan as a template.
type SavePlanAsTemplateInput struct {
	PlanID string
	Name   string
}

// ExecuteSavePlanAsTemplate copies a plan's activities into a new template.
func ExecuteSavePlanAsTemplate(ctx context.Context, input SavePlanAsTemplateInput, deps TemplateDeps) (template.Template, error) {
	if input.PlanID == "" {
		return template.Template{}, errors.New("plan ID is required")
	}
	p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
	if err != nil {
		return template.Template{}, err
	}
	t := template.FromPlan(deps.GenerateID(), input.Name, p)
	t.CreatedAt = deps.Now()
	return saveNewTemplate(ctx, t, deps, "template_from_plan")
}

// --- Import Template YAML ---

// ImportTemplateInput carries a YAML template document for a team.
// Unknown tag names are created when CreateMissingTags is set, rejected otherwise.
type ImportTemplateInput struct {
	TeamID            string
	Data              []byte
	CreateMissingTags bool
}

// ExecuteImportTemplateYAML parses a shared template document into the team's library.
// POST: template persisted; tag names resolved to the team's tag IDs
func ExecuteImportTemplateYAML(ctx context.Context, input ImportTemplateInput, deps TemplateDeps) (template.Template, error) {
	t, tagNames, err := template.ParseYAML(input.Data)
	if err != nil {
		return template.Template{}, err
	}
	if deps.TagStore == nil {
		return template.Template{}, errors.New("tag store unavailable")
	}
	now := deps.Now()
	resolved := map[string]string{}
	for i, names := range tagNames {
		for _, name := range names {
			key := tag.NormalizeName(name)
			id, ok := resolved[key]
			if !ok {
				id, err = resolveTagName(ctx, deps, input.TeamID, key, input.CreateMissingTags, now)
				if err != nil {
					return template.Template{}, err
				}
				resolved[key] = id
			}
			t.Activities[i].TagIDs = append(t.Activities[i].TagIDs, id)
		}
	}
	t.ID = deps.GenerateID()
	t.TeamID = input.TeamID
	t.CreatedAt = now
	return saveNewTemplate(ctx, t, deps, "template_imported")
}

func resolveTagName(ctx context.Context, deps TemplateDeps, teamID, name string, create bool, now time.Time) (string, error) {
	existing, err := deps.TagStore.GetByName(ctx, teamID, name)
	if err == nil {
		return existing.ID, nil
	}
	if !create {
		return "", fmt.Errorf("%w: %s", tag.ErrUnknownTag, name)
	}
	created, err := ExecuteCreateTag(ctx, CreateTagInput{TeamID: teamID, Name: name}, TagDeps{
		TagStore: deps.TagStore, GenerateID: deps.GenerateID, Now: func() time.Time { return now },
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
