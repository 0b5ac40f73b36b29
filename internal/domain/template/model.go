package template

import (
	"errors"
	"strings"
	"time"

	"practiceplan/internal/domain/practice"
)

// Max length constants.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Domain errors
var (
	ErrEmptyName          = errors.New("template name cannot be empty")
	ErrNameTooLong        = errors.New("template name cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("template description cannot exceed 2000 characters")
	ErrEmptyTeamID        = errors.New("template team ID cannot be empty")
	ErrNoActivities       = errors.New("template must contain at least one activity")
	ErrNegativeDuration   = errors.New("template duration cannot be negative")
	ErrEmptyPeriodName    = errors.New("period name cannot be empty")
	ErrInvalidPeriodTime  = errors.New("period duration must be greater than zero")
)

// Period is a reusable activity in a team's library, e.g. "3-man weave, 10m".
type Period struct {
	ID              string
	TeamID          string
	Name            string
	DurationMinutes int
	Notes           string
	TagIDs          []string
	CreatedAt       time.Time
}

// Validate checks the period's invariants.
func (p *Period) Validate() error {
	if strings.TrimSpace(p.TeamID) == "" {
		return ErrEmptyTeamID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPeriodName
	}
	if p.DurationMinutes <= 0 {
		return ErrInvalidPeriodTime
	}
	return nil
}

// Activity converts the period into a plan activity.
func (p *Period) Activity() practice.Activity {
	return practice.Activity{
		Name:            p.Name,
		DurationMinutes: p.DurationMinutes,
		Notes:           p.Notes,
		TagIDs:          append([]string(nil), p.TagIDs...),
	}
}

// Template is a reusable ordered list of activities that can be stamped
// onto the calendar as a Plan.
type Template struct {
	ID              string
	TeamID          string
	Name            string
	Description     string
	DurationMinutes int // zero = sum of activities
	Activities      []practice.Activity
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the template's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (t *Template) Validate() error {
	if strings.TrimSpace(t.TeamID) == "" {
		return ErrEmptyTeamID
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.DurationMinutes < 0 {
		return ErrNegativeDuration
	}
	if len(t.Activities) == 0 {
		return ErrNoActivities
	}
	for _, a := range t.Activities {
		if strings.TrimSpace(a.Name) == "" {
			return practice.ErrEmptyActivityName
		}
		if a.DurationMinutes < 0 {
			return practice.ErrNegativeActivityTime
		}
	}
	return nil
}

// EffectiveDuration returns the explicit duration, or the activity total when unset.
func (t *Template) EffectiveDuration() int {
	if t.DurationMinutes > 0 {
		return t.DurationMinutes
	}
	total := 0
	for _, a := range t.Activities {
		if a.DurationMinutes > 0 {
			total += a.DurationMinutes
		}
	}
	return total
}

// Instantiate stamps the template onto the calendar at start.
// An empty title falls back to the template name.
// POST: returned plan satisfies the end-time invariant; activities are copies
func (t *Template) Instantiate(planID, title string, start time.Time) practice.Plan {
	if strings.TrimSpace(title) == "" {
		title = t.Name
	}
	p := practice.NewPlan(planID, t.TeamID, title, start, t.EffectiveDuration(), practice.CloneActivities(t.Activities))
	p.Notes = t.Description
	return p
}

// FromPlan captures a plan's activity list as a template.
func FromPlan(id, name string, plan practice.Plan) Template {
	if strings.TrimSpace(name) == "" {
		name = plan.Title
	}
	return Template{
		ID:              id,
		TeamID:          plan.TeamID,
		Name:            name,
		Description:     plan.Notes,
		DurationMinutes: plan.DurationMinutes,
		Activities:      practice.CloneActivities(plan.Activities),
	}
}
