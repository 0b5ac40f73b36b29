package practice

import (
	"errors"
	"strings"
	"time"
)

// Limits applied by Validate.
const (
	MaxTitleLength = 200
	MaxActivities  = 100
)

// Domain errors
var (
	ErrEmptyTitle           = errors.New("plan title cannot be empty")
	ErrTitleTooLong         = errors.New("plan title cannot exceed 200 characters")
	ErrEmptyTeamID          = errors.New("team ID cannot be empty")
	ErrMissingStartTime     = errors.New("plan start time is required")
	ErrInvalidDuration      = errors.New("plan duration must be greater than zero")
	ErrEndTimeMismatch      = errors.New("plan end time must equal start time plus duration")
	ErrTooManyActivities    = errors.New("plan cannot have more than 100 activities")
	ErrEmptyActivityName    = errors.New("activity name cannot be empty")
	ErrNegativeActivityTime = errors.New("activity duration cannot be negative")
)

// Activity is one timed segment of a Plan. Activities run back to back from
// the plan's start time in slice order.
type Activity struct {
	Name            string
	DurationMinutes int
	Notes           string
	TagIDs          []string
}

// Duration returns the activity length. Negative durations count as zero.
func (a Activity) Duration() time.Duration {
	if a.DurationMinutes <= 0 {
		return 0
	}
	return time.Duration(a.DurationMinutes) * time.Minute
}

// HasTag reports whether the activity carries tagID.
func (a Activity) HasTag(tagID string) bool {
	for _, id := range a.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Plan is a scheduled practice.
// INVARIANT: EndTime == StartTime + DurationMinutes.
// The activities' combined length may be shorter than the plan; the
// remainder is a trailing gap with no current activity.
type Plan struct {
	ID              string
	TeamID          string
	Title           string
	Notes           string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Activities      []Activity
	SeriesID        string // shared by recurring plans, empty otherwise
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPlan builds a plan and derives EndTime from start and duration.
// PRE: durationMinutes > 0
// POST: returned plan satisfies the end-time invariant
func NewPlan(id, teamID, title string, start time.Time, durationMinutes int, activities []Activity) Plan {
	return Plan{
		ID:              id,
		TeamID:          teamID,
		Title:           title,
		StartTime:       start,
		EndTime:         EndFor(start, durationMinutes),
		DurationMinutes: durationMinutes,
		Activities:      activities,
	}
}

// EndFor returns start + minutes.
func EndFor(start time.Time, minutes int) time.Time {
	return start.Add(time.Duration(minutes) * time.Minute)
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.TeamID) == "" {
		return ErrEmptyTeamID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if len(p.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if p.StartTime.IsZero() {
		return ErrMissingStartTime
	}
	if p.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if !p.EndTime.Equal(EndFor(p.StartTime, p.DurationMinutes)) {
		return ErrEndTimeMismatch
	}
	if len(p.Activities) > MaxActivities {
		return ErrTooManyActivities
	}
	for _, a := range p.Activities {
		if strings.TrimSpace(a.Name) == "" {
			return ErrEmptyActivityName
		}
		if a.DurationMinutes < 0 {
			return ErrNegativeActivityTime
		}
	}
	return nil
}

// Reschedule moves the plan to a new start, keeping its duration.
// POST: StartTime = start, EndTime recomputed
func (p *Plan) Reschedule(start time.Time) {
	p.StartTime = start
	p.EndTime = EndFor(start, p.DurationMinutes)
}

// ActivityMinutes returns the combined length of all activities.
func (p *Plan) ActivityMinutes() int {
	total := 0
	for _, a := range p.Activities {
		if a.DurationMinutes > 0 {
			total += a.DurationMinutes
		}
	}
	return total
}

// TrailingGapMinutes returns how much of the plan is left after the last
// activity ends. Zero when activities fill or overrun the plan.
func (p *Plan) TrailingGapMinutes() int {
	gap := p.DurationMinutes - p.ActivityMinutes()
	if gap < 0 {
		return 0
	}
	return gap
}

// Window is the half-open [Start, End) span of one activity.
type Window struct {
	Index int
	Start time.Time
	End   time.Time
}

// ActivityWindows lays the activities out back to back from StartTime.
func (p *Plan) ActivityWindows() []Window {
	windows := make([]Window, 0, len(p.Activities))
	cursor := p.StartTime
	for i, a := range p.Activities {
		end := cursor.Add(a.Duration())
		windows = append(windows, Window{Index: i, Start: cursor, End: end})
		cursor = end
	}
	return windows
}

// Contains reports whether t falls in the plan window. Both ends are inclusive.
func (p *Plan) Contains(t time.Time) bool {
	ms := t.UnixMilli()
	return ms >= p.StartTime.UnixMilli() && ms <= p.EndTime.UnixMilli()
}

// HasTag reports whether any activity carries tagID.
func (p *Plan) HasTag(tagID string) bool {
	for _, a := range p.Activities {
		if a.HasTag(tagID) {
			return true
		}
	}
	return false
}

// TagIDs returns the distinct tag IDs used across activities, in first-seen order.
func (p *Plan) TagIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range p.Activities {
		for _, id := range a.TagIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
