package projections

import (
	"context"
	"errors"
	"time"

	announcementstore "practiceplan/internal/adapters/storage/announcement"
	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/announcement"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
	"practiceplan/internal/domain/template"
)

var errPlanNotFound = errors.New("plan not found")

// planAt2026 is Monday 2026-03-02 16:00 UTC.
var planAt2026 = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

type mockPlanStore struct {
	plans      []practice.Plan
	listErr    error
	lastFilter planstore.ListFilter
}

// GetByID returns a seeded plan by ID.
func (m *mockPlanStore) GetByID(_ context.Context, id string) (practice.Plan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return practice.Plan{}, errPlanNotFound
}

// List applies the team and start-range filters to seeded plans.
func (m *mockPlanStore) List(_ context.Context, f planstore.ListFilter) ([]practice.Plan, error) {
	m.lastFilter = f
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []practice.Plan
	for _, p := range m.plans {
		if f.TeamID != "" && p.TeamID != f.TeamID {
			continue
		}
		if !f.From.IsZero() && p.StartTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !p.StartTime.Before(f.To) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Count returns the number of seeded plans.
func (m *mockPlanStore) Count(_ context.Context, _ planstore.ListFilter) (int, error) {
	return len(m.plans), nil
}

type mockTagStore struct {
	tags []tag.Tag
}

// List returns seeded tags for the team.
func (m *mockTagStore) List(_ context.Context, teamID string) ([]tag.Tag, error) {
	var out []tag.Tag
	for _, t := range m.tags {
		if t.TeamID == teamID {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockTemplateStore struct {
	templates map[string]template.Template
}

// GetByID returns a seeded template.
func (m *mockTemplateStore) GetByID(_ context.Context, id string) (template.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return template.Template{}, errors.New("template not found")
	}
	return t, nil
}

type mockAnnouncementStore struct {
	all        []announcement.Announcement
	published  []announcement.Announcement
	listCalled bool
}

// List returns every seeded announcement.
func (m *mockAnnouncementStore) List(_ context.Context, _ announcementstore.ListFilter) ([]announcement.Announcement, error) {
	m.listCalled = true
	return m.all, nil
}

// ListPublished returns the seeded published subset.
func (m *mockAnnouncementStore) ListPublished(_ context.Context, _ string, _ time.Time) ([]announcement.Announcement, error) {
	return m.published, nil
}

func drillPlan(id string, start time.Time) practice.Plan {
	return practice.NewPlan(id, "team1", "Practice "+id, start, 60, []practice.Activity{
		{Name: "Warm-up", DurationMinutes: 15, TagIDs: []string{"t-cond"}},
		{Name: "Water", DurationMinutes: 0},
		{Name: "Shell drill", DurationMinutes: 20, TagIDs: []string{"t-def"}},
	})
}
