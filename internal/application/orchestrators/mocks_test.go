package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"practiceplan/internal/domain/announcement"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
	"practiceplan/internal/domain/template"
)

var errNotFound = errors.New("not found")

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// seqIDs returns a generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockPlanStore implements PlanStoreForOrchestrator for testing.
type mockPlanStore struct {
	plans   map[string]practice.Plan
	saveErr error
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{plans: make(map[string]practice.Plan)}
}

func (m *mockPlanStore) GetByID(_ context.Context, id string) (practice.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return practice.Plan{}, errNotFound
	}
	return p, nil
}

func (m *mockPlanStore) Save(_ context.Context, p practice.Plan) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanStore) Delete(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

func (m *mockPlanStore) DeleteSeries(_ context.Context, seriesID string) (int, error) {
	n := 0
	for id, p := range m.plans {
		if p.SeriesID == seriesID {
			delete(m.plans, id)
			n++
		}
	}
	return n, nil
}

// mockTagStore implements TagStoreForOrchestrator for testing.
type mockTagStore struct {
	tags map[string]tag.Tag
}

func newMockTagStore(tags ...tag.Tag) *mockTagStore {
	m := &mockTagStore{tags: make(map[string]tag.Tag)}
	for _, t := range tags {
		m.tags[t.ID] = t
	}
	return m
}

func (m *mockTagStore) GetByID(_ context.Context, id string) (tag.Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return tag.Tag{}, errNotFound
	}
	return t, nil
}

func (m *mockTagStore) GetByName(_ context.Context, teamID, name string) (tag.Tag, error) {
	for _, t := range m.tags {
		if t.TeamID == teamID && strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return tag.Tag{}, errNotFound
}

func (m *mockTagStore) Save(_ context.Context, t tag.Tag) error {
	m.tags[t.ID] = t
	return nil
}

func (m *mockTagStore) Delete(_ context.Context, id string) error {
	delete(m.tags, id)
	return nil
}

// mockTemplateStore implements TemplateStoreForOrchestrator for testing.
type mockTemplateStore struct {
	templates map[string]template.Template
}

func newMockTemplateStore() *mockTemplateStore {
	return &mockTemplateStore{templates: make(map[string]template.Template)}
}

func (m *mockTemplateStore) GetByID(_ context.Context, id string) (template.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return template.Template{}, errNotFound
	}
	return t, nil
}

func (m *mockTemplateStore) Save(_ context.Context, t template.Template) error {
	m.templates[t.ID] = t
	return nil
}

func (m *mockTemplateStore) Delete(_ context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

// mockPeriodStore implements PeriodStoreForOrchestrator for testing.
type mockPeriodStore struct {
	periods map[string]template.Period
}

func newMockPeriodStore(periods ...template.Period) *mockPeriodStore {
	m := &mockPeriodStore{periods: make(map[string]template.Period)}
	for _, p := range periods {
		m.periods[p.ID] = p
	}
	return m
}

func (m *mockPeriodStore) GetByID(_ context.Context, id string) (template.Period, error) {
	p, ok := m.periods[id]
	if !ok {
		return template.Period{}, errNotFound
	}
	return p, nil
}

func (m *mockPeriodStore) Save(_ context.Context, p template.Period) error {
	m.periods[p.ID] = p
	return nil
}

// mockAnnouncementStore implements AnnouncementStoreForOrchestrator for testing.
type mockAnnouncementStore struct {
	items map[string]announcement.Announcement
}

func newMockAnnouncementStore() *mockAnnouncementStore {
	return &mockAnnouncementStore{items: make(map[string]announcement.Announcement)}
}

func (m *mockAnnouncementStore) GetByID(_ context.Context, id string) (announcement.Announcement, error) {
	a, ok := m.items[id]
	if !ok {
		return announcement.Announcement{}, errNotFound
	}
	return a, nil
}

func (m *mockAnnouncementStore) Save(_ context.Context, a announcement.Announcement) error {
	m.items[a.ID] = a
	return nil
}
