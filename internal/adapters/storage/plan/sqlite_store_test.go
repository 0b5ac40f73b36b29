package plan_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"practiceplan/internal/adapters/storage"
	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/practice"
)

func openStore(t *testing.T) *planstore.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return planstore.NewSQLiteStore(db)
}

var monday = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

func samplePlan(id string, start time.Time) practice.Plan {
	p := practice.NewPlan(id, "team1", "Practice "+id, start, 60, []practice.Activity{
		{Name: "Warm-up", DurationMinutes: 15, TagIDs: []string{"t-cond"}},
		{Name: "Shell drill", DurationMinutes: 20, Notes: "Help side", TagIDs: []string{"t-def", "t-cond"}},
		{Name: "Scrimmage", DurationMinutes: 25},
	})
	p.CreatedAt = monday.Add(-24 * time.Hour)
	return p
}

// TestSQLiteStore_SaveAndGet tests a round trip including ordered activities.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	want := samplePlan("p1", monday)

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.StartTime.Equal(want.StartTime) || !got.EndTime.Equal(want.EndTime) {
		t.Errorf("window = %v..%v, want %v..%v", got.StartTime, got.EndTime, want.StartTime, want.EndTime)
	}
	if len(got.Activities) != 3 {
		t.Fatalf("activities = %d, want 3", len(got.Activities))
	}
	if got.Activities[1].Name != "Shell drill" || got.Activities[1].Notes != "Help side" {
		t.Errorf("activity[1] = %+v", got.Activities[1])
	}
	if len(got.Activities[1].TagIDs) != 2 || got.Activities[1].TagIDs[0] != "t-def" {
		t.Errorf("tag ids = %v", got.Activities[1].TagIDs)
	}
	if got.Activities[2].TagIDs != nil {
		t.Errorf("untagged activity TagIDs = %v, want nil", got.Activities[2].TagIDs)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("loaded plan invalid: %v", err)
	}
}

// TestSQLiteStore_SaveReplacesActivities tests that an update rewrites the activity list.
func TestSQLiteStore_SaveReplacesActivities(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	p := samplePlan("p1", monday)
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p.Title = "Renamed"
	p.Activities = p.Activities[:1]
	p.UpdatedAt = monday
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, _ := s.GetByID(ctx, "p1")
	if got.Title != "Renamed" || len(got.Activities) != 1 || !got.UpdatedAt.Equal(monday) {
		t.Errorf("after update: %+v", got)
	}
}

// TestSQLiteStore_GetByID_NotFound tests the wrapped not-found error.
func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.GetByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID() error = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLiteStore_ListFilters tests team, range, active-at and paging filters.
func TestSQLiteStore_ListFilters(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i, id := range []string{"p3", "p1", "p2"} {
		p := samplePlan(id, monday.AddDate(0, 0, i))
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	other := samplePlan("x1", monday)
	other.TeamID = "team2"
	s.Save(ctx, other)

	all, err := s.List(ctx, planstore.ListFilter{TeamID: "team1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != "p3" || all[2].ID != "p2" {
		t.Fatalf("List() order = %v", ids(all))
	}
	if len(all[0].Activities) != 3 {
		t.Errorf("activities not loaded for listed plan")
	}

	ranged, _ := s.List(ctx, planstore.ListFilter{TeamID: "team1", From: monday.AddDate(0, 0, 1), To: monday.AddDate(0, 0, 2)})
	if len(ranged) != 1 || ranged[0].ID != "p1" {
		t.Errorf("ranged = %v, want [p1]", ids(ranged))
	}

	active, _ := s.List(ctx, planstore.ListFilter{TeamID: "team1", ActiveAt: monday.Add(time.Hour)})
	if len(active) != 1 || active[0].ID != "p3" {
		t.Errorf("active at end = %v, want [p3] (end inclusive)", ids(active))
	}

	page, _ := s.List(ctx, planstore.ListFilter{TeamID: "team1", Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].ID != "p1" {
		t.Errorf("page = %v, want [p1]", ids(page))
	}

	n, err := s.Count(ctx, planstore.ListFilter{TeamID: "team1", Limit: 1})
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; want 3", n, err)
	}
}

// TestSQLiteStore_DeleteAndSeries tests single and series deletion.
func TestSQLiteStore_DeleteAndSeries(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	series, err := practice.RepeatWeekly(samplePlan("base", monday), "s1", 3, seqID())
	if err != nil {
		t.Fatalf("RepeatWeekly() error = %v", err)
	}
	for _, p := range series {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	s.Save(ctx, samplePlan("solo", monday))

	inSeries, _ := s.List(ctx, planstore.ListFilter{SeriesID: "s1"})
	if len(inSeries) != 3 {
		t.Fatalf("series plans = %d, want 3", len(inSeries))
	}

	n, err := s.DeleteSeries(ctx, "s1")
	if err != nil || n != 3 {
		t.Fatalf("DeleteSeries() = %d, %v; want 3", n, err)
	}
	if err := s.Delete(ctx, "solo"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n, _ := s.Count(ctx, planstore.ListFilter{}); n != 0 {
		t.Errorf("Count() after deletes = %d, want 0", n)
	}
}

func ids(plans []practice.Plan) []string {
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.ID
	}
	return out
}

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return "gen-" + string(rune('a'+n))
	}
}
