package template_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"practiceplan/internal/adapters/storage"
	templatestore "practiceplan/internal/adapters/storage/template"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/template"
)

func openDB(t *testing.T) *sql.DB {
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
	return db
}

var created = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// TestSQLiteStore_TemplateLifecycle tests save, get, list and delete of templates.
func TestSQLiteStore_TemplateLifecycle(t *testing.T) {
	s := templatestore.NewSQLiteStore(openDB(t))
	ctx := context.Background()

	tpl := template.Template{
		ID: "tpl1", TeamID: "team1", Name: "Walkthrough", Description: "Day before a game",
		Activities: []practice.Activity{
			{Name: "Shootaround", DurationMinutes: 20, TagIDs: []string{"t-shoot"}},
			{Name: "Scout review", DurationMinutes: 15, Notes: "Their press"},
		},
		CreatedAt: created,
	}
	if err := s.Save(ctx, tpl); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Save(ctx, template.Template{ID: "tpl2", TeamID: "team1", Name: "at altitude", CreatedAt: created,
		Activities: []practice.Activity{{Name: "Run", DurationMinutes: 5}}})

	got, err := s.GetByID(ctx, "tpl1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Description != tpl.Description || len(got.Activities) != 2 {
		t.Fatalf("GetByID() = %+v", got)
	}
	if got.Activities[0].TagIDs[0] != "t-shoot" || got.Activities[1].Notes != "Their press" {
		t.Errorf("activities = %+v", got.Activities)
	}
	if got.EffectiveDuration() != 35 {
		t.Errorf("EffectiveDuration() = %d, want 35", got.EffectiveDuration())
	}

	list, _ := s.List(ctx, "team1")
	if len(list) != 2 || list[0].ID != "tpl2" {
		t.Errorf("List() order = %+v", list)
	}

	if err := s.Delete(ctx, "tpl1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.GetByID(ctx, "tpl1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID() after delete = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLitePeriodStore tests the period library store.
func TestSQLitePeriodStore(t *testing.T) {
	s := templatestore.NewSQLitePeriodStore(openDB(t))
	ctx := context.Background()

	if err := s.Save(ctx, template.Period{ID: "pd1", TeamID: "team1", Name: "Free throws", DurationMinutes: 5,
		TagIDs: []string{"t-shoot"}, CreatedAt: created}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, template.Period{ID: "pd2", TeamID: "team1", Name: "Box-out", DurationMinutes: 8,
		CreatedAt: created}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.GetByID(ctx, "pd1")
	if err != nil || got.DurationMinutes != 5 || got.TagIDs[0] != "t-shoot" {
		t.Fatalf("GetByID() = %+v, %v", got, err)
	}

	list, _ := s.List(ctx, "team1")
	if len(list) != 2 || list[0].Name != "Box-out" || list[0].TagIDs != nil {
		t.Errorf("List() = %+v", list)
	}

	s.Delete(ctx, "pd1")
	if _, err := s.GetByID(ctx, "pd1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID() after delete = %v", err)
	}
}
