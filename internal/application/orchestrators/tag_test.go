package orchestrators

import (
	"context"
	"errors"
	"testing"

	"practiceplan/internal/domain/tag"
)

// TestExecuteCreateTag tests tag creation defaults and duplicate detection.
func TestExecuteCreateTag(t *testing.T) {
	store := newMockTagStore()
	deps := TagDeps{TagStore: store, GenerateID: seqIDs(), Now: fixedNow}

	tg, err := ExecuteCreateTag(context.Background(), CreateTagInput{TeamID: "team1", Name: "  Half   court "}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg.Name != "Half court" || tg.Color != tag.ColorOrange {
		t.Errorf("tag = %+v", tg)
	}

	if _, err := ExecuteCreateTag(context.Background(), CreateTagInput{TeamID: "team1", Name: "half COURT"}, deps); err != tag.ErrDuplicate {
		t.Errorf("duplicate error = %v", err)
	}
	if _, err := ExecuteCreateTag(context.Background(), CreateTagInput{TeamID: "team2", Name: "Half court"}, deps); err != nil {
		t.Errorf("same name on another team: %v", err)
	}
	if _, err := ExecuteCreateTag(context.Background(), CreateTagInput{TeamID: "team1", Name: "Zone", Color: "magenta"}, deps); err != tag.ErrInvalidColor {
		t.Errorf("bad colour error = %v", err)
	}
}

// TestExecuteDeleteTag tests tag deletion.
func TestExecuteDeleteTag(t *testing.T) {
	store := newMockTagStore(tag.Tag{ID: "t1", TeamID: "team1", Name: "Zone"})
	deps := TagDeps{TagStore: store}

	if err := ExecuteDeleteTag(context.Background(), DeleteTagInput{TagID: "t1"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteDeleteTag(context.Background(), DeleteTagInput{TagID: "t1"}, deps); !errors.Is(err, errNotFound) {
		t.Errorf("second delete error = %v", err)
	}
	if err := ExecuteDeleteTag(context.Background(), DeleteTagInput{}, deps); err == nil {
		t.Error("expected error for empty ID")
	}
}
