package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"practiceplan/internal/application/projections"
	"practiceplan/internal/domain/practice"
)

var start = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

func drill() practice.Plan {
	return practice.NewPlan("p1", "team1", "Tuesday", start, 60, []practice.Activity{
		{Name: "Warm-up", DurationMinutes: 15},
		{Name: "Shell drill", DurationMinutes: 20},
	})
}

// TestWriteSessionLine tests the line printed for each phase.
func TestWriteSessionLine(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want []string
	}{
		{"upcoming", start.Add(-90 * time.Second), []string{"starts in 1:30", `next="Warm-up"`}},
		{"activity", start.Add(5 * time.Minute), []string{`[1/2] "Warm-up"`, "remaining=10:00", `next="Shell drill"`}},
		{"gap", start.Add(50 * time.Minute), []string{"between activities", "elapsed=50:00"}},
		{"finished", start.Add(2 * time.Hour), []string{"Tuesday finished"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeSessionLine(&buf, projections.Evaluate(drill(), tt.at))
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("line = %q, missing %q", buf.String(), w)
				}
			}
		})
	}
}

// TestWriteWeek tests empty and populated days.
func TestWriteWeek(t *testing.T) {
	p := drill()
	res := projections.GetWeekResult{
		WeekStart: start,
		TotalText: "1h",
		Days: []projections.WeekDay{
			{Date: start, Plans: []practice.Plan{p}, TotalText: "1h"},
			{Date: start.AddDate(0, 0, 1)},
		},
	}
	var buf bytes.Buffer
	writeWeek(&buf, res)
	out := buf.String()
	for _, w := range []string{"week of Mon 2 Mar 2026 (1h)", "Mon 02  1h", "16:00-17:00  Tuesday  (p1)", "Tue 03  -"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

// TestMigrateCmd tests the migrate command against a fresh database file.
func TestMigrateCmd(t *testing.T) {
	t.Setenv("PRACTICEPLAN_DB", filepath.Join(t.TempDir(), "pp.db"))
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "schema version ") {
		t.Errorf("output = %q", out.String())
	}
}

// TestWeekCmd_RequiresTeam tests flag validation before any database work.
func TestWeekCmd_RequiresTeam(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"week"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--team") {
		t.Errorf("error = %v, want --team required", err)
	}
}

// TestSessionCmd_BadAt tests --at parsing.
func TestSessionCmd_BadAt(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"session", "p1", "--at", "yesterday"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "RFC3339") {
		t.Errorf("error = %v, want RFC3339 error", err)
	}
}
