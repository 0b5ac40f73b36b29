package calendar_test

import (
	"testing"
	"time"

	"practiceplan/internal/domain/calendar"
	"practiceplan/internal/domain/practice"
)

// TestStartOfWeek tests Monday-based week starts including rollovers.
func TestStartOfWeek(t *testing.T) {
	loc := time.FixedZone("NZST", 12*3600)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 3, 4, 15, 30, 0, 0, loc), time.Date(2026, 3, 2, 0, 0, 0, 0, loc)},
		{"monday itself", time.Date(2026, 3, 2, 8, 0, 0, 0, loc), time.Date(2026, 3, 2, 0, 0, 0, 0, loc)},
		{"sunday goes back six days", time.Date(2026, 3, 8, 23, 59, 0, 0, loc), time.Date(2026, 3, 2, 0, 0, 0, 0, loc)},
		{"month rollover", time.Date(2026, 4, 1, 12, 0, 0, 0, loc), time.Date(2026, 3, 30, 0, 0, 0, 0, loc)},
		{"year rollover", time.Date(2026, 1, 1, 12, 0, 0, 0, loc), time.Date(2025, 12, 29, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calendar.StartOfWeek(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("weekday = %v, want Monday", got.Weekday())
			}
			if got.Location() != loc {
				t.Errorf("location = %v, want %v", got.Location(), loc)
			}
		})
	}
}

// TestWeekDays tests seven consecutive days across a month boundary.
func TestWeekDays(t *testing.T) {
	start := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	days := calendar.WeekDays(start)
	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	want := []string{"2026-03-30", "2026-03-31", "2026-04-01", "2026-04-02", "2026-04-03", "2026-04-04", "2026-04-05"}
	for i, d := range days {
		if calendar.DayKey(d) != want[i] {
			t.Errorf("day %d = %s, want %s", i, calendar.DayKey(d), want[i])
		}
	}
}

// TestIsSameDayAndWeek tests the day and week predicates.
func TestIsSameDayAndWeek(t *testing.T) {
	a := time.Date(2026, 3, 4, 0, 0, 1, 0, time.UTC)
	if !calendar.IsSameDay(a, time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC)) {
		t.Error("expected same day")
	}
	if calendar.IsSameDay(a, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected different day")
	}
	if !calendar.IsSameWeek(a, time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC)) {
		t.Error("Sunday should share the week with the preceding Wednesday")
	}
	if calendar.IsSameWeek(a, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Error("next Monday should start a new week")
	}
}

func plan(id string, start time.Time) practice.Plan {
	return practice.NewPlan(id, "team1", id, start, 60, nil)
}

// TestGroupByDay tests bucketing and ordering.
func TestGroupByDay(t *testing.T) {
	plans := []practice.Plan{
		plan("c", time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)),
		plan("a", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)),
		plan("b", time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC)),
	}
	buckets := calendar.GroupByDay(plans, time.UTC)
	if len(buckets) != 2 {
		t.Fatalf("len = %d, want 2", len(buckets))
	}
	if buckets[0].Key() != "2026-03-04" || len(buckets[0].Plans) != 2 {
		t.Errorf("first bucket = %s with %d plans", buckets[0].Key(), len(buckets[0].Plans))
	}
	if buckets[0].Plans[0].ID != "b" || buckets[0].Plans[1].ID != "a" {
		t.Errorf("plans not sorted by start: %s, %s", buckets[0].Plans[0].ID, buckets[0].Plans[1].ID)
	}
	if buckets[0].TotalMinutes() != 120 {
		t.Errorf("TotalMinutes() = %d, want 120", buckets[0].TotalMinutes())
	}
	if plans[0].ID != "c" {
		t.Error("input slice was reordered")
	}
}

// TestWeek tests the seven-bucket week view.
func TestWeek(t *testing.T) {
	plans := []practice.Plan{
		plan("mon", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)),
		plan("sun", time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)),
		plan("next", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)),
	}
	week := calendar.Week(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), plans)
	if len(week) != 7 {
		t.Fatalf("len = %d, want 7", len(week))
	}
	if len(week[0].Plans) != 1 || week[0].Plans[0].ID != "mon" {
		t.Errorf("monday bucket = %+v", week[0].Plans)
	}
	if len(week[6].Plans) != 1 || week[6].Plans[0].ID != "sun" {
		t.Errorf("sunday bucket = %+v", week[6].Plans)
	}
	for i := 1; i < 6; i++ {
		if len(week[i].Plans) != 0 {
			t.Errorf("day %d should be empty", i)
		}
	}

	start, end := calendar.WeekRange(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	if calendar.DayKey(start) != "2026-03-02" || calendar.DayKey(end) != "2026-03-09" {
		t.Errorf("WeekRange = %s..%s", calendar.DayKey(start), calendar.DayKey(end))
	}
}
