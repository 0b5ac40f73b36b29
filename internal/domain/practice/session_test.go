package practice_test

import (
	"testing"
	"time"

	"practiceplan/internal/domain/practice"
)

var sessionStart = time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)

// hourPlan is a 60 minute plan with 15 + 20 + 25 minutes of activities.
func hourPlan() *practice.Plan {
	p := practice.NewPlan("p1", "team1", "Tuesday practice", sessionStart, 60, []practice.Activity{
		{Name: "Warm-up", DurationMinutes: 15},
		{Name: "Passing drills", DurationMinutes: 20},
		{Name: "Scrimmage", DurationMinutes: 25},
	})
	return &p
}

func at(minutes int) time.Time {
	return sessionStart.Add(time.Duration(minutes) * time.Minute)
}

func assertInactive(t *testing.T, s practice.SessionState) {
	t.Helper()
	if s.IsActive {
		t.Error("IsActive = true, want false")
	}
	if s.CurrentActivityIndex != nil {
		t.Errorf("CurrentActivityIndex = %d, want nil", *s.CurrentActivityIndex)
	}
	if s.TimeRemainingSec != 0 || s.ElapsedInActivitySec != 0 || s.TotalElapsedSec != 0 || s.ProgressFraction != 0 {
		t.Errorf("numeric fields = %+v, want all zero", s)
	}
}

func assertIndex(t *testing.T, s practice.SessionState, want int) {
	t.Helper()
	if s.CurrentActivityIndex == nil {
		t.Fatalf("CurrentActivityIndex = nil, want %d", want)
	}
	if *s.CurrentActivityIndex != want {
		t.Errorf("CurrentActivityIndex = %d, want %d", *s.CurrentActivityIndex, want)
	}
}

// TestComputeSessionState_NilPlan tests that an absent plan is inactive.
func TestComputeSessionState_NilPlan(t *testing.T) {
	assertInactive(t, practice.ComputeSessionState(nil, sessionStart))
}

// TestComputeSessionState_OutsideWindow tests instants before and after the plan.
func TestComputeSessionState_OutsideWindow(t *testing.T) {
	plan := hourPlan()
	assertInactive(t, practice.ComputeSessionState(plan, sessionStart.Add(-time.Millisecond)))
	assertInactive(t, practice.ComputeSessionState(plan, plan.EndTime.Add(time.Millisecond)))
	// 61 minutes in: past all activities and past the end of the plan.
	assertInactive(t, practice.ComputeSessionState(plan, at(61)))
}

// TestComputeSessionState_AtStart tests that the first activity is current at elapsed zero.
func TestComputeSessionState_AtStart(t *testing.T) {
	s := practice.ComputeSessionState(hourPlan(), sessionStart)
	if !s.IsActive {
		t.Fatal("expected active at start")
	}
	assertIndex(t, s, 0)
	if s.ElapsedInActivitySec != 0 {
		t.Errorf("ElapsedInActivitySec = %d, want 0", s.ElapsedInActivitySec)
	}
	if s.TimeRemainingSec != 15*60 {
		t.Errorf("TimeRemainingSec = %d, want %d", s.TimeRemainingSec, 15*60)
	}
	if s.TotalElapsedSec != 0 {
		t.Errorf("TotalElapsedSec = %d, want 0", s.TotalElapsedSec)
	}
}

// TestComputeSessionState_SixteenMinutesIn tests the reference scenario.
func TestComputeSessionState_SixteenMinutesIn(t *testing.T) {
	s := practice.ComputeSessionState(hourPlan(), at(16))
	assertIndex(t, s, 1)
	if s.ElapsedInActivitySec != 60 {
		t.Errorf("ElapsedInActivitySec = %d, want 60", s.ElapsedInActivitySec)
	}
	if s.TimeRemainingSec != 19*60 {
		t.Errorf("TimeRemainingSec = %d, want %d", s.TimeRemainingSec, 19*60)
	}
	if s.TotalElapsedSec != 16*60 {
		t.Errorf("TotalElapsedSec = %d, want %d", s.TotalElapsedSec, 16*60)
	}
	if want := 60.0 / 1200.0; s.ProgressFraction != want {
		t.Errorf("ProgressFraction = %v, want %v", s.ProgressFraction, want)
	}
}

// TestComputeSessionState_ActivityBoundary tests that a boundary instant belongs to the next activity.
func TestComputeSessionState_ActivityBoundary(t *testing.T) {
	plan := hourPlan()

	s := practice.ComputeSessionState(plan, at(15))
	assertIndex(t, s, 1)
	if s.ElapsedInActivitySec != 0 {
		t.Errorf("ElapsedInActivitySec = %d, want 0", s.ElapsedInActivitySec)
	}

	s = practice.ComputeSessionState(plan, at(15).Add(-time.Millisecond))
	assertIndex(t, s, 0)
	if s.TimeRemainingSec != 0 {
		t.Errorf("TimeRemainingSec = %d, want 0 on last millisecond", s.TimeRemainingSec)
	}
}

// TestComputeSessionState_ExactEnd tests that the plan is still active at EndTime with no activity.
func TestComputeSessionState_ExactEnd(t *testing.T) {
	plan := hourPlan()
	s := practice.ComputeSessionState(plan, plan.EndTime)
	if !s.IsActive {
		t.Fatal("expected plan active at exact end time")
	}
	if s.CurrentActivityIndex != nil {
		t.Errorf("CurrentActivityIndex = %d, want nil at end boundary", *s.CurrentActivityIndex)
	}
	if s.TotalElapsedSec != 3600 {
		t.Errorf("TotalElapsedSec = %d, want 3600", s.TotalElapsedSec)
	}
	if s.TimeRemainingSec != 0 || s.ElapsedInActivitySec != 0 || s.ProgressFraction != 0 {
		t.Errorf("activity fields = %+v, want zero", s)
	}
}

// TestComputeSessionState_TrailingGap tests a plan longer than its activities.
func TestComputeSessionState_TrailingGap(t *testing.T) {
	p := practice.NewPlan("p2", "team1", "Long", sessionStart, 90, []practice.Activity{
		{Name: "Drill", DurationMinutes: 30},
	})
	s := practice.ComputeSessionState(&p, at(45))
	if !s.IsActive {
		t.Fatal("expected active in trailing gap")
	}
	if s.CurrentActivityIndex != nil {
		t.Errorf("CurrentActivityIndex = %d, want nil", *s.CurrentActivityIndex)
	}
	if s.TotalElapsedSec != 45*60 {
		t.Errorf("TotalElapsedSec = %d, want %d", s.TotalElapsedSec, 45*60)
	}
}

// TestComputeSessionState_ZeroDurationActivity tests that an empty activity is never current.
func TestComputeSessionState_ZeroDurationActivity(t *testing.T) {
	p := practice.NewPlan("p3", "team1", "Zero", sessionStart, 30, []practice.Activity{
		{Name: "Huddle", DurationMinutes: 0},
		{Name: "Drill", DurationMinutes: 10},
	})
	s := practice.ComputeSessionState(&p, sessionStart)
	assertIndex(t, s, 1)
	if s.ProgressFraction != 0 {
		t.Errorf("ProgressFraction = %v, want 0", s.ProgressFraction)
	}

	only := practice.NewPlan("p4", "team1", "Only zero", sessionStart, 10, []practice.Activity{
		{Name: "Huddle", DurationMinutes: 0},
	})
	s = practice.ComputeSessionState(&only, sessionStart)
	if s.CurrentActivityIndex != nil {
		t.Error("zero-length activity must not be current")
	}
}

// TestComputeSessionState_SubSecondFloor tests that seconds are floored on millisecond input.
func TestComputeSessionState_SubSecondFloor(t *testing.T) {
	s := practice.ComputeSessionState(hourPlan(), sessionStart.Add(1999*time.Millisecond))
	if s.TotalElapsedSec != 1 {
		t.Errorf("TotalElapsedSec = %d, want 1", s.TotalElapsedSec)
	}
	if s.ElapsedInActivitySec != 1 {
		t.Errorf("ElapsedInActivitySec = %d, want 1", s.ElapsedInActivitySec)
	}
	// 15m - 1.999s = 898.001s, floored.
	if s.TimeRemainingSec != 898 {
		t.Errorf("TimeRemainingSec = %d, want 898", s.TimeRemainingSec)
	}
}

// TestComputeSessionState_ElapsedPlusRemaining tests that elapsed + remaining spans the activity.
func TestComputeSessionState_ElapsedPlusRemaining(t *testing.T) {
	plan := hourPlan()
	for sec := 0; sec < 60*60; sec += 7 {
		now := sessionStart.Add(time.Duration(sec) * time.Second)
		s := practice.ComputeSessionState(plan, now)
		a, ok := s.CurrentActivity(plan)
		if !ok {
			t.Fatalf("no current activity at %ds", sec)
		}
		if got := s.ElapsedInActivitySec + s.TimeRemainingSec; got != int64(a.DurationMinutes*60) {
			t.Fatalf("at %ds elapsed+remaining = %d, want %d", sec, got, a.DurationMinutes*60)
		}
		if s.ProgressFraction < 0 || s.ProgressFraction >= 1 {
			t.Fatalf("at %ds ProgressFraction = %v out of [0,1)", sec, s.ProgressFraction)
		}
	}
}

// TestComputeSessionState_MonotonicTotal tests that TotalElapsedSec never decreases while active.
func TestComputeSessionState_MonotonicTotal(t *testing.T) {
	plan := hourPlan()
	var last int64 = -1
	for ms := int64(0); ms <= 3600*1000; ms += 750 {
		s := practice.ComputeSessionState(plan, sessionStart.Add(time.Duration(ms)*time.Millisecond))
		if s.TotalElapsedSec < last {
			t.Fatalf("TotalElapsedSec decreased at %dms: %d < %d", ms, s.TotalElapsedSec, last)
		}
		last = s.TotalElapsedSec
	}
}

// TestComputeSessionState_Idempotent tests purity and that the plan is left untouched.
func TestComputeSessionState_Idempotent(t *testing.T) {
	plan := hourPlan()
	before := *plan
	a := practice.ComputeSessionState(plan, at(22))
	b := practice.ComputeSessionState(plan, at(22))
	if a.IsActive != b.IsActive || *a.CurrentActivityIndex != *b.CurrentActivityIndex ||
		a.TimeRemainingSec != b.TimeRemainingSec || a.ElapsedInActivitySec != b.ElapsedInActivitySec ||
		a.TotalElapsedSec != b.TotalElapsedSec || a.ProgressFraction != b.ProgressFraction {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
	if !plan.StartTime.Equal(before.StartTime) || len(plan.Activities) != len(before.Activities) {
		t.Error("plan was mutated")
	}
}

// TestComputeSessionState_OverrunActivities tests activities running past the plan end.
func TestComputeSessionState_OverrunActivities(t *testing.T) {
	p := practice.NewPlan("p5", "team1", "Overrun", sessionStart, 10, []practice.Activity{
		{Name: "Long drill", DurationMinutes: 20},
	})
	s := practice.ComputeSessionState(&p, p.EndTime)
	assertIndex(t, s, 0)
	s = practice.ComputeSessionState(&p, p.EndTime.Add(time.Second))
	assertInactive(t, s)
}
