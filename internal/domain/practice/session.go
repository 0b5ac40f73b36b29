package practice

import "time"

// SessionState is the derived view of where a practice is at a given instant.
// It is recomputed on every evaluation and never stored.
type SessionState struct {
	IsActive             bool
	CurrentActivityIndex *int // nil when no activity is running
	TimeRemainingSec     int64
	ElapsedInActivitySec int64
	TotalElapsedSec      int64
	ProgressFraction     float64
}

// HasCurrentActivity reports whether an activity is running.
func (s SessionState) HasCurrentActivity() bool {
	return s.CurrentActivityIndex != nil
}

// CurrentActivity returns the running activity of plan, if any.
func (s SessionState) CurrentActivity(plan *Plan) (Activity, bool) {
	if plan == nil || s.CurrentActivityIndex == nil {
		return Activity{}, false
	}
	i := *s.CurrentActivityIndex
	if i < 0 || i >= len(plan.Activities) {
		return Activity{}, false
	}
	return plan.Activities[i], true
}

// ComputeSessionState derives the session state of plan at now.
//
// The plan window is inclusive at both ends: at now == EndTime the plan is
// still active, with no current activity. Activity windows are half-open, so
// a boundary instant belongs to the next activity.
//
// PRE: none (nil plan yields the inactive state)
// POST: plan is not mutated; identical inputs give identical output
func ComputeSessionState(plan *Plan, now time.Time) SessionState {
	var state SessionState
	if plan == nil {
		return state
	}

	nowMs := now.UnixMilli()
	startMs := plan.StartTime.UnixMilli()
	endMs := plan.EndTime.UnixMilli()
	if nowMs < startMs || nowMs > endMs {
		return state
	}

	state.IsActive = true
	state.TotalElapsedSec = (nowMs - startMs) / 1000

	activityStart := startMs
	for i, a := range plan.Activities {
		lengthMs := a.Duration().Milliseconds()
		activityEnd := activityStart + lengthMs
		if activityStart <= nowMs && nowMs < activityEnd {
			idx := i
			state.CurrentActivityIndex = &idx
			state.ElapsedInActivitySec = (nowMs - activityStart) / 1000
			state.TimeRemainingSec = (activityEnd - nowMs) / 1000
			if lengthMs > 0 {
				state.ProgressFraction = float64(state.ElapsedInActivitySec) / float64(lengthMs/1000)
			}
			break
		}
		activityStart = activityEnd
	}
	return state
}
