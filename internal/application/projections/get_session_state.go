package projections

import (
	"context"
	"errors"
	"time"

	"practiceplan/internal/domain/practice"
)

// Session phases reported alongside the raw state.
const (
	PhaseUpcoming = "upcoming"
	PhaseActivity = "activity"
	PhaseGap      = "gap"
	PhaseFinished = "finished"
)

// GetSessionStateQuery carries query parameters.
type GetSessionStateQuery struct {
	PlanID string
	At     time.Time
}

// GetSessionStateResult is a plan's session state at an instant with display helpers.
type GetSessionStateResult struct {
	Plan          practice.Plan
	At            time.Time
	State         practice.SessionState
	Phase         string
	Current       *practice.Activity
	Next          *practice.Activity
	StartsInSec   int64 // > 0 only when upcoming
	RemainingText string
	ElapsedText   string
}

// GetSessionStateDeps holds dependencies for GetSessionState.
type GetSessionStateDeps struct {
	PlanStore PlanStore
}

// QueryGetSessionState loads a plan and evaluates it at query.At.
// PRE: PlanID is non-empty; At is non-zero
// POST: result state equals practice.ComputeSessionState(plan, At)
func QueryGetSessionState(ctx context.Context, query GetSessionStateQuery, deps GetSessionStateDeps) (GetSessionStateResult, error) {
	if query.PlanID == "" {
		return GetSessionStateResult{}, errors.New("plan ID is required")
	}
	p, err := deps.PlanStore.GetByID(ctx, query.PlanID)
	if err != nil {
		return GetSessionStateResult{}, err
	}
	return Evaluate(p, query.At), nil
}

// Evaluate computes the session view of p at at. It is pure and is shared by
// the request handlers and the live session feed.
func Evaluate(p practice.Plan, at time.Time) GetSessionStateResult {
	state := practice.ComputeSessionState(&p, at)
	res := GetSessionStateResult{
		Plan:          p,
		At:            at,
		State:         state,
		RemainingText: practice.FormatTimer(state.TimeRemainingSec),
		ElapsedText:   practice.FormatTimer(state.TotalElapsedSec),
	}

	switch {
	case at.UnixMilli() < p.StartTime.UnixMilli():
		res.Phase = PhaseUpcoming
		res.StartsInSec = (p.StartTime.UnixMilli() - at.UnixMilli()) / 1000
		res.Next = firstRunnable(p.Activities, 0)
	case !state.IsActive:
		res.Phase = PhaseFinished
	case state.HasCurrentActivity():
		res.Phase = PhaseActivity
		i := *state.CurrentActivityIndex
		cur := p.Activities[i]
		res.Current = &cur
		res.Next = firstRunnable(p.Activities, i+1)
	default:
		res.Phase = PhaseGap
	}
	return res
}

// firstRunnable returns the first activity at or after from with a positive
// duration; zero-length activities are never current so they are never next.
func firstRunnable(activities []practice.Activity, from int) *practice.Activity {
	for i := from; i < len(activities); i++ {
		if activities[i].DurationMinutes > 0 {
			a := activities[i]
			return &a
		}
	}
	return nil
}
