package projections

import (
	"context"
	"errors"
	"time"

	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/calendar"
)

// GetCurrentSessionQuery carries query parameters.
type GetCurrentSessionQuery struct {
	TeamID string
	At     time.Time
}

// GetCurrentSessionResult carries the running session, if any.
type GetCurrentSessionResult struct {
	Found   bool
	Session GetSessionStateResult
}

// GetCurrentSessionDeps holds dependencies for GetCurrentSession.
type GetCurrentSessionDeps struct {
	PlanStore PlanStore
}

// QueryGetCurrentSession finds the team's plan whose window contains At.
// When plans overlap the earliest-starting one wins, ties broken by ID.
// POST: Found is false when no plan is running
func QueryGetCurrentSession(ctx context.Context, query GetCurrentSessionQuery, deps GetCurrentSessionDeps) (GetCurrentSessionResult, error) {
	if query.TeamID == "" {
		return GetCurrentSessionResult{}, errors.New("team ID is required")
	}
	plans, err := deps.PlanStore.List(ctx, planstore.ListFilter{TeamID: query.TeamID, ActiveAt: query.At})
	if err != nil {
		return GetCurrentSessionResult{}, err
	}
	for _, p := range calendar.SortByStart(plans) {
		if p.Contains(query.At) {
			return GetCurrentSessionResult{Found: true, Session: Evaluate(p, query.At)}, nil
		}
	}
	return GetCurrentSessionResult{}, nil
}
