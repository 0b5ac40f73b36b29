package projections

import (
	"context"
	"errors"
	"time"

	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
)

// GetPlansByTagQuery carries query parameters. From/To bound plan start as [From, To).
type GetPlansByTagQuery struct {
	TeamID string
	TagID  string
	From   time.Time
	To     time.Time
}

// TaggedPlan is a plan with the minutes it spends on the tag.
type TaggedPlan struct {
	Plan          practice.Plan
	TaggedMinutes int
}

// GetPlansByTagResult carries matching plans and the tag totals.
type GetPlansByTagResult struct {
	Tag          tag.Tag
	Plans        []TaggedPlan
	TotalMinutes int
}

// GetPlansByTagDeps holds dependencies for GetPlansByTag.
type GetPlansByTagDeps struct {
	PlanStore PlanStore
	TagStore  TagStore
}

// QueryGetPlansByTag lists plans with at least one activity carrying the tag.
// PRE: TagID belongs to TeamID
// POST: plans in start order; returns tag.ErrUnknownTag for a foreign or deleted tag
func QueryGetPlansByTag(ctx context.Context, query GetPlansByTagQuery, deps GetPlansByTagDeps) (GetPlansByTagResult, error) {
	if query.TeamID == "" || query.TagID == "" {
		return GetPlansByTagResult{}, errors.New("team ID and tag ID are required")
	}
	tags, err := deps.TagStore.List(ctx, query.TeamID)
	if err != nil {
		return GetPlansByTagResult{}, err
	}
	var res GetPlansByTagResult
	found := false
	for _, t := range tags {
		if t.ID == query.TagID {
			res.Tag = t
			found = true
			break
		}
	}
	if !found {
		return GetPlansByTagResult{}, tag.ErrUnknownTag
	}

	plans, err := deps.PlanStore.List(ctx, planstore.ListFilter{TeamID: query.TeamID, From: query.From, To: query.To})
	if err != nil {
		return GetPlansByTagResult{}, err
	}
	for _, p := range plans {
		if !p.HasTag(query.TagID) {
			continue
		}
		minutes := 0
		for _, a := range p.Activities {
			if a.HasTag(query.TagID) && a.DurationMinutes > 0 {
				minutes += a.DurationMinutes
			}
		}
		res.Plans = append(res.Plans, TaggedPlan{Plan: p, TaggedMinutes: minutes})
		res.TotalMinutes += minutes
	}
	return res, nil
}
