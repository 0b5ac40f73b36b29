package projections

import (
	"context"
	"time"

	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/application/listutil"
	"practiceplan/internal/domain/practice"
)

// GetPlanListQuery carries query parameters.
type GetPlanListQuery struct {
	TeamID   string
	SeriesID string
	From     time.Time
	To       time.Time
	Page     int
	PerPage  int
}

// GetPlanListResult carries one page of plans.
type GetPlanListResult struct {
	Plans    []practice.Plan
	PageInfo listutil.PageInfo
}

// GetPlanListDeps holds dependencies for GetPlanList.
type GetPlanListDeps struct {
	PlanStore PlanStore
}

// QueryGetPlanList returns a page of plans in start order.
// POST: PageInfo.Page is clamped to the available pages
func QueryGetPlanList(ctx context.Context, query GetPlanListQuery, deps GetPlanListDeps) (GetPlanListResult, error) {
	filter := planstore.ListFilter{
		TeamID:   query.TeamID,
		SeriesID: query.SeriesID,
		From:     query.From,
		To:       query.To,
	}
	total, err := deps.PlanStore.Count(ctx, filter)
	if err != nil {
		return GetPlanListResult{}, err
	}
	info := listutil.NewPageInfo(query.Page, query.PerPage, total)
	filter.Limit = info.PerPage
	filter.Offset = info.Offset()

	plans, err := deps.PlanStore.List(ctx, filter)
	if err != nil {
		return GetPlanListResult{}, err
	}
	return GetPlanListResult{Plans: plans, PageInfo: info}, nil
}
