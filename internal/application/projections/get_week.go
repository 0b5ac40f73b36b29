package projections

import (
	"context"
	"errors"
	"time"

	planstore "practiceplan/internal/adapters/storage/plan"
	"practiceplan/internal/domain/calendar"
	"practiceplan/internal/domain/practice"
)

// GetWeekQuery carries query parameters. Date may be any instant in the
// week; its location decides where days begin.
type GetWeekQuery struct {
	TeamID string
	Date   time.Time
}

// WeekDay is one column of the week view.
type WeekDay struct {
	Date         time.Time
	Key          string
	Plans        []practice.Plan
	TotalMinutes int
	TotalText    string
}

// GetWeekResult carries the seven days of the week view.
type GetWeekResult struct {
	WeekStart    time.Time
	WeekEnd      time.Time
	Days         []WeekDay
	TotalMinutes int
	TotalText    string
}

// GetWeekDeps holds dependencies for GetWeek.
type GetWeekDeps struct {
	PlanStore PlanStore
}

// QueryGetWeek returns the Monday-to-Sunday view containing query.Date.
// POST: exactly seven days, Monday first, empty days included
func QueryGetWeek(ctx context.Context, query GetWeekQuery, deps GetWeekDeps) (GetWeekResult, error) {
	if query.TeamID == "" {
		return GetWeekResult{}, errors.New("team ID is required")
	}
	start, end := calendar.WeekRange(query.Date)
	plans, err := deps.PlanStore.List(ctx, planstore.ListFilter{TeamID: query.TeamID, From: start, To: end})
	if err != nil {
		return GetWeekResult{}, err
	}

	res := GetWeekResult{WeekStart: start, WeekEnd: end}
	for _, b := range calendar.Week(query.Date, plans) {
		total := b.TotalMinutes()
		res.Days = append(res.Days, WeekDay{
			Date:         b.Date,
			Key:          b.Key(),
			Plans:        b.Plans,
			TotalMinutes: total,
			TotalText:    practice.FormatDurationShort(total),
		})
		res.TotalMinutes += total
	}
	res.TotalText = practice.FormatDurationShort(res.TotalMinutes)
	return res, nil
}
