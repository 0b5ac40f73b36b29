package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"practiceplan/internal/application/listutil"
	"practiceplan/internal/application/projections"
	"practiceplan/internal/application/sessionfeed"
	"practiceplan/internal/domain/practice"
)

// sessionView is the wire shape of a session evaluation.
type sessionView struct {
	PlanID               string    `json:"plan_id"`
	Title                string    `json:"title"`
	At                   time.Time `json:"at"`
	Phase                string    `json:"phase"`
	IsActive             bool      `json:"is_active"`
	CurrentActivityIndex *int      `json:"current_activity_index"`
	CurrentActivity      string    `json:"current_activity,omitempty"`
	NextActivity         string    `json:"next_activity,omitempty"`
	TimeRemainingSec     int64     `json:"time_remaining_sec"`
	ElapsedInActivitySec int64     `json:"elapsed_in_activity_sec"`
	TotalElapsedSec      int64     `json:"total_elapsed_sec"`
	ProgressFraction     float64   `json:"progress_fraction"`
	StartsInSec          int64     `json:"starts_in_sec,omitempty"`
	TimeRemaining        string    `json:"time_remaining"`
	TotalElapsed         string    `json:"total_elapsed"`
}

func newSessionView(res projections.GetSessionStateResult) sessionView {
	v := sessionView{
		PlanID:               res.Plan.ID,
		Title:                res.Plan.Title,
		At:                   res.At,
		Phase:                res.Phase,
		IsActive:             res.State.IsActive,
		CurrentActivityIndex: res.State.CurrentActivityIndex,
		TimeRemainingSec:     res.State.TimeRemainingSec,
		ElapsedInActivitySec: res.State.ElapsedInActivitySec,
		TotalElapsedSec:      res.State.TotalElapsedSec,
		ProgressFraction:     res.State.ProgressFraction,
		StartsInSec:          res.StartsInSec,
		TimeRemaining:        res.RemainingText,
		TotalElapsed:         res.ElapsedText,
	}
	if res.Current != nil {
		v.CurrentActivity = res.Current.Name
	}
	if res.Next != nil {
		v.NextActivity = res.Next.Name
	}
	return v
}

// handleSession handles GET /api/session?plan_id=&at=
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	planID, ok := requireQuery(w, r, "plan_id")
	if !ok {
		return
	}
	at, err := listutil.ParseInstant(r.URL.Query(), "at", timeNow())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetSessionState(r.Context(), projections.GetSessionStateQuery{
		PlanID: planID,
		At:     at,
	}, projections.GetSessionStateDeps{PlanStore: stores.PlanStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(result))
}

type currentSessionResponse struct {
	Found   bool         `json:"found"`
	Session *sessionView `json:"session,omitempty"`
}

// handleSessionCurrent handles GET /api/session/current?team_id=&at=
func handleSessionCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, ok := requireQuery(w, r, "team_id")
	if !ok {
		return
	}
	at, err := listutil.ParseInstant(r.URL.Query(), "at", timeNow())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetCurrentSession(r.Context(), projections.GetCurrentSessionQuery{
		TeamID: teamID,
		At:     at,
	}, projections.GetCurrentSessionDeps{PlanStore: stores.PlanStore})
	if err != nil {
		internalError(w, err)
		return
	}
	resp := currentSessionResponse{Found: result.Found}
	if result.Found {
		v := newSessionView(result.Session)
		resp.Session = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSessionStream handles GET /api/session/stream?plan_id=
// It sends a "session" event every tick and closes after the plan finishes.
func handleSessionStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	planID, ok := requireQuery(w, r, "plan_id")
	if !ok {
		return
	}
	ctx := r.Context()
	if _, err := stores.PlanStore.GetByID(ctx, planID); err != nil {
		writeError(w, err)
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	feed := sessionfeed.Feed{
		PlanID:   planID,
		Interval: tickInterval,
		Now:      timeNow,
		Load: func(ctx context.Context, id string) (practice.Plan, error) {
			return stores.PlanStore.GetByID(ctx, id)
		},
		Collector: perfCollector,
	}
	err := feed.Run(ctx, func(u sessionfeed.Update) error {
		data, err := json.Marshal(newSessionView(u.State))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", data); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil {
			return err
		}
		if u.State.Phase == projections.PhaseFinished {
			return sessionfeed.ErrStopped
		}
		return nil
	})
	if err != nil {
		slog.Warn("session_stream_closed", "plan_id", planID, "error", err)
	}
}

// handleWeek handles GET /api/week?team_id=&date=YYYY-MM-DD&tz=
func handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, ok := requireQuery(w, r, "team_id")
	if !ok {
		return
	}
	loc, err := requestLocation(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := listutil.ParseDate(r.URL.Query(), "date", loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if date.IsZero() {
		date = timeNow().In(loc)
	}
	result, err := projections.QueryGetWeek(r.Context(), projections.GetWeekQuery{
		TeamID: teamID,
		Date:   date,
	}, projections.GetWeekDeps{PlanStore: stores.PlanStore})
	if err != nil {
		internalError(w, err)
		return
	}
	for i := range result.Days {
		if result.Days[i].Plans == nil {
			result.Days[i].Plans = []practice.Plan{}
		}
	}
	writeJSON(w, http.StatusOK, result)
}
