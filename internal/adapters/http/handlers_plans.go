package web

import (
	"errors"
	"net/http"

	"practiceplan/internal/application/listutil"
	"practiceplan/internal/application/orchestrators"
	"practiceplan/internal/application/projections"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/domain/tag"
)

type activityInput struct {
	Name            string   `json:"Name"`
	DurationMinutes int      `json:"DurationMinutes"`
	Notes           string   `json:"Notes"`
	TagIDs          []string `json:"TagIDs"`
}

func toActivities(in []activityInput) []practice.Activity {
	out := make([]practice.Activity, 0, len(in))
	for _, a := range in {
		out = append(out, practice.Activity{
			Name:            a.Name,
			DurationMinutes: a.DurationMinutes,
			Notes:           a.Notes,
			TagIDs:          a.TagIDs,
		})
	}
	return out
}

type planInput struct {
	TeamID          string          `json:"TeamID"`
	Title           string          `json:"Title"`
	Notes           string          `json:"Notes"`
	StartTime       string          `json:"StartTime"`
	DurationMinutes int             `json:"DurationMinutes"`
	Activities      []activityInput `json:"Activities"`
}

func (in planInput) toCreate() (orchestrators.CreatePlanInput, error) {
	start, err := parseBodyTime("StartTime", in.StartTime)
	if err != nil {
		return orchestrators.CreatePlanInput{}, err
	}
	return orchestrators.CreatePlanInput{
		TeamID:          in.TeamID,
		Title:           in.Title,
		Notes:           in.Notes,
		StartTime:       start,
		DurationMinutes: in.DurationMinutes,
		Activities:      toActivities(in.Activities),
	}, nil
}

func createPlanDeps() orchestrators.CreatePlanDeps {
	return orchestrators.CreatePlanDeps{
		PlanStore:  stores.PlanStore,
		TagStore:   stores.TagStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

type planListResponse struct {
	Plans    []practice.Plan   `json:"Plans"`
	PageInfo listutil.PageInfo `json:"PageInfo"`
}

// handlePlans handles GET (paged list) and POST (create) for /api/plans
func handlePlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		teamID, ok := requireQuery(w, r, "team_id")
		if !ok {
			return
		}
		loc, err := requestLocation(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q := r.URL.Query()
		dr, err := listutil.ParseDateRange(q, loc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pp := listutil.ParsePageParams(q)
		result, err := projections.QueryGetPlanList(ctx, projections.GetPlanListQuery{
			TeamID:   teamID,
			SeriesID: q.Get("series_id"),
			From:     dr.From,
			To:       dr.To,
			Page:     pp.Page,
			PerPage:  pp.PerPage,
		}, projections.GetPlanListDeps{PlanStore: stores.PlanStore})
		if err != nil {
			internalError(w, err)
			return
		}
		if result.Plans == nil {
			result.Plans = []practice.Plan{}
		}
		writeJSON(w, http.StatusOK, planListResponse{Plans: result.Plans, PageInfo: result.PageInfo})

	case http.MethodPost:
		var input planInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		create, err := input.toCreate()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteCreatePlan(ctx, create, createPlanDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handlePlanItem handles GET, PUT and DELETE for /api/plans/item?id=
func handlePlanItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := stores.PlanStore.GetByID(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var input struct {
			Title           string           `json:"Title"`
			Notes           *string          `json:"Notes"`
			StartTime       string           `json:"StartTime"`
			DurationMinutes int              `json:"DurationMinutes"`
			Activities      *[]activityInput `json:"Activities"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		start, err := parseBodyTime("StartTime", input.StartTime)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		edit := orchestrators.EditPlanInput{
			PlanID:          id,
			Title:           input.Title,
			StartTime:       start,
			DurationMinutes: input.DurationMinutes,
		}
		if input.Notes != nil {
			edit.Notes, edit.SetNotes = *input.Notes, true
		}
		if input.Activities != nil {
			edit.Activities, edit.SetActivities = toActivities(*input.Activities), true
		}
		p, err := orchestrators.ExecuteEditPlan(ctx, edit, orchestrators.EditPlanDeps{
			PlanStore: stores.PlanStore,
			TagStore:  stores.TagStore,
			Now:       timeNow,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodDelete:
		err := orchestrators.ExecuteDeletePlan(ctx, orchestrators.DeletePlanInput{PlanID: id},
			orchestrators.DeletePlanDeps{PlanStore: stores.PlanStore})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handlePlanSeries handles POST (create weekly series) and DELETE ?series_id= for /api/plans/series
func handlePlanSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodPost:
		var input struct {
			Plan        planInput `json:"Plan"`
			Occurrences int       `json:"Occurrences"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		create, err := input.Plan.toCreate()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		loc, err := requestLocation(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		plans, err := orchestrators.ExecuteCreateSeries(ctx, orchestrators.CreateSeriesInput{
			Plan:        create,
			Occurrences: input.Occurrences,
			Location:    loc,
		}, createPlanDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, plans)

	case http.MethodDelete:
		seriesID, ok := requireQuery(w, r, "series_id")
		if !ok {
			return
		}
		n, err := orchestrators.ExecuteDeleteSeries(ctx, orchestrators.DeleteSeriesInput{SeriesID: seriesID},
			orchestrators.DeletePlanDeps{PlanStore: stores.PlanStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"Removed": n})

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handlePlansByTag handles GET /api/plans/by-tag?team_id=&tag_id=&from=&to=
func handlePlansByTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, ok := requireQuery(w, r, "team_id")
	if !ok {
		return
	}
	tagID, ok := requireQuery(w, r, "tag_id")
	if !ok {
		return
	}
	loc, err := requestLocation(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dr, err := listutil.ParseDateRange(r.URL.Query(), loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := projections.QueryGetPlansByTag(r.Context(), projections.GetPlansByTagQuery{
		TeamID: teamID,
		TagID:  tagID,
		From:   dr.From,
		To:     dr.To,
	}, projections.GetPlansByTagDeps{PlanStore: stores.PlanStore, TagStore: stores.TagStore})
	if errors.Is(err, tag.ErrUnknownTag) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	if result.Plans == nil {
		result.Plans = []projections.TaggedPlan{}
	}
	writeJSON(w, http.StatusOK, result)
}
