package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"practiceplan/internal/application/orchestrators"
	"practiceplan/internal/application/projections"
)

// maxTemplateUpload caps YAML import bodies.
const maxTemplateUpload = 1 << 20

func templateDeps() orchestrators.TemplateDeps {
	return orchestrators.TemplateDeps{
		TemplateStore: stores.TemplateStore,
		PeriodStore:   stores.PeriodStore,
		PlanStore:     stores.PlanStore,
		TagStore:      stores.TagStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

// handlePeriods handles GET (list) and POST (create) for /api/periods
func handlePeriods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		teamID, ok := requireQuery(w, r, "team_id")
		if !ok {
			return
		}
		periods, err := stores.PeriodStore.List(ctx, teamID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, periods)

	case http.MethodPost:
		var input struct {
			TeamID          string   `json:"TeamID"`
			Name            string   `json:"Name"`
			DurationMinutes int      `json:"DurationMinutes"`
			Notes           string   `json:"Notes"`
			TagIDs          []string `json:"TagIDs"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteCreatePeriod(ctx, orchestrators.CreatePeriodInput{
			TeamID:          input.TeamID,
			Name:            input.Name,
			DurationMinutes: input.DurationMinutes,
			Notes:           input.Notes,
			TagIDs:          input.TagIDs,
		}, orchestrators.CreatePeriodDeps{
			PeriodStore: stores.PeriodStore,
			TagStore:    stores.TagStore,
			GenerateID:  generateID,
			Now:         timeNow,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleTemplates handles GET (list) and POST (create) for /api/templates
func handleTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		teamID, ok := requireQuery(w, r, "team_id")
		if !ok {
			return
		}
		list, err := stores.TemplateStore.List(ctx, teamID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, list)

	case http.MethodPost:
		var input struct {
			TeamID          string          `json:"TeamID"`
			Name            string          `json:"Name"`
			Description     string          `json:"Description"`
			DurationMinutes int             `json:"DurationMinutes"`
			Activities      []activityInput `json:"Activities"`
			PeriodIDs       []string        `json:"PeriodIDs"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		t, err := orchestrators.ExecuteCreateTemplate(ctx, orchestrators.CreateTemplateInput{
			TeamID:          input.TeamID,
			Name:            input.Name,
			Description:     input.Description,
			DurationMinutes: input.DurationMinutes,
			Activities:      toActivities(input.Activities),
			PeriodIDs:       input.PeriodIDs,
		}, templateDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleTemplateItem handles GET and DELETE for /api/templates/item?id=
func handleTemplateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		t, err := stores.TemplateStore.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if err := orchestrators.ExecuteDeleteTemplate(r.Context(), orchestrators.DeleteTemplateInput{TemplateID: id}, templateDeps()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleTemplateApply handles POST /api/templates/apply
func handleTemplateApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		TemplateID string `json:"TemplateID"`
		Title      string `json:"Title"`
		StartTime  string `json:"StartTime"`
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
	p, err := orchestrators.ExecuteApplyTemplate(r.Context(), orchestrators.ApplyTemplateInput{
		TemplateID: input.TemplateID,
		Title:      input.Title,
		StartTime:  start,
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleTemplateFromPlan handles POST /api/templates/from-plan
func handleTemplateFromPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		PlanID string `json:"PlanID"`
		Name   string `json:"Name"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	t, err := orchestrators.ExecuteSavePlanAsTemplate(r.Context(), orchestrators.SavePlanAsTemplateInput{
		PlanID: input.PlanID,
		Name:   input.Name,
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleTemplateImport handles POST /api/templates/import?team_id=&create_tags=true
// The body is a YAML template document.
func handleTemplateImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	teamID, ok := requireQuery(w, r, "team_id")
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTemplateUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "template document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}
	t, err := orchestrators.ExecuteImportTemplateYAML(r.Context(), orchestrators.ImportTemplateInput{
		TeamID:            teamID,
		Data:              data,
		CreateMissingTags: r.URL.Query().Get("create_tags") == "true",
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleTemplateExport handles GET /api/templates/export?id=
func handleTemplateExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	result, err := projections.QueryGetTemplateExport(r.Context(), projections.GetTemplateExportQuery{TemplateID: id},
		projections.GetTemplateExportDeps{TemplateStore: stores.TemplateStore, TagStore: stores.TagStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(result.Name)))
	w.Write(result.YAML)
}

// exportFilename turns a template name into a safe file name.
func exportFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "template"
	}
	return slug + ".yaml"
}

