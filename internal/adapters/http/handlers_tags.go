package web

import (
	"net/http"

	"practiceplan/internal/application/orchestrators"
)

func tagDeps() orchestrators.TagDeps {
	return orchestrators.TagDeps{
		TagStore:   stores.TagStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handleTags handles GET (list) and POST (create) for /api/tags
func handleTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		teamID, ok := requireQuery(w, r, "team_id")
		if !ok {
			return
		}
		tags, err := stores.TagStore.List(ctx, teamID)
		if err != nil {
			internalError(w, err)
			return
		}
		writeList(w, tags)

	case http.MethodPost:
		var input struct {
			TeamID string `json:"TeamID"`
			Name   string `json:"Name"`
			Color  string `json:"Color"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		t, err := orchestrators.ExecuteCreateTag(ctx, orchestrators.CreateTagInput{
			TeamID: input.TeamID,
			Name:   input.Name,
			Color:  input.Color,
		}, tagDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleTagItem handles DELETE /api/tags/item?id=
func handleTagItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	if err := orchestrators.ExecuteDeleteTag(r.Context(), orchestrators.DeleteTagInput{TagID: id}, tagDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
