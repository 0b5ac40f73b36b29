package web

import (
	"net/http"

	"practiceplan/internal/application/orchestrators"
	"practiceplan/internal/application/projections"
	"practiceplan/internal/domain/announcement"
)

// announcementView adds rendered HTML to an announcement.
type announcementView struct {
	announcement.Announcement
	ContentHTML string `json:"ContentHTML"`
}

func newAnnouncementView(a announcement.Announcement) announcementView {
	return announcementView{Announcement: a, ContentHTML: renderMarkdown(a.Content)}
}

func announcementDeps() orchestrators.AnnouncementDeps {
	return orchestrators.AnnouncementDeps{
		AnnouncementStore: stores.AnnouncementStore,
		GenerateID:        generateID,
		Now:               timeNow,
	}
}

type announcementInput struct {
	TeamID       string `json:"TeamID"`
	Title        string `json:"Title"`
	Content      string `json:"Content"`
	AuthorName   string `json:"AuthorName"`
	VisibleFrom  string `json:"VisibleFrom"`
	VisibleUntil string `json:"VisibleUntil"`
}

// handleAnnouncements handles GET (list) and POST (create draft) for /api/announcements
// GET shows published, currently visible announcements unless drafts=true.
func handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		teamID, ok := requireQuery(w, r, "team_id")
		if !ok {
			return
		}
		result, err := projections.QueryGetAnnouncements(ctx, projections.GetAnnouncementsQuery{
			TeamID:        teamID,
			Now:           timeNow(),
			IncludeDrafts: r.URL.Query().Get("drafts") == "true",
		}, projections.GetAnnouncementsDeps{AnnouncementStore: stores.AnnouncementStore})
		if err != nil {
			internalError(w, err)
			return
		}
		views := make([]announcementView, 0, len(result.Announcements))
		for _, a := range result.Announcements {
			views = append(views, newAnnouncementView(a))
		}
		writeJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var input announcementInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		from, err := parseBodyTime("VisibleFrom", input.VisibleFrom)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		until, err := parseBodyTime("VisibleUntil", input.VisibleUntil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a, err := orchestrators.ExecuteCreateAnnouncement(ctx, orchestrators.CreateAnnouncementInput{
			TeamID:       input.TeamID,
			Title:        input.Title,
			Content:      input.Content,
			AuthorName:   input.AuthorName,
			VisibleFrom:  from,
			VisibleUntil: until,
		}, announcementDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newAnnouncementView(a))

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleAnnouncementItem handles GET and PUT for /api/announcements/item?id=
func handleAnnouncementItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a, err := stores.AnnouncementStore.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newAnnouncementView(a))

	case http.MethodPut:
		var input announcementInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		from, err := parseBodyTime("VisibleFrom", input.VisibleFrom)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		until, err := parseBodyTime("VisibleUntil", input.VisibleUntil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a, err := orchestrators.ExecuteEditAnnouncement(r.Context(), orchestrators.EditAnnouncementInput{
			AnnouncementID: id,
			Title:          input.Title,
			Content:        input.Content,
			AuthorName:     input.AuthorName,
			VisibleFrom:    from,
			VisibleUntil:   until,
		}, announcementDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newAnnouncementView(a))

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleAnnouncementPublish handles POST /api/announcements/publish
func handleAnnouncementPublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		AnnouncementID string `json:"AnnouncementID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	a, err := orchestrators.ExecutePublishAnnouncement(r.Context(), orchestrators.PublishAnnouncementInput{
		AnnouncementID: input.AnnouncementID,
	}, announcementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnnouncementView(a))
}

// handleAnnouncementPin handles POST /api/announcements/pin
func handleAnnouncementPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		AnnouncementID string `json:"AnnouncementID"`
		Pinned         bool   `json:"Pinned"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	a, err := orchestrators.ExecutePinAnnouncement(r.Context(), orchestrators.PinAnnouncementInput{
		AnnouncementID: input.AnnouncementID,
		Pinned:         input.Pinned,
	}, announcementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnnouncementView(a))
}
