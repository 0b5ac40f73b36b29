package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/domain/announcement"
)

// AnnouncementDeps holds dependencies for announcement orchestrators.
type AnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	GenerateID        func() string
	Now               func() time.Time
}

// --- Create Announcement ---

// CreateAnnouncementInput carries input for the create announcement orchestrator.
type CreateAnnouncementInput struct {
	TeamID       string
	Title        string
	Content      string
	AuthorName   string
	VisibleFrom  time.Time
	VisibleUntil time.Time
}

// ExecuteCreateAnnouncement creates a draft announcement.
// POST: announcement persisted in draft status with generated ID
func ExecuteCreateAnnouncement(ctx context.Context, input CreateAnnouncementInput, deps AnnouncementDeps) (announcement.Announcement, error) {
	a := announcement.Announcement{
		ID:           deps.GenerateID(),
		TeamID:       input.TeamID,
		Title:        input.Title,
		Content:      input.Content,
		Status:       announcement.StatusDraft,
		AuthorName:   input.AuthorName,
		VisibleFrom:  input.VisibleFrom,
		VisibleUntil: input.VisibleUntil,
		CreatedAt:    deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, fmt.Errorf("save announcement: %w", err)
	}
	slog.Info("announcement_event", "event", "announcement_created", "announcement_id", a.ID, "team_id", a.TeamID)
	return a, nil
}

// --- Edit Announcement ---

// EditAnnouncementInput carries input for the edit announcement orchestrator.
// Title and Content are only updated when non-empty; AuthorName and the
// visibility window are always overwritten so they can be cleared.
type EditAnnouncementInput struct {
	AnnouncementID string
	Title          string
	Content        string
	AuthorName     string
	VisibleFrom    time.Time
	VisibleUntil   time.Time
}

// ExecuteEditAnnouncement updates an existing announcement.
// POST: announcement saved with UpdatedAt set
func ExecuteEditAnnouncement(ctx context.Context, input EditAnnouncementInput, deps AnnouncementDeps) (announcement.Announcement, error) {
	if input.AnnouncementID == "" {
		return announcement.Announcement{}, errors.New("announcement ID is required")
	}
	a, err := deps.AnnouncementStore.GetByID(ctx, input.AnnouncementID)
	if err != nil {
		return announcement.Announcement{}, err
	}
	if input.Title != "" {
		a.Title = input.Title
	}
	if input.Content != "" {
		a.Content = input.Content
	}
	a.AuthorName = input.AuthorName
	a.VisibleFrom = input.VisibleFrom
	a.VisibleUntil = input.VisibleUntil
	a.UpdatedAt = deps.Now()

	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, fmt.Errorf("save announcement: %w", err)
	}
	slog.Info("announcement_event", "event", "announcement_edited", "announcement_id", a.ID)
	return a, nil
}

// --- Publish Announcement ---

// PublishAnnouncementInput carries input for the publish orchestrator.
type PublishAnnouncementInput struct {
	AnnouncementID string
}

// ExecutePublishAnnouncement moves a draft to published.
// PRE: announcement is a draft
// POST: Status published, PublishedAt = now
func ExecutePublishAnnouncement(ctx context.Context, input PublishAnnouncementInput, deps AnnouncementDeps) (announcement.Announcement, error) {
	if input.AnnouncementID == "" {
		return announcement.Announcement{}, errors.New("announcement ID is required")
	}
	a, err := deps.AnnouncementStore.GetByID(ctx, input.AnnouncementID)
	if err != nil {
		return announcement.Announcement{}, err
	}
	if err := a.Publish(deps.Now()); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, fmt.Errorf("save announcement: %w", err)
	}
	slog.Info("announcement_event", "event", "announcement_published", "announcement_id", a.ID, "team_id", a.TeamID)
	return a, nil
}

// --- Pin Announcement ---

// PinAnnouncementInput carries input for the pin orchestrator. Pinned=false unpins.
type PinAnnouncementInput struct {
	AnnouncementID string
	Pinned         bool
}

// ExecutePinAnnouncement pins or unpins an announcement.
func ExecutePinAnnouncement(ctx context.Context, input PinAnnouncementInput, deps AnnouncementDeps) (announcement.Announcement, error) {
	if input.AnnouncementID == "" {
		return announcement.Announcement{}, errors.New("announcement ID is required")
	}
	a, err := deps.AnnouncementStore.GetByID(ctx, input.AnnouncementID)
	if err != nil {
		return announcement.Announcement{}, err
	}
	event := "announcement_pinned"
	if input.Pinned {
		err = a.Pin(deps.Now())
	} else {
		err = a.Unpin()
		event = "announcement_unpinned"
	}
	if err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, fmt.Errorf("save announcement: %w", err)
	}
	slog.Info("announcement_event", "event", event, "announcement_id", a.ID)
	return a, nil
}
