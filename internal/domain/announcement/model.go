package announcement

import (
	"errors"
	"strings"
	"time"
)

// Announcement statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Max length constants.
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
)

// Domain errors
var (
	ErrEmptyTitle       = errors.New("announcement title cannot be empty")
	ErrTitleTooLong     = errors.New("announcement title cannot exceed 200 characters")
	ErrEmptyContent     = errors.New("announcement content cannot be empty")
	ErrContentTooLong   = errors.New("announcement content cannot exceed 10000 characters")
	ErrEmptyTeamID      = errors.New("announcement team ID cannot be empty")
	ErrInvalidStatus    = errors.New("announcement status must be one of: draft, published")
	ErrInvalidWindow    = errors.New("announcement visible-until cannot be before visible-from")
	ErrAlreadyPinned    = errors.New("announcement is already pinned")
	ErrNotPinned        = errors.New("announcement is not pinned")
	ErrAlreadyPublished = errors.New("announcement is already published")
)

// Announcement is a team-wide message from coaching staff.
// Content is Markdown.
type Announcement struct {
	ID           string
	TeamID       string
	Title        string
	Content      string
	Status       string
	AuthorName   string
	Pinned       bool
	PinnedAt     time.Time
	VisibleFrom  time.Time // zero = immediately
	VisibleUntil time.Time // zero = indefinitely
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublishedAt  time.Time
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.TeamID) == "" {
		return ErrEmptyTeamID
	}
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(a.Content) == "" {
		return ErrEmptyContent
	}
	if len(a.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if a.Status != StatusDraft && a.Status != StatusPublished {
		return ErrInvalidStatus
	}
	if !a.VisibleFrom.IsZero() && !a.VisibleUntil.IsZero() && a.VisibleUntil.Before(a.VisibleFrom) {
		return ErrInvalidWindow
	}
	return nil
}

// IsVisible reports whether the announcement is published and inside its window at now.
func (a *Announcement) IsVisible(now time.Time) bool {
	if a.Status != StatusPublished {
		return false
	}
	if !a.VisibleFrom.IsZero() && now.Before(a.VisibleFrom) {
		return false
	}
	if !a.VisibleUntil.IsZero() && now.After(a.VisibleUntil) {
		return false
	}
	return true
}

// Publish moves a draft to published.
// PRE: status is draft
// POST: Status is published, PublishedAt = now
func (a *Announcement) Publish(now time.Time) error {
	if a.Status == StatusPublished {
		return ErrAlreadyPublished
	}
	a.Status = StatusPublished
	a.PublishedAt = now
	return nil
}

// Pin marks the announcement as pinned.
// PRE: not already pinned
// POST: Pinned is true, PinnedAt is set
func (a *Announcement) Pin(now time.Time) error {
	if a.Pinned {
		return ErrAlreadyPinned
	}
	a.Pinned = true
	a.PinnedAt = now
	return nil
}

// Unpin removes the pinned status.
func (a *Announcement) Unpin() error {
	if !a.Pinned {
		return ErrNotPinned
	}
	a.Pinned = false
	a.PinnedAt = time.Time{}
	return nil
}
