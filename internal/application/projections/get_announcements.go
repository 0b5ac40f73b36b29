package projections

import (
	"context"
	"errors"
	"time"

	announcementstore "practiceplan/internal/adapters/storage/announcement"
	"practiceplan/internal/domain/announcement"
)

// GetAnnouncementsQuery carries query parameters. Without IncludeDrafts only
// published announcements visible at Now are returned.
type GetAnnouncementsQuery struct {
	TeamID        string
	Now           time.Time
	IncludeDrafts bool
}

// GetAnnouncementsResult carries announcements, pinned first.
type GetAnnouncementsResult struct {
	Announcements []announcement.Announcement
	PinnedCount   int
}

// GetAnnouncementsDeps holds dependencies for GetAnnouncements.
type GetAnnouncementsDeps struct {
	AnnouncementStore AnnouncementStore
}

// QueryGetAnnouncements lists a team's announcements.
// POST: pinned announcements precede unpinned ones
func QueryGetAnnouncements(ctx context.Context, query GetAnnouncementsQuery, deps GetAnnouncementsDeps) (GetAnnouncementsResult, error) {
	if query.TeamID == "" {
		return GetAnnouncementsResult{}, errors.New("team ID is required")
	}
	var (
		list []announcement.Announcement
		err  error
	)
	if query.IncludeDrafts {
		list, err = deps.AnnouncementStore.List(ctx, announcementstore.ListFilter{TeamID: query.TeamID})
	} else {
		list, err = deps.AnnouncementStore.ListPublished(ctx, query.TeamID, query.Now)
	}
	if err != nil {
		return GetAnnouncementsResult{}, err
	}
	res := GetAnnouncementsResult{Announcements: list}
	for _, a := range list {
		if a.Pinned {
			res.PinnedCount++
		}
	}
	return res, nil
}
