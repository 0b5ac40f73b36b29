package announcement

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/adapters/storage"
	domain "practiceplan/internal/domain/announcement"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const announcementColumns = `id, team_id, title, content, status, author_name, pinned, pinned_at,
		visible_from, visible_until, created_at, updated_at, published_at`

// GetByID retrieves an announcement by ID.
// PRE: id is non-empty
// POST: returns the entity, or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcement WHERE id = ?`, id)
	a, err := scanAnnouncement(row)
	if err == sql.ErrNoRows {
		return domain.Announcement{}, fmt.Errorf("announcement not found: %w", err)
	}
	return a, err
}

// Save inserts or updates an announcement.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, a domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcement (id, team_id, title, content, status, author_name, pinned, pinned_at,
		   visible_from, visible_until, created_at, updated_at, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_id=excluded.team_id, title=excluded.title, content=excluded.content, status=excluded.status,
		   author_name=excluded.author_name, pinned=excluded.pinned, pinned_at=excluded.pinned_at,
		   visible_from=excluded.visible_from, visible_until=excluded.visible_until,
		   created_at=excluded.created_at, updated_at=excluded.updated_at, published_at=excluded.published_at`,
		a.ID, a.TeamID, a.Title, a.Content, a.Status, a.AuthorName, boolToInt(a.Pinned),
		nullableTime(a.PinnedAt), nullableTime(a.VisibleFrom), nullableTime(a.VisibleUntil),
		a.CreatedAt.UTC().Format(timeLayout), nullableTime(a.UpdatedAt), nullableTime(a.PublishedAt))
	return err
}

// Delete removes an announcement by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = ?`, id)
	return err
}

// List returns announcements matching the filter.
// POST: pinned first (most recently pinned), then newest first
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcement WHERE 1=1`
	args := []any{}

	if filter.TeamID != "" {
		query += ` AND team_id = ?`
		args = append(args, filter.TeamID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY pinned DESC, pinned_at DESC, created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncements(rows)
}

// ListPublished returns a team's published announcements visible at now.
// POST: pinned first, then by published_at DESC
func (s *SQLiteStore) ListPublished(ctx context.Context, teamID string, now time.Time) ([]domain.Announcement, error) {
	nowStr := now.UTC().Format(timeLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+announcementColumns+`
		 FROM announcement WHERE status = ? AND team_id = ?
		 AND (visible_from IS NULL OR visible_from <= ?)
		 AND (visible_until IS NULL OR visible_until >= ?)
		 ORDER BY pinned DESC, pinned_at DESC, published_at DESC, id`,
		domain.StatusPublished, teamID, nowStr, nowStr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnouncements(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (domain.Announcement, error) {
	var a domain.Announcement
	var pinned int
	var pinnedAt, visibleFrom, visibleUntil, updatedAt, publishedAt sql.NullString
	var createdAt string

	if err := row.Scan(&a.ID, &a.TeamID, &a.Title, &a.Content, &a.Status, &a.AuthorName,
		&pinned, &pinnedAt, &visibleFrom, &visibleUntil, &createdAt, &updatedAt, &publishedAt); err != nil {
		return domain.Announcement{}, err
	}
	a.Pinned = pinned != 0
	a.CreatedAt = parseTime(createdAt, "created_at", a.ID)
	a.PinnedAt = parseNullableTime(pinnedAt, "pinned_at", a.ID)
	a.VisibleFrom = parseNullableTime(visibleFrom, "visible_from", a.ID)
	a.VisibleUntil = parseNullableTime(visibleUntil, "visible_until", a.ID)
	a.UpdatedAt = parseNullableTime(updatedAt, "updated_at", a.ID)
	a.PublishedAt = parseNullableTime(publishedAt, "published_at", a.ID)
	return a, nil
}

func scanAnnouncements(rows *sql.Rows) ([]domain.Announcement, error) {
	var out []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// parseTime parses a time string, logging a warning on failure.
func parseTime(raw, field, id string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("announcement: failed to parse time", "field", field, "announcement_id", id, "raw", raw, "error", err)
	}
	return t
}

func parseNullableTime(ns sql.NullString, field, id string) time.Time {
	if !ns.Valid {
		return time.Time{}
	}
	return parseTime(ns.String, field, id)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
