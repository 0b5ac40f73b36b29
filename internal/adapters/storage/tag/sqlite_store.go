package tag

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"practiceplan/internal/adapters/storage"
	domain "practiceplan/internal/domain/tag"
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

const tagColumns = `id, team_id, name, color, created_at`

// GetByID retrieves a tag by ID.
// PRE: id is non-empty
// POST: returns the tag, or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tag WHERE id = ?`, id)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return domain.Tag{}, fmt.Errorf("tag not found: %w", err)
	}
	return t, err
}

// GetByName looks a tag up by name within a team, ignoring case.
func (s *SQLiteStore) GetByName(ctx context.Context, teamID, name string) (domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tag WHERE team_id = ? AND name = ? COLLATE NOCASE`,
		teamID, domain.NormalizeName(name))
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return domain.Tag{}, fmt.Errorf("tag %q not found: %w", name, err)
	}
	return t, err
}

// Save inserts or updates a tag.
// PRE: tag has been validated
// POST: returns domain.ErrDuplicate if the team already has a tag with that name
func (s *SQLiteStore) Save(ctx context.Context, t domain.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tag (`+tagColumns+`) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_id=excluded.team_id, name=excluded.name, color=excluded.color, created_at=excluded.created_at`,
		t.ID, t.TeamID, domain.NormalizeName(t.Name), t.Color, t.CreatedAt.UTC().Format(timeLayout))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicate
	}
	return err
}

// Delete removes a tag by ID. Activities keep the dangling ID; readers skip it.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tag WHERE id = ?`, id)
	return err
}

// List returns a team's tags ordered by name.
func (s *SQLiteStore) List(ctx context.Context, teamID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tag WHERE team_id = ? ORDER BY name COLLATE NOCASE, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (domain.Tag, error) {
	var t domain.Tag
	var createdAt string
	if err := row.Scan(&t.ID, &t.TeamID, &t.Name, &t.Color, &createdAt); err != nil {
		return domain.Tag{}, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		slog.Warn("tag: failed to parse time", "field", "created_at", "tag_id", t.ID, "raw", createdAt, "error", err)
	}
	t.CreatedAt = parsed
	return t, nil
}
