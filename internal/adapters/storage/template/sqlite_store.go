package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/adapters/storage"
	"practiceplan/internal/domain/practice"
	domain "practiceplan/internal/domain/template"
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

const templateColumns = `id, team_id, name, description, duration_minutes, activities, created_at, updated_at`

// activityRow is the JSON shape of one activity inside template.activities.
type activityRow struct {
	Name     string   `json:"name"`
	Duration int      `json:"duration_minutes"`
	Notes    string   `json:"notes,omitempty"`
	TagIDs   []string `json:"tag_ids,omitempty"`
}

// GetByID retrieves a template by ID.
// PRE: id is non-empty
// POST: returns the template, or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM template WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return domain.Template{}, fmt.Errorf("template not found: %w", err)
	}
	return t, err
}

// Save inserts or updates a template.
// PRE: template has been validated
func (s *SQLiteStore) Save(ctx context.Context, t domain.Template) error {
	rows := make([]activityRow, len(t.Activities))
	for i, a := range t.Activities {
		rows[i] = activityRow{Name: a.Name, Duration: a.DurationMinutes, Notes: a.Notes, TagIDs: a.TagIDs}
	}
	acts, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO template (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_id=excluded.team_id, name=excluded.name, description=excluded.description,
		   duration_minutes=excluded.duration_minutes, activities=excluded.activities,
		   created_at=excluded.created_at, updated_at=excluded.updated_at`,
		t.ID, t.TeamID, t.Name, t.Description, t.DurationMinutes, string(acts),
		t.CreatedAt.UTC().Format(timeLayout), nullableTime(t.UpdatedAt))
	return err
}

// Delete removes a template by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM template WHERE id = ?`, id)
	return err
}

// List returns a team's templates ordered by name.
func (s *SQLiteStore) List(ctx context.Context, teamID string) ([]domain.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM template WHERE team_id = ? ORDER BY name COLLATE NOCASE, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (domain.Template, error) {
	var t domain.Template
	var acts, createdAt string
	var updatedAt sql.NullString
	if err := row.Scan(&t.ID, &t.TeamID, &t.Name, &t.Description, &t.DurationMinutes,
		&acts, &createdAt, &updatedAt); err != nil {
		return domain.Template{}, err
	}
	var decoded []activityRow
	if err := json.Unmarshal([]byte(acts), &decoded); err != nil {
		slog.Warn("template: failed to decode activities", "template_id", t.ID, "error", err)
	}
	for _, a := range decoded {
		t.Activities = append(t.Activities, practice.Activity{
			Name: a.Name, DurationMinutes: a.Duration, Notes: a.Notes, TagIDs: a.TagIDs,
		})
	}
	t.CreatedAt = parseTime(createdAt, "created_at", t.ID)
	if updatedAt.Valid {
		t.UpdatedAt = parseTime(updatedAt.String, "updated_at", t.ID)
	}
	return t, nil
}

func parseTime(raw, field, id string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("template: failed to parse time", "field", field, "id", id, "raw", raw, "error", err)
	}
	return t
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
