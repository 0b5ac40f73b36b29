package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"practiceplan/internal/adapters/storage"
	domain "practiceplan/internal/domain/template"
)

// SQLitePeriodStore implements PeriodStore using SQLite.
type SQLitePeriodStore struct {
	db storage.SQLDB
}

// NewSQLitePeriodStore creates a new SQLitePeriodStore.
func NewSQLitePeriodStore(db storage.SQLDB) *SQLitePeriodStore {
	return &SQLitePeriodStore{db: db}
}

const periodColumns = `id, team_id, name, duration_minutes, notes, tag_ids, created_at`

// GetByID retrieves a period by ID.
// POST: returns the period, or an error wrapping sql.ErrNoRows
func (s *SQLitePeriodStore) GetByID(ctx context.Context, id string) (domain.Period, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+periodColumns+` FROM period WHERE id = ?`, id)
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return domain.Period{}, fmt.Errorf("period not found: %w", err)
	}
	return p, err
}

// Save inserts or updates a period.
// PRE: period has been validated
func (s *SQLitePeriodStore) Save(ctx context.Context, p domain.Period) error {
	tags := []string{}
	if p.TagIDs != nil {
		tags = p.TagIDs
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tag ids: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO period (`+periodColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_id=excluded.team_id, name=excluded.name, duration_minutes=excluded.duration_minutes,
		   notes=excluded.notes, tag_ids=excluded.tag_ids, created_at=excluded.created_at`,
		p.ID, p.TeamID, p.Name, p.DurationMinutes, p.Notes, string(encoded),
		p.CreatedAt.UTC().Format(timeLayout))
	return err
}

// Delete removes a period by ID.
func (s *SQLitePeriodStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM period WHERE id = ?`, id)
	return err
}

// List returns a team's periods ordered by name.
func (s *SQLitePeriodStore) List(ctx context.Context, teamID string) ([]domain.Period, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+periodColumns+` FROM period WHERE team_id = ? ORDER BY name COLLATE NOCASE, id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPeriod(row rowScanner) (domain.Period, error) {
	var p domain.Period
	var tags, createdAt string
	if err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.DurationMinutes, &p.Notes, &tags, &createdAt); err != nil {
		return domain.Period{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.TagIDs); err != nil {
		slog.Warn("period: failed to decode tag ids", "period_id", p.ID, "error", err)
	}
	if len(p.TagIDs) == 0 {
		p.TagIDs = nil
	}
	p.CreatedAt = parseTime(createdAt, "created_at", p.ID)
	return p, nil
}
