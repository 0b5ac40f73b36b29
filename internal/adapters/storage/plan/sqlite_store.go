package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"practiceplan/internal/adapters/storage"
	domain "practiceplan/internal/domain/practice"
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

const planColumns = `id, team_id, title, notes, start_ms, end_ms, duration_minutes, series_id, created_at, updated_at`

// GetByID retrieves a plan and its activities.
// PRE: id is non-empty
// POST: returns the plan, or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plan WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return domain.Plan{}, fmt.Errorf("plan not found: %w", err)
	}
	if err != nil {
		return domain.Plan{}, err
	}
	acts, err := s.loadActivities(ctx, []string{p.ID})
	if err != nil {
		return domain.Plan{}, err
	}
	p.Activities = acts[p.ID]
	return p, nil
}

// Save upserts the plan and replaces its activity list in one transaction.
// PRE: plan has been validated
// POST: plan row and activities reflect value
func (s *SQLiteStore) Save(ctx context.Context, p domain.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plan (`+planColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_id=excluded.team_id, title=excluded.title, notes=excluded.notes,
		   start_ms=excluded.start_ms, end_ms=excluded.end_ms, duration_minutes=excluded.duration_minutes,
		   series_id=excluded.series_id, created_at=excluded.created_at, updated_at=excluded.updated_at`,
		p.ID, p.TeamID, p.Title, p.Notes, p.StartTime.UnixMilli(), p.EndTime.UnixMilli(),
		p.DurationMinutes, nullableString(p.SeriesID),
		p.CreatedAt.UTC().Format(timeLayout), nullableTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_activity WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	for i, a := range p.Activities {
		tags, err := encodeTagIDs(a.TagIDs)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_activity (plan_id, position, name, duration_minutes, notes, tag_ids)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, i, a.Name, a.DurationMinutes, a.Notes, tags); err != nil {
			return fmt.Errorf("insert activity %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Delete removes a plan and its activities.
// PRE: id is non-empty
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_activity WHERE plan_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSeries removes every plan sharing seriesID and returns how many were removed.
// PRE: seriesID is non-empty
func (s *SQLiteStore) DeleteSeries(ctx context.Context, seriesID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM plan_activity WHERE plan_id IN (SELECT id FROM plan WHERE series_id = ?)`, seriesID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM plan WHERE series_id = ?`, seriesID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

// whereClause builds the WHERE fragment shared by List and Count.
func whereClause(filter ListFilter) (string, []any) {
	clause := ` WHERE 1=1`
	args := []any{}
	if filter.TeamID != "" {
		clause += ` AND team_id = ?`
		args = append(args, filter.TeamID)
	}
	if !filter.From.IsZero() {
		clause += ` AND start_ms >= ?`
		args = append(args, filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		clause += ` AND start_ms < ?`
		args = append(args, filter.To.UnixMilli())
	}
	if !filter.ActiveAt.IsZero() {
		ms := filter.ActiveAt.UnixMilli()
		clause += ` AND start_ms <= ? AND end_ms >= ?`
		args = append(args, ms, ms)
	}
	if filter.SeriesID != "" {
		clause += ` AND series_id = ?`
		args = append(args, filter.SeriesID)
	}
	return clause, args
}

// List returns plans matching the filter with their activities.
// POST: ordered by start time, then ID
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Plan, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + planColumns + ` FROM plan` + where + ` ORDER BY start_ms ASC, id ASC`
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
	plans, err := scanPlans(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return plans, nil
	}

	ids := make([]string, len(plans))
	for i := range plans {
		ids[i] = plans[i].ID
	}
	acts, err := s.loadActivities(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Activities = acts[plans[i].ID]
	}
	return plans, nil
}

// Count returns the number of plans matching the filter, ignoring Limit/Offset.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan`+where, args...).Scan(&n)
	return n, err
}

// loadActivities fetches activities for the given plans keyed by plan ID, in position order.
func (s *SQLiteStore) loadActivities(ctx context.Context, planIDs []string) (map[string][]domain.Activity, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(planIDs)), ",")
	args := make([]any, len(planIDs))
	for i, id := range planIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT plan_id, name, duration_minutes, notes, tag_ids FROM plan_activity
		 WHERE plan_id IN (`+placeholders+`) ORDER BY plan_id, position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Activity, len(planIDs))
	for rows.Next() {
		var planID, tags string
		var a domain.Activity
		if err := rows.Scan(&planID, &a.Name, &a.DurationMinutes, &a.Notes, &tags); err != nil {
			return nil, err
		}
		a.TagIDs = decodeTagIDs(tags, planID)
		out[planID] = append(out[planID], a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan scans one plan row. Activities are loaded separately.
func scanPlan(row rowScanner) (domain.Plan, error) {
	var p domain.Plan
	var startMs, endMs int64
	var seriesID, updatedAt sql.NullString
	var createdAt string

	if err := row.Scan(&p.ID, &p.TeamID, &p.Title, &p.Notes, &startMs, &endMs,
		&p.DurationMinutes, &seriesID, &createdAt, &updatedAt); err != nil {
		return domain.Plan{}, err
	}
	p.StartTime = time.UnixMilli(startMs).UTC()
	p.EndTime = time.UnixMilli(endMs).UTC()
	p.SeriesID = seriesID.String
	p.CreatedAt = parseTime(createdAt, "created_at", p.ID)
	if updatedAt.Valid {
		p.UpdatedAt = parseTime(updatedAt.String, "updated_at", p.ID)
	}
	return p, nil
}

func scanPlans(rows *sql.Rows) ([]domain.Plan, error) {
	var plans []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func encodeTagIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode tag ids: %w", err)
	}
	return string(b), nil
}

// decodeTagIDs parses the stored JSON array, logging and dropping malformed values.
func decodeTagIDs(raw, planID string) []string {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("plan: failed to decode tag ids", "plan_id", planID, "raw", raw, "error", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// parseTime parses a stored timestamp, logging a warning on failure.
func parseTime(raw, field, planID string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("plan: failed to parse time", "field", field, "plan_id", planID, "raw", raw, "error", err)
	}
	return t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
