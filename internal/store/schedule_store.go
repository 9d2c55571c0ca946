package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hdnguyen/focusdeck/internal/model"
)

const scheduleColumns = `
	id, title, description, category, priority,
	date, start_time, end_time,
	completed, started,
	missed_notified, auto_block_triggered, auto_blocked,
	created_at, updated_at, started_at, completed_at`

// CreateSchedule validates the record, enforces the no-overlap invariant,
// and inserts it. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateSchedule(ctx context.Context, sched model.Schedule) (string, error) {
	if sched.Priority == "" {
		sched.Priority = model.PriorityMedium
	}
	if sched.Category == "" {
		sched.Category = "Other"
	}
	if err := sched.Validate(); err != nil {
		return "", err
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}

	conflicts, err := s.findConflicts(ctx, sched, "")
	if err != nil {
		return "", err
	}
	if len(conflicts) > 0 {
		return "", &ConflictError{Conflicts: conflicts}
	}

	now := time.Now().UTC()
	sched.CreatedAt = now
	sched.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.ID, sched.Title, sched.Description, sched.Category, sched.Priority,
		sched.Date, sched.StartTime, sched.EndTime,
		boolToInt(false), boolToInt(false),
		boolToInt(false), boolToInt(false), boolToInt(false),
		sched.CreatedAt, sched.UpdatedAt, nil, nil,
	)
	if err != nil {
		return "", fmt.Errorf("creating schedule: %w", err)
	}
	return sched.ID, nil
}

// UpdateSchedule rewrites the descriptive and window fields of a schedule,
// re-validating the overlap invariant with the record itself excluded.
// The lifecycle flags are not touched here; use the Mark* methods.
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, sched model.Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	conflicts, err := s.findConflicts(ctx, sched, sched.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET
			title = ?, description = ?, category = ?, priority = ?,
			date = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?`,
		sched.Title, sched.Description, sched.Category, sched.Priority,
		sched.Date, sched.StartTime, sched.EndTime, time.Now().UTC(),
		sched.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	return requireRow(result, "schedule", sched.ID)
}

// DeleteSchedule removes a schedule and its emitted notifications.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	if err := requireRow(result, "schedule", id); err != nil {
		return err
	}
	if err := s.DeleteNotificationsForSchedule(ctx, id); err != nil {
		return err
	}
	return nil
}

// GetScheduleByID fetches a single schedule.
func (s *SQLiteStore) GetScheduleByID(ctx context.Context, id string) (*model.Schedule, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id)

	sched, err := scanScheduleRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "schedule", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

// GetSchedules returns schedules matching the filter, ordered by date
// then start time.
func (s *SQLiteStore) GetSchedules(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error) {
	var (
		where []string
		args  []any
	)

	if filter.Date != nil {
		where = append(where, "date = ?")
		args = append(args, *filter.Date)
	}
	if filter.From != nil {
		where = append(where, "date >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, "date <= ?")
		args = append(args, *filter.To)
	}
	if filter.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}

	query := "SELECT " + scheduleColumns + " FROM schedules"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, start_time"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	return schedules, rows.Err()
}

// MarkStarted records the user acknowledging the schedule's start. It
// clears both auto-block flags so missed escalation stops.
func (s *SQLiteStore) MarkStarted(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET
			started = 1, started_at = ?,
			auto_block_triggered = 0, auto_blocked = 0, missed_notified = 0,
			updated_at = ?
		WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking schedule started: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// MarkCompleted records explicit completion, terminal for notification
// purposes. It clears both auto-block flags.
func (s *SQLiteStore) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET
			completed = 1, completed_at = ?,
			auto_block_triggered = 0, auto_blocked = 0, missed_notified = 0,
			updated_at = ?
		WHERE id = ?`,
		at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking schedule completed: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// SetAutoBlockTriggered flips the auto-block trigger flag.
func (s *SQLiteStore) SetAutoBlockTriggered(ctx context.Context, id string, triggered bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET auto_block_triggered = ?, updated_at = ? WHERE id = ?",
		boolToInt(triggered), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting auto_block_triggered: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// SetAutoBlocked flips the auto-blocked flag.
func (s *SQLiteStore) SetAutoBlocked(ctx context.Context, id string, blocked bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET auto_blocked = ?, updated_at = ? WHERE id = ?",
		boolToInt(blocked), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting auto_blocked: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// SetMissedNotified flips the missed-notification flag.
func (s *SQLiteStore) SetMissedNotified(ctx context.Context, id string, notified bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET missed_notified = ?, updated_at = ? WHERE id = ?",
		boolToInt(notified), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting missed_notified: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// findConflicts returns schedules on the same date whose [start, end)
// window intersects the candidate's, excluding excludeID.
func (s *SQLiteStore) findConflicts(ctx context.Context, sched model.Schedule, excludeID string) ([]model.Schedule, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT `+scheduleColumns+` FROM schedules
		WHERE date = ? AND id <> ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`,
		sched.Date, excludeID, sched.EndTime, sched.StartTime,
	)
	if err != nil {
		return nil, fmt.Errorf("checking schedule conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []model.Schedule
	for rows.Next() {
		c, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

// requireRow converts a zero-row update into a NotFoundError.
func requireRow(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

// scanSchedule scans a schedule row from a sqlx.Rows result set.
func scanSchedule(rows *sqlx.Rows) (model.Schedule, error) {
	return scanScheduleFrom(rows.Scan)
}

// scanScheduleRow scans a single schedule row from a sqlx.Row.
func scanScheduleRow(row *sqlx.Row) (model.Schedule, error) {
	return scanScheduleFrom(row.Scan)
}

func scanScheduleFrom(scan func(...any) error) (model.Schedule, error) {
	var (
		sched              model.Schedule
		completed          int
		started            int
		missedNotified     int
		autoBlockTriggered int
		autoBlocked        int
		startedAt          sql.NullTime
		completedAt        sql.NullTime
	)

	err := scan(
		&sched.ID, &sched.Title, &sched.Description, &sched.Category, &sched.Priority,
		&sched.Date, &sched.StartTime, &sched.EndTime,
		&completed, &started,
		&missedNotified, &autoBlockTriggered, &autoBlocked,
		&sched.CreatedAt, &sched.UpdatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Schedule{}, err
		}
		return model.Schedule{}, fmt.Errorf("scanning schedule row: %w", err)
	}

	sched.Completed = completed != 0
	sched.Started = started != 0
	sched.MissedNotified = missedNotified != 0
	sched.AutoBlockTriggered = autoBlockTriggered != 0
	sched.AutoBlocked = autoBlocked != 0
	if startedAt.Valid {
		t := startedAt.Time
		sched.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		sched.CompletedAt = &t
	}

	return sched, nil
}
