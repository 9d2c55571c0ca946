package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
)

// CreateNotificationIfAbsent inserts n unless a notification with the
// same deterministic id already exists. The primary key makes the
// existence check O(1) and immune to duplicate insertion between
// overlapping evaluation passes.
func (s *SQLiteStore) CreateNotificationIfAbsent(ctx context.Context, n model.Notification) (bool, error) {
	if n.ID == "" {
		n.ID = model.NotificationID(n.Kind, n.ScheduleID)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notifications
			(id, schedule_id, title, kind, severity, message, time_diff, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.ScheduleID, n.Title, string(n.Kind), n.Severity, n.Message,
		n.TimeDiff, boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("creating notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetNotifications retrieves notifications, optionally only unread ones,
// ordered by creation time ascending so first-seen events come first.
func (s *SQLiteStore) GetNotifications(ctx context.Context, unreadOnly bool) ([]model.Notification, error) {
	query := `
		SELECT id, schedule_id, title, kind, severity, message, time_diff, read, created_at
		FROM notifications`
	if unreadOnly {
		query += " WHERE read = 0"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			kind string
			read int
		)
		err := rows.Scan(
			&n.ID, &n.ScheduleID, &n.Title, &kind, &n.Severity,
			&n.Message, &n.TimeDiff, &read, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Kind = model.NotificationKind(kind)
		n.Read = read != 0
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return requireRow(result, "notification", id)
}

// MarkAllNotificationsRead dismisses every unread notification.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// UnreadNotificationCount returns the number of unread notifications.
func (s *SQLiteStore) UnreadNotificationCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE read = 0")
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// DeleteNotificationsForSchedule removes every notification emitted for
// the given schedule.
func (s *SQLiteStore) DeleteNotificationsForSchedule(ctx context.Context, scheduleID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE schedule_id = ?", scheduleID)
	if err != nil {
		return fmt.Errorf("deleting notifications for schedule %s: %w", scheduleID, err)
	}
	return nil
}

// PruneNotifications deletes notifications created before cutoff and
// returns how many rows were removed.
func (s *SQLiteStore) PruneNotifications(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning notifications: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return int(affected), nil
}
