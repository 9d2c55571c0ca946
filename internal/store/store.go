package store

import (
	"context"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
)

// ScheduleFilter controls filtering for schedule queries. Results are
// always ordered by date then start time.
type ScheduleFilter struct {
	// Date restricts results to a single calendar date (DateLayout form).
	Date *string

	// From/To restrict results to an inclusive date range.
	From *string
	To   *string

	// Completed filters on completion state; nil returns all.
	Completed *bool

	Limit  int
	Offset int
}

// Store defines the persistence interface for schedules and their
// emitted notifications.
type Store interface {
	// === Schedules ===

	// CreateSchedule validates the record, rejects overlapping windows
	// with a ConflictError, and returns the assigned id.
	CreateSchedule(ctx context.Context, s model.Schedule) (string, error)

	// UpdateSchedule re-validates the overlap invariant against the new
	// window, excluding the record itself.
	UpdateSchedule(ctx context.Context, s model.Schedule) error

	DeleteSchedule(ctx context.Context, id string) error
	GetScheduleByID(ctx context.Context, id string) (*model.Schedule, error)
	GetSchedules(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error)

	// MarkStarted acknowledges the user starting the schedule; it clears
	// both auto-block flags.
	MarkStarted(ctx context.Context, id string, at time.Time) error

	// MarkCompleted is terminal for notification purposes; it clears
	// both auto-block flags.
	MarkCompleted(ctx context.Context, id string, at time.Time) error

	SetAutoBlockTriggered(ctx context.Context, id string, triggered bool) error
	SetAutoBlocked(ctx context.Context, id string, blocked bool) error
	SetMissedNotified(ctx context.Context, id string, notified bool) error

	// === Notifications ===

	// CreateNotificationIfAbsent inserts n unless a notification with
	// the same deterministic id already exists. It reports whether a row
	// was inserted.
	CreateNotificationIfAbsent(ctx context.Context, n model.Notification) (bool, error)

	GetNotifications(ctx context.Context, unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadNotificationCount(ctx context.Context) (int, error)

	// DeleteNotificationsForSchedule removes every notification emitted
	// for a schedule, letting a re-entered window fire again after the
	// schedule is edited or deleted.
	DeleteNotificationsForSchedule(ctx context.Context, scheduleID string) error

	// PruneNotifications deletes notifications created before cutoff and
	// returns how many were removed.
	PruneNotifications(ctx context.Context, cutoff time.Time) (int, error)
}
