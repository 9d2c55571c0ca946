package model

import (
	"fmt"
	"sort"
	"time"
)

// NotificationKind classifies the temporal state a notification reports.
type NotificationKind string

const (
	KindTenMinWarning  NotificationKind = "10min_warning"
	KindFiveMinWarning NotificationKind = "5min_warning"
	KindStartNow       NotificationKind = "start_now"
	KindJustMissed     NotificationKind = "just_missed"
	KindMissedFiveMin  NotificationKind = "missed_5min"
	KindAutoBlock      NotificationKind = "auto_block"
)

// Notification severities, from informational to critical.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityUrgent   = "urgent"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// kindSeverity maps each notification kind to its severity label.
var kindSeverity = map[NotificationKind]string{
	KindTenMinWarning:  SeverityInfo,
	KindFiveMinWarning: SeverityWarning,
	KindStartNow:       SeverityUrgent,
	KindJustMissed:     SeverityWarning,
	KindMissedFiveMin:  SeverityHigh,
	KindAutoBlock:      SeverityCritical,
}

// kindDisplayRank orders kinds for display: critical first, then late,
// start, soon, upcoming.
var kindDisplayRank = map[NotificationKind]int{
	KindAutoBlock:      0,
	KindMissedFiveMin:  1,
	KindJustMissed:     2,
	KindStartNow:       3,
	KindFiveMinWarning: 4,
	KindTenMinWarning:  5,
}

// Notification is an evaluator-emitted event describing a schedule's
// temporal state. Its ID is deterministic per (schedule, kind) pair and
// serves as the sole deduplication key.
type Notification struct {
	ID         string           `json:"id" db:"id"`
	ScheduleID string           `json:"schedule_id" db:"schedule_id"`
	Title      string           `json:"title" db:"title"`
	Kind       NotificationKind `json:"kind" db:"kind"`
	Severity   string           `json:"severity" db:"severity"`
	Message    string           `json:"message" db:"message"`

	// TimeDiff is minutes from now until the schedule's start at emission
	// time; negative values are in the past.
	TimeDiff float64 `json:"time_diff" db:"time_diff"`

	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationID builds the deterministic deduplication key for a
// (schedule, kind) pair.
func NotificationID(kind NotificationKind, scheduleID string) string {
	return fmt.Sprintf("%s_%s", kind, scheduleID)
}

// NewNotification builds the notification a schedule produces for kind at
// the given instant.
func NewNotification(s Schedule, kind NotificationKind, timeDiff float64, now time.Time) Notification {
	return Notification{
		ID:         NotificationID(kind, s.ID),
		ScheduleID: s.ID,
		Title:      s.Title,
		Kind:       kind,
		Severity:   kindSeverity[kind],
		Message:    notificationMessage(kind, s.Title, timeDiff),
		TimeDiff:   timeDiff,
		CreatedAt:  now,
	}
}

// DisplayRank returns the sort rank of the notification for display;
// lower ranks come first.
func (n Notification) DisplayRank() int {
	if rank, ok := kindDisplayRank[n.Kind]; ok {
		return rank
	}
	return len(kindDisplayRank)
}

// SortForDisplay orders notifications in place by display rank, breaking
// ties oldest-first so earlier events keep their position.
func SortForDisplay(notifications []Notification) {
	sort.SliceStable(notifications, func(i, j int) bool {
		ri, rj := notifications[i].DisplayRank(), notifications[j].DisplayRank()
		if ri != rj {
			return ri < rj
		}
		return notifications[i].CreatedAt.Before(notifications[j].CreatedAt)
	})
}

func notificationMessage(kind NotificationKind, title string, timeDiff float64) string {
	late := int(-timeDiff)
	switch kind {
	case KindTenMinWarning:
		return fmt.Sprintf("Upcoming: %s starts in 10 minutes", title)
	case KindFiveMinWarning:
		return fmt.Sprintf("Soon: %s starts in 5 minutes, get ready", title)
	case KindStartNow:
		return fmt.Sprintf("Start now: %s", title)
	case KindJustMissed:
		return fmt.Sprintf("%s started %d minutes ago", title, late)
	case KindMissedFiveMin:
		return fmt.Sprintf("Late: %s started %d minutes ago. Start now or sites will be blocked", title, late)
	case KindAutoBlock:
		return fmt.Sprintf("Auto-blocking: %s missed by %d minutes", title, late)
	default:
		return title
	}
}
