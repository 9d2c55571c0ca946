// Package notify dispatches best-effort desktop alerts. Dispatch must
// never fail into the evaluation loop: when the desktop bus is
// unavailable the alert degrades to a log line.
package notify

import (
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/hdnguyen/focusdeck/internal/model"
)

// Dispatcher delivers a user-facing alert. Implementations are
// fire-and-forget and must not panic or return errors to callers.
type Dispatcher interface {
	Notify(title, message, severity string, duration time.Duration)
}

// DesktopDispatcher sends native desktop notifications.
type DesktopDispatcher struct {
	logger *slog.Logger
}

// NewDesktopDispatcher creates a desktop dispatcher logging delivery
// failures to logger.
func NewDesktopDispatcher(logger *slog.Logger) *DesktopDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DesktopDispatcher{logger: logger}
}

// Notify shows a desktop notification. Critical and high severities use
// the platform's alert style.
func (d *DesktopDispatcher) Notify(title, message, severity string, duration time.Duration) {
	var err error
	switch severity {
	case model.SeverityCritical, model.SeverityHigh:
		err = beeep.Alert(title, message, "")
	default:
		err = beeep.Notify(title, message, "")
	}
	if err != nil {
		d.logger.Debug("desktop notification failed",
			"title", title, "severity", severity, "error", err)
	}
}

// LogDispatcher writes alerts to the logger only; used when no desktop
// session exists and in tests.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

// Notify logs the alert.
func (d *LogDispatcher) Notify(title, message, severity string, duration time.Duration) {
	d.logger.Info("notification", "title", title, "message", message, "severity", severity)
}

// AlertCopy returns the desktop alert title and body for a notification
// kind emitted for the given schedule.
func AlertCopy(kind model.NotificationKind, s model.Schedule) (title, message string) {
	switch kind {
	case model.KindTenMinWarning:
		return "Upcoming Schedule", s.Title + " starts in 10 minutes at " + s.StartTime
	case model.KindFiveMinWarning:
		return "Starting Soon", s.Title + " starts in 5 minutes. Get ready!"
	case model.KindStartNow:
		return "Start Now", s.Title + " is starting. Open the dashboard and press start."
	case model.KindJustMissed:
		return "Schedule Missed", s.Title + " already started. Start it now."
	case model.KindMissedFiveMin:
		return "Running Late", s.Title + " started over 5 minutes ago. Sites will be blocked soon."
	case model.KindAutoBlock:
		return "Focus Mode Engaged", s.Title + " was missed. Distracting sites are now blocked."
	default:
		return s.Title, "Schedule update"
	}
}

// AlertDuration suggests how long an alert for the severity should stay
// on screen. Dispatchers treat it as a hint.
func AlertDuration(severity string) time.Duration {
	switch severity {
	case model.SeverityCritical, model.SeverityHigh:
		return 20 * time.Second
	default:
		return 10 * time.Second
	}
}
