// Package engine implements the schedule notification evaluator and the
// auto-block trigger. Both are driven by an injected clock and operate
// only through the store and collaborator interfaces handed to them; no
// ambient state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/notify"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// DefaultRecheckInterval bounds how often a full evaluation pass runs.
const DefaultRecheckInterval = 30 * time.Second

// Config assembles an Evaluator's collaborators.
type Config struct {
	Store      store.Store
	Dispatcher notify.Dispatcher

	// Now supplies the wall clock; defaults to time.Now. Tests inject a
	// virtual clock here.
	Now func() time.Time

	// RecheckInterval short-circuits Evaluate calls arriving sooner than
	// this after the previous pass. Zero means DefaultRecheckInterval;
	// negative disables the bound.
	RecheckInterval time.Duration

	Logger *slog.Logger
}

// Evaluator scans today's schedules against the current time and emits
// at most one notification per (schedule, kind) dwell window.
type Evaluator struct {
	store      store.Store
	dispatcher notify.Dispatcher
	now        func() time.Time
	recheck    time.Duration
	lastCheck  time.Time
	logger     *slog.Logger
}

// NewEvaluator creates an evaluator from cfg. The store is required.
func NewEvaluator(cfg Config) *Evaluator {
	e := &Evaluator{
		store:      cfg.Store,
		dispatcher: cfg.Dispatcher,
		now:        cfg.Now,
		recheck:    cfg.RecheckInterval,
		logger:     cfg.Logger,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.recheck == 0 {
		e.recheck = DefaultRecheckInterval
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Evaluate runs one pass over today's schedules and returns the
// notifications newly emitted by this pass. A pass arriving within the
// re-check interval of the previous one returns nil without touching the
// store. Single bad records are skipped, never fatal: this runs inside a
// refresh loop that must stay live.
func (e *Evaluator) Evaluate(ctx context.Context) ([]model.Notification, error) {
	now := e.now()
	if e.recheck > 0 && !e.lastCheck.IsZero() && now.Sub(e.lastCheck) < e.recheck {
		return nil, nil
	}

	today := now.Format(model.DateLayout)
	notCompleted := false
	schedules, err := e.store.GetSchedules(ctx, store.ScheduleFilter{
		Date:      &today,
		Completed: &notCompleted,
	})
	if err != nil {
		// A failed load must not start the quiet interval; the next call
		// retries immediately.
		return nil, fmt.Errorf("loading today's schedules: %w", err)
	}
	e.lastCheck = now

	var emitted []model.Notification
	for _, sched := range schedules {
		if !sched.Active() {
			e.logger.Warn("skipping malformed schedule", "id", sched.ID, "title", sched.Title)
			continue
		}

		startAt, err := sched.StartsAt(now.Location())
		if err != nil {
			e.logger.Warn("skipping schedule with unparseable start",
				"id", sched.ID, "error", err)
			continue
		}

		diff := startAt.Sub(now).Minutes()
		kind, ok := Classify(sched, diff)
		if !ok {
			continue
		}

		n := model.NewNotification(sched, kind, diff, now)
		created, err := e.store.CreateNotificationIfAbsent(ctx, n)
		if err != nil {
			e.logger.Warn("recording notification failed", "id", n.ID, "error", err)
			continue
		}
		if !created {
			// Still inside the same dwell window; already emitted.
			continue
		}
		emitted = append(emitted, n)

		if kind == model.KindAutoBlock {
			if err := e.store.SetAutoBlockTriggered(ctx, sched.ID, true); err != nil {
				e.logger.Warn("flagging auto-block failed", "id", sched.ID, "error", err)
			}
		}
		if !sched.MissedNotified &&
			(kind == model.KindJustMissed || kind == model.KindMissedFiveMin || kind == model.KindAutoBlock) {
			if err := e.store.SetMissedNotified(ctx, sched.ID, true); err != nil {
				e.logger.Warn("flagging missed schedule failed", "id", sched.ID, "error", err)
			}
		}

		if e.dispatcher != nil {
			title, message := notify.AlertCopy(kind, sched)
			e.dispatcher.Notify(title, message, n.Severity, notify.AlertDuration(n.Severity))
		}

		e.logger.Debug("notification emitted",
			"kind", string(kind), "schedule", sched.Title, "minutes", int(diff))
	}

	return emitted, nil
}

// ResetSchedule clears emitted notifications for a schedule after its
// window was edited, so each kind can fire again on the next dwell.
func (e *Evaluator) ResetSchedule(ctx context.Context, scheduleID string) error {
	return e.store.DeleteNotificationsForSchedule(ctx, scheduleID)
}

// Classify maps a schedule and its signed minute offset from start into
// the notification kind whose window contains it. Windows are evaluated
// in precedence order: where clock drift could land an instant in two
// windows, the more specific window wins (start-now beats just-missed at
// the boundary).
func Classify(s model.Schedule, diff float64) (model.NotificationKind, bool) {
	switch {
	case diff >= -1 && diff <= 1 && !s.Started:
		return model.KindStartNow, true
	case diff >= 4 && diff <= 6:
		return model.KindFiveMinWarning, true
	case diff >= 9 && diff <= 11:
		return model.KindTenMinWarning, true
	case diff < -10 && !s.Started:
		return model.KindAutoBlock, true
	case diff < -5 && !s.Started:
		return model.KindMissedFiveMin, true
	case diff < 0 && !s.Started:
		return model.KindJustMissed, true
	default:
		return "", false
	}
}
