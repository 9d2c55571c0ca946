package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/notify"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// Trigger executes pending auto-blocks: any schedule flagged
// auto_block_triggered and not yet auto_blocked gets exactly one
// blocking attempt per cycle. Permission failures are soft; the flag
// stays set so the next cycle retries.
type Trigger struct {
	store      store.Store
	blocker    blocker.Blocker
	dispatcher notify.Dispatcher
	sites      []string
	now        func() time.Time
	logger     *slog.Logger
}

// TriggerConfig assembles a Trigger's collaborators.
type TriggerConfig struct {
	Store      store.Store
	Blocker    blocker.Blocker
	Dispatcher notify.Dispatcher

	// Sites is the hostname list handed to the blocker.
	Sites []string

	Now    func() time.Time
	Logger *slog.Logger
}

// Outcome summarizes one trigger pass for the UI.
type Outcome struct {
	// BlockedFor lists titles of schedules whose missed state activated
	// blocking during this pass.
	BlockedFor []string

	// Warning is a standing, user-facing message when blocking is wanted
	// but cannot be applied (missing privileges). Empty when clear.
	Warning string

	// Released reports that blocking was lifted because no schedule
	// required it anymore.
	Released bool
}

// NewTrigger creates a trigger from cfg. Store and Blocker are required.
func NewTrigger(cfg TriggerConfig) *Trigger {
	t := &Trigger{
		store:      cfg.Store,
		blocker:    cfg.Blocker,
		dispatcher: cfg.Dispatcher,
		sites:      cfg.Sites,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Apply runs one pass over flagged schedules. Re-applying for an already
// auto-blocked schedule is a no-op; a schedule started or completed in
// the meantime has its trigger flag cleared instead of being blocked.
func (t *Trigger) Apply(ctx context.Context) (*Outcome, error) {
	today := t.now().Format(model.DateLayout)
	schedules, err := t.store.GetSchedules(ctx, store.ScheduleFilter{Date: &today})
	if err != nil {
		return nil, fmt.Errorf("loading schedules for auto-block: %w", err)
	}

	outcome := &Outcome{}
	for _, sched := range schedules {
		if !sched.AutoBlockTriggered || sched.AutoBlocked {
			continue
		}

		if sched.Started || sched.Completed {
			if err := t.store.SetAutoBlockTriggered(ctx, sched.ID, false); err != nil {
				t.logger.Warn("clearing stale trigger failed", "id", sched.ID, "error", err)
			}
			continue
		}

		if !t.blocker.HasElevatedPrivileges() {
			// Leave the flag set: the next cycle retries once privileges
			// are available.
			outcome.Warning = "cannot auto-block: administrator privileges required"
			continue
		}

		result, err := t.blocker.EnableBlocking(ctx, t.sites)
		if err != nil {
			t.logger.Warn("auto-block attempt failed", "schedule", sched.Title, "error", err)
			outcome.Warning = fmt.Sprintf("auto-block failed: %v", err)
			continue
		}
		if !result.Success {
			outcome.Warning = "auto-block failed: " + result.Message
			continue
		}

		if err := t.store.SetAutoBlocked(ctx, sched.ID, true); err != nil {
			t.logger.Warn("recording auto-block failed", "id", sched.ID, "error", err)
			continue
		}
		outcome.BlockedFor = append(outcome.BlockedFor, sched.Title)

		if t.dispatcher != nil {
			t.dispatcher.Notify(
				"Focus Mode Engaged",
				fmt.Sprintf("%d sites blocked after missing %q", len(result.BlockedSites), sched.Title),
				model.SeverityCritical,
				notify.AlertDuration(model.SeverityCritical),
			)
		}
		t.logger.Info("auto-block applied",
			"schedule", sched.Title, "sites", len(result.BlockedSites))
	}

	released, err := t.ReleaseIfClear(ctx)
	if err != nil {
		return outcome, err
	}
	outcome.Released = released
	return outcome, nil
}

// ReleaseIfClear disables blocking when no schedule still holds the
// auto_blocked flag. With two schedules simultaneously auto-blocking,
// starting one keeps blocking active until the other is also resolved.
func (t *Trigger) ReleaseIfClear(ctx context.Context) (bool, error) {
	if !t.blocker.IsActive() {
		return false, nil
	}

	schedules, err := t.store.GetSchedules(ctx, store.ScheduleFilter{})
	if err != nil {
		return false, fmt.Errorf("loading schedules for unblock check: %w", err)
	}
	for _, sched := range schedules {
		if sched.AutoBlocked && !sched.Started && !sched.Completed {
			return false, nil
		}
	}

	result, err := t.blocker.DisableBlocking(ctx)
	if err != nil {
		return false, fmt.Errorf("disabling blocking: %w", err)
	}
	if !result.Success {
		t.logger.Warn("unblock attempt refused", "message", result.Message)
		return false, nil
	}

	t.logger.Info("auto-block released")
	return true, nil
}
