package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdnguyen/focusdeck/internal/engine"
	"github.com/hdnguyen/focusdeck/internal/notify"
	appsync "github.com/hdnguyen/focusdeck/internal/sync"
)

// pruneEveryCycles is how many poll cycles pass between retention sweeps.
const pruneEveryCycles = 100

// heartbeatEvery is how often the notifier logs a liveness line.
const heartbeatEvery = 5 * time.Minute

// NewNotifierCommand creates the notifier command, the standalone
// background watcher that runs without the dashboard open.
func NewNotifierCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Run the background schedule watcher",
		Long: `Run the standalone notifier in the foreground. It polls the schedule
database, emits desktop notifications for upcoming and missed schedules,
applies website blocking for schedules missed by more than ten minutes,
and prunes old notifications.

Run it under a service manager or in a spare terminal; stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifier(cmd, rootOpts)
		},
	}
}

func runNotifier(cmd *cobra.Command, opts *RootOptions) error {
	setupLogging(opts)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	dispatcher := notify.NewDesktopDispatcher(slog.Default())
	hostsBlocker := newBlocker(cfg)

	// The poll cadence alone bounds evaluation frequency here, so the
	// evaluator's own re-check bound is disabled.
	evaluator := engine.NewEvaluator(engine.Config{
		Store:           st,
		Dispatcher:      dispatcher,
		RecheckInterval: -1,
	})
	trigger := engine.NewTrigger(engine.TriggerConfig{
		Store:      st,
		Blocker:    hostsBlocker,
		Dispatcher: dispatcher,
		Sites:      blockSites(cfg),
	})

	pollInterval := time.Duration(cfg.Notifier.PollIntervalSec) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	retention := time.Duration(cfg.Notifier.RetentionHours) * time.Hour
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	poller := appsync.New(st, evaluator, trigger, pollInterval)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("notifier starting",
		"db", cfg.DBPath,
		"poll_interval", pollInterval,
		"retention", retention,
	)
	fmt.Fprintln(cmd.OutOrStdout(), "Notifier running. Press Ctrl-C to stop.")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lastHeartbeat := time.Now()
	cycles := 0

	for {
		select {
		case <-ctx.Done():
			slog.Info("notifier stopped")
			return nil

		case <-ticker.C:
			result := poller.RunOnce(ctx)
			if result.Error != nil {
				slog.Error("evaluation cycle failed", "error", result.Error)
			}
			for _, n := range result.Emitted {
				slog.Info("notification emitted",
					"kind", n.Kind, "schedule", n.ScheduleID, "severity", n.Severity)
			}
			for _, title := range result.BlockedFor {
				slog.Warn("websites blocked for missed schedule", "schedule", title)
			}
			if result.Released {
				slog.Info("website blocking released")
			}
			if result.Warning != "" {
				slog.Warn(result.Warning)
			}

			cycles++
			if cycles%pruneEveryCycles == 0 {
				pruned, err := st.PruneNotifications(ctx, time.Now().Add(-retention))
				if err != nil {
					slog.Error("prune failed", "error", err)
				} else if pruned > 0 {
					slog.Info("pruned old notifications", "count", pruned)
				}
			}

			if time.Since(lastHeartbeat) >= heartbeatEvery {
				slog.Info("notifier alive", "cycles", cycles, "unread", result.UnreadCount)
				lastHeartbeat = time.Now()
			}
		}
	}
}
