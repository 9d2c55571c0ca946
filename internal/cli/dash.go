package cli

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hdnguyen/focusdeck/internal/app"
	"github.com/hdnguyen/focusdeck/internal/engine"
	"github.com/hdnguyen/focusdeck/internal/notify"
	appsync "github.com/hdnguyen/focusdeck/internal/sync"
)

// NewDashCommand creates the dash command, the interactive dashboard.
func NewDashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive schedule dashboard",
		Long: `Open the full-screen dashboard. The background evaluation loop runs
while the dashboard is open, emitting notifications and applying website
blocking for missed schedules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(rootOpts)
		},
	}
}

func runDash(opts *RootOptions) error {
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

	evaluator := engine.NewEvaluator(engine.Config{
		Store:           st,
		Dispatcher:      dispatcher,
		RecheckInterval: time.Duration(cfg.Evaluator.RecheckIntervalSec) * time.Second,
	})
	trigger := engine.NewTrigger(engine.TriggerConfig{
		Store:      st,
		Blocker:    hostsBlocker,
		Dispatcher: dispatcher,
		Sites:      blockSites(cfg),
	})
	poller := appsync.New(st, evaluator, trigger,
		time.Duration(cfg.Evaluator.RecheckIntervalSec)*time.Second)

	slog.Info("dashboard starting", "db", cfg.DBPath)

	program := tea.NewProgram(
		app.New(st, evaluator, poller, hostsBlocker),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	slog.Info("dashboard closed")
	return nil
}
