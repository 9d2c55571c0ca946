// Package cli wires the focusdeck commands: the interactive dashboard,
// the standalone background notifier, manual blocking control, and
// schedule export.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string
	DBPath     string
}

// NewRootCommand creates the root command for the focusdeck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "focusdeck",
		Short: "Schedule dashboard with focus-mode website blocking",
		Long: `focusdeck keeps a daily schedule, warns before each time block
starts, and escalates to blocking distracting websites when a block is
missed by more than ten minutes. Start the task to lift the block.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default ~/.config/focusdeck/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (overrides config)")

	cmd.AddCommand(NewDashCommand(opts))
	cmd.AddCommand(NewNotifierCommand(opts))
	cmd.AddCommand(NewBlockCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// setupLogging installs the default text logger on stderr, honoring the
// verbose flag.
func setupLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// configPath resolves the configuration file location from flags.
func configPath(opts *RootOptions) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	return model.DefaultConfigPath()
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts *RootOptions) (*model.AppConfig, error) {
	path := configPath(opts)

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	return cfg, nil
}

// openStore opens the SQLite store at the configured path, creating
// parent directories as needed.
func openStore(cfg *model.AppConfig) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return st, nil
}

// blockSites returns the configured block list with www variants filled
// in; every path that enables blocking goes through this.
func blockSites(cfg *model.AppConfig) []string {
	return blocker.NormalizeSites(cfg.Blocking.Sites)
}

// newBlocker builds the hosts-file blocker from config.
func newBlocker(cfg *model.AppConfig) *blocker.HostsBlocker {
	var blockerOpts []blocker.Option
	if cfg.Blocking.RedirectIP != "" {
		blockerOpts = append(blockerOpts, blocker.WithRedirectIP(cfg.Blocking.RedirectIP))
	}
	return blocker.NewHostsBlocker(blockerOpts...)
}
