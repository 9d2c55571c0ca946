package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/internal/model"
)

// NewBlockCommand creates the block command group for manual control of
// website blocking and the blocked-site list.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manually control website blocking",
	}

	cmd.AddCommand(newBlockEnableCommand(rootOpts))
	cmd.AddCommand(newBlockDisableCommand(rootOpts))
	cmd.AddCommand(newBlockStatusCommand(rootOpts))
	cmd.AddCommand(newBlockAddCommand(rootOpts))
	cmd.AddCommand(newBlockRemoveCommand(rootOpts))

	return cmd
}

func newBlockEnableCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Block the configured distracting websites now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(rootOpts)
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			b := newBlocker(cfg)
			result, err := b.EnableBlocking(cmd.Context(), blockSites(cfg))
			if err != nil {
				return err
			}
			if result.RequiresAdmin {
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				fmt.Fprintln(cmd.OutOrStdout(), "Re-run with elevated privileges (e.g. sudo).")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blocking %d sites.\n", len(result.BlockedSites))
			return nil
		},
	}
}

func newBlockDisableCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Lift website blocking now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(rootOpts)
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			b := newBlocker(cfg)
			result, err := b.DisableBlocking(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
}

func newBlockAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <site>",
		Short: "Add a website and its www variant to the blocked list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(rootOpts)
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			sites, changed := blocker.AddSite(cfg.Blocking.Sites, args[0])
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already on the blocked list.\n", args[0])
				return nil
			}
			cfg.Blocking.Sites = sites
			if err := model.SaveConfig(configPath(rootOpts), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the blocked list (%d sites).\n", args[0], len(sites))
			fmt.Fprintln(cmd.OutOrStdout(), "Takes effect the next time blocking is enabled.")
			return nil
		},
	}
}

func newBlockRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <site>",
		Short: "Remove a website and its www variant from the blocked list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(rootOpts)
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			sites, changed := blocker.RemoveSite(cfg.Blocking.Sites, args[0])
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not on the blocked list.\n", args[0])
				return nil
			}
			cfg.Blocking.Sites = sites
			if err := model.SaveConfig(configPath(rootOpts), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the blocked list (%d sites).\n", args[0], len(sites))
			fmt.Fprintln(cmd.OutOrStdout(), "Takes effect the next time blocking is enabled.")
			return nil
		},
	}
}

func newBlockStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether website blocking is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(rootOpts)
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			b := newBlocker(cfg)
			if b.IsActive() {
				fmt.Fprintln(cmd.OutOrStdout(), "Blocking is ACTIVE.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Blocking is inactive.")
			}
			if !b.HasElevatedPrivileges() {
				fmt.Fprintln(cmd.OutOrStdout(), "Note: no write access to the hosts file; enable/disable will need sudo.")
			}
			return nil
		},
	}
}
