package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hdnguyen/focusdeck/internal/export"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Format string
	Output string
	Date   string
}

// validExportFormats defines the allowed export formats.
var validExportFormats = []string{"json", "csv"}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export schedules to a JSON or CSV file",
		Long: `Export schedules to a flat file. By default every schedule is
exported; restrict to a single day with --date.

Example:
  focusdeck export --format json -o schedules.json
  focusdeck export --format csv --date 2026-08-30 -o today.csv`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range validExportFormats {
				if opts.Format == f {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validExportFormats)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format (json|csv)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "only export schedules on this date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	setupLogging(opts.RootOptions)

	cfg, err := loadConfig(opts.RootOptions)
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	filter := store.ScheduleFilter{}
	if opts.Date != "" {
		filter.Date = &opts.Date
	}
	schedules, err := st.GetSchedules(ctx, filter)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}

	switch opts.Format {
	case "csv":
		err = export.ToCSV(schedules, opts.Output)
	default:
		err = export.ToJSON(schedules, time.Now(), opts.Output)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", opts.Output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d schedules to %s.\n", len(schedules), opts.Output)
	return nil
}
