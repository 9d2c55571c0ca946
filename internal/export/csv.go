package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
)

// ToCSV writes a schedule snapshot to path as CSV, one row per schedule.
func ToCSV(schedules []model.Schedule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{
		"ID", "Title", "Description", "Category", "Priority",
		"Date", "Start", "End", "Duration",
		"Completed", "Started", "AutoBlocked", "Created At",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range schedules {
		row := []string{
			s.ID,
			s.Title,
			s.Description,
			s.Category,
			s.Priority,
			s.Date,
			s.StartTime,
			s.EndTime,
			formatDuration(s.Duration()),
			boolString(s.Completed),
			boolString(s.Started),
			boolString(s.AutoBlocked),
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
