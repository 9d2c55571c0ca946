package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Schedules  []jsonSchedule `json:"schedules"`
}

type jsonSchedule struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Category           string `json:"category"`
	Priority           string `json:"priority"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Completed          bool   `json:"completed"`
	Started            bool   `json:"started"`
	MissedNotified     bool   `json:"missed_notified"`
	AutoBlockTriggered bool   `json:"auto_block_triggered"`
	AutoBlocked        bool   `json:"auto_blocked"`
	CreatedAt          string `json:"created_at"`
}

// MarshalJSON renders a whole-list schedule snapshot. The snapshot
// carries every schedule field, so an external consumer can reconstruct
// the records with full fidelity.
func MarshalJSON(schedules []model.Schedule, exportedAt time.Time) ([]byte, error) {
	out := jsonExport{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Count:      len(schedules),
	}

	for _, s := range schedules {
		out.Schedules = append(out.Schedules, jsonSchedule{
			ID:                 s.ID,
			Title:              s.Title,
			Description:        s.Description,
			Category:           s.Category,
			Priority:           s.Priority,
			Date:               s.Date,
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			Completed:          s.Completed,
			Started:            s.Started,
			MissedNotified:     s.MissedNotified,
			AutoBlockTriggered: s.AutoBlockTriggered,
			AutoBlocked:        s.AutoBlocked,
			CreatedAt:          s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// ToJSON writes the JSON snapshot to path.
func ToJSON(schedules []model.Schedule, exportedAt time.Time, path string) error {
	data, err := MarshalJSON(schedules, exportedAt)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
