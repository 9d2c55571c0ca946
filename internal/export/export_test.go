package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/focusdeck/internal/model"
)

func fixtureSchedules() []model.Schedule {
	return []model.Schedule{
		{
			ID:          "sched-001",
			Title:       "Morning deep work",
			Description: "Ship the parser",
			Category:    "Work",
			Priority:    model.PriorityHigh,
			Date:        "2026-08-30",
			StartTime:   "09:00",
			EndTime:     "10:30",
			Started:     true,
			CreatedAt:   time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC),
		},
		{
			ID:        "sched-002",
			Title:     "Gym",
			Category:  "Health",
			Priority:  model.PriorityMedium,
			Date:      "2026-08-30",
			StartTime: "17:00",
			EndTime:   "18:00",
			Completed: true,
			CreatedAt: time.Date(2026, 8, 29, 18, 5, 0, 0, time.UTC),
		},
	}
}

func TestMarshalJSON(t *testing.T) {
	exportedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	data, err := MarshalJSON(fixtureSchedules(), exportedAt)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "schedules_json", data)
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.csv")

	err := ToCSV(fixtureSchedules(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "schedules_csv", data)
}

func TestToJSONWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.json")
	exportedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	err := ToJSON(fixtureSchedules(), exportedAt, path)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)

	direct, err := MarshalJSON(fixtureSchedules(), exportedAt)
	require.NoError(t, err)
	require.Equal(t, direct, written)
}

func TestMarshalJSONEmpty(t *testing.T) {
	exportedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	data, err := MarshalJSON(nil, exportedAt)
	require.NoError(t, err)
	require.Contains(t, string(data), `"count": 0`)
}
