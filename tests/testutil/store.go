package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// MustCreateSchedule inserts a schedule and returns it with the assigned id.
func MustCreateSchedule(t *testing.T, s store.Store, sched model.Schedule) model.Schedule {
	t.Helper()

	id, err := s.CreateSchedule(context.Background(), sched)
	if err != nil {
		t.Fatalf("creating schedule %q: %v", sched.Title, err)
	}
	sched.ID = id
	return sched
}

// ScheduleOn builds a valid schedule on the given date and time window.
func ScheduleOn(date, start, end string) model.Schedule {
	return model.Schedule{
		Title:     "Deep work",
		Category:  "Work",
		Priority:  model.PriorityMedium,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

// FixedClock returns a clock function frozen at the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
