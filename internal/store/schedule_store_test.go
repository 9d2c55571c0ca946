package store

import (
	"context"
	"testing"
	"time"

	"github.com/hdnguyen/focusdeck/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSchedule(date, start, end string) model.Schedule {
	return model.Schedule{
		Title:     "Deep work",
		Category:  "Work",
		Priority:  model.PriorityMedium,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func mustCreate(t *testing.T, s *SQLiteStore, sched model.Schedule) string {
	t.Helper()
	id, err := s.CreateSchedule(context.Background(), sched)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return id
}

func TestCreateSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))
	if id == "" {
		t.Fatal("empty id")
	}

	got, err := s.GetScheduleByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Deep work" || got.StartTime != "09:00" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Completed || got.Started || got.AutoBlockTriggered || got.AutoBlocked || got.MissedNotified {
		t.Fatal("new schedule must start with all flags clear")
	}
}

func TestCreateScheduleDefaults(t *testing.T) {
	s := newTestStore(t)

	sched := testSchedule("2026-08-30", "09:00", "10:00")
	sched.Priority = ""
	sched.Category = ""
	id := mustCreate(t, s, sched)

	got, err := s.GetScheduleByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Priority != model.PriorityMedium {
		t.Fatalf("default priority = %q", got.Priority)
	}
	if got.Category != "Other" {
		t.Fatalf("default category = %q", got.Category)
	}
}

func TestCreateScheduleInvalid(t *testing.T) {
	s := newTestStore(t)

	sched := testSchedule("2026-08-30", "10:00", "09:00")
	if _, err := s.CreateSchedule(context.Background(), sched); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateScheduleConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))

	_, err := s.CreateSchedule(ctx, testSchedule("2026-08-30", "09:30", "10:30"))
	if !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// Adjacent windows do not conflict.
	if _, err := s.CreateSchedule(ctx, testSchedule("2026-08-30", "10:00", "11:00")); err != nil {
		t.Fatalf("adjacent window rejected: %v", err)
	}

	// Same window on another date does not conflict.
	if _, err := s.CreateSchedule(ctx, testSchedule("2026-08-31", "09:00", "10:00")); err != nil {
		t.Fatalf("other-date window rejected: %v", err)
	}
}

func TestUpdateSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))
	mustCreate(t, s, testSchedule("2026-08-30", "11:00", "12:00"))

	// The record's own window does not conflict with itself.
	sched := testSchedule("2026-08-30", "09:00", "10:30")
	sched.ID = id
	sched.Title = "Renamed"
	if err := s.UpdateSchedule(ctx, sched); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetScheduleByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Renamed" || got.EndTime != "10:30" {
		t.Fatalf("update not applied: %+v", got)
	}

	// Moving onto the other schedule is rejected.
	sched.StartTime = "11:30"
	sched.EndTime = "12:30"
	if err := s.UpdateSchedule(ctx, sched); !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdateScheduleNotFound(t *testing.T) {
	s := newTestStore(t)

	sched := testSchedule("2026-08-30", "09:00", "10:00")
	sched.ID = "missing"
	if err := s.UpdateSchedule(context.Background(), sched); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))

	sched, _ := s.GetScheduleByID(ctx, id)
	n := model.NewNotification(*sched, model.KindStartNow, 0, time.Now())
	if _, err := s.CreateNotificationIfAbsent(ctx, n); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSchedule(ctx, id); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetScheduleByID(ctx, id); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// Emitted notifications go with the schedule.
	notifications, err := s.GetNotifications(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 0 {
		t.Fatalf("notifications survived delete: %d", len(notifications))
	}

	if err := s.DeleteSchedule(ctx, id); !IsNotFound(err) {
		t.Fatalf("double delete: expected NotFoundError, got %v", err)
	}
}

func TestGetSchedulesFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, testSchedule("2026-08-29", "09:00", "10:00"))
	mustCreate(t, s, testSchedule("2026-08-30", "11:00", "12:00"))
	idEarly := mustCreate(t, s, testSchedule("2026-08-30", "08:00", "09:00"))
	idDone := mustCreate(t, s, testSchedule("2026-08-31", "09:00", "10:00"))
	if err := s.MarkCompleted(ctx, idDone, time.Now()); err != nil {
		t.Fatal(err)
	}

	day := "2026-08-30"
	got, err := s.GetSchedules(ctx, ScheduleFilter{Date: &day})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("date filter returned %d schedules", len(got))
	}
	if got[0].ID != idEarly {
		t.Fatal("not ordered by start time")
	}

	notDone := false
	got, err = s.GetSchedules(ctx, ScheduleFilter{Completed: &notDone})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("completed filter returned %d schedules", len(got))
	}

	from, to := "2026-08-30", "2026-08-31"
	got, err = s.GetSchedules(ctx, ScheduleFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("range filter returned %d schedules", len(got))
	}
}

func TestMarkStartedClearsEscalationFlags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))
	for _, set := range []func() error{
		func() error { return s.SetMissedNotified(ctx, id, true) },
		func() error { return s.SetAutoBlockTriggered(ctx, id, true) },
		func() error { return s.SetAutoBlocked(ctx, id, true) },
	} {
		if err := set(); err != nil {
			t.Fatal(err)
		}
	}

	startedAt := time.Date(2026, 8, 30, 9, 12, 0, 0, time.UTC)
	if err := s.MarkStarted(ctx, id, startedAt); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetScheduleByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Started {
		t.Fatal("not marked started")
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(startedAt) {
		t.Fatalf("StartedAt = %v", got.StartedAt)
	}
	if got.AutoBlockTriggered || got.AutoBlocked || got.MissedNotified {
		t.Fatal("escalation flags must clear on start")
	}
}

func TestMarkCompletedClearsEscalationFlags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustCreate(t, s, testSchedule("2026-08-30", "09:00", "10:00"))
	if err := s.SetAutoBlockTriggered(ctx, id, true); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkCompleted(ctx, id, time.Now()); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetScheduleByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatal("not marked completed")
	}
	if got.AutoBlockTriggered {
		t.Fatal("trigger flag must clear on completion")
	}
}
