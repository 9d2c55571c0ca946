package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
	"github.com/hdnguyen/focusdeck/tests/testutil"
)

// fakeClock is a settable clock shared with the evaluator under test.
type fakeClock struct {
	mu sync.Mutex
	at time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{at: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
}

// recordingDispatcher captures alerts instead of showing them.
type recordingDispatcher struct {
	mu     sync.Mutex
	alerts []string
}

func (d *recordingDispatcher) Notify(title, message, severity string, duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, title)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.alerts)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		diff     float64
		started  bool
		wantKind model.NotificationKind
		wantOK   bool
	}{
		{"far future", 30, false, "", false},
		{"upper ten edge", 11, false, model.KindTenMinWarning, true},
		{"ten minutes out", 10, false, model.KindTenMinWarning, true},
		{"between windows", 7.5, false, "", false},
		{"five minutes out", 5, false, model.KindFiveMinWarning, true},
		{"between five and start", 2, false, "", false},
		{"starting now", 0, false, model.KindStartNow, true},
		{"one minute late still start", -1, false, model.KindStartNow, true},
		{"just missed", -1.5, false, model.KindJustMissed, true},
		{"five late boundary exclusive", -5, false, model.KindJustMissed, true},
		{"seven late", -7, false, model.KindMissedFiveMin, true},
		{"just under block threshold", -9.98, false, model.KindMissedFiveMin, true},
		{"ten late boundary exclusive", -10, false, model.KindMissedFiveMin, true},
		{"just over block threshold", -10.02, false, model.KindAutoBlock, true},
		{"far past", -90, false, model.KindAutoBlock, true},
		{"started suppresses start now", 0, true, "", false},
		{"started suppresses missed", -20, true, "", false},
		{"started keeps pre-start warnings", 5, true, model.KindFiveMinWarning, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Classify(model.Schedule{Started: tt.started}, tt.diff)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestEvaluateEmitsOncePerWindow(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 50, 0, 0, time.UTC))
	dispatcher := &recordingDispatcher{}

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	ev := NewEvaluator(Config{
		Store:           st,
		Dispatcher:      dispatcher,
		Now:             clock.Now,
		RecheckInterval: -1,
	})

	emitted, err := ev.Evaluate(context.Background())
	require.NoError(t, err)
	require.Len(t, emitted, 1)
	assert.Equal(t, model.KindTenMinWarning, emitted[0].Kind)
	assert.Equal(t, sched.ID, emitted[0].ScheduleID)
	assert.Equal(t, 1, dispatcher.count())

	// Still inside the ten-minute dwell window: nothing new.
	clock.Set(time.Date(2026, 8, 30, 8, 50, 30, 0, time.UTC))
	emitted, err = ev.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.Equal(t, 1, dispatcher.count())
}

func TestEvaluateProgression(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	ev := NewEvaluator(Config{Store: st, Now: clock.Now, RecheckInterval: -1})
	ctx := context.Background()

	steps := []struct {
		at   time.Time
		want model.NotificationKind
	}{
		{time.Date(2026, 8, 30, 8, 50, 0, 0, time.UTC), model.KindTenMinWarning},
		{time.Date(2026, 8, 30, 8, 55, 0, 0, time.UTC), model.KindFiveMinWarning},
		{time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), model.KindStartNow},
		{time.Date(2026, 8, 30, 9, 3, 0, 0, time.UTC), model.KindJustMissed},
		{time.Date(2026, 8, 30, 9, 7, 0, 0, time.UTC), model.KindMissedFiveMin},
		{time.Date(2026, 8, 30, 9, 11, 0, 0, time.UTC), model.KindAutoBlock},
	}

	for _, step := range steps {
		clock.Set(step.at)
		emitted, err := ev.Evaluate(ctx)
		require.NoError(t, err)
		require.Len(t, emitted, 1, "at %v", step.at)
		assert.Equal(t, step.want, emitted[0].Kind, "at %v", step.at)
	}

	// Every kind fired exactly once over the whole progression.
	all, err := st.GetNotifications(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, len(steps))

	// The auto-block pass flagged the schedule for the trigger.
	got, err := st.GetScheduleByID(ctx, sched.ID)
	require.NoError(t, err)
	assert.True(t, got.AutoBlockTriggered)
	assert.True(t, got.MissedNotified)
	assert.False(t, got.AutoBlocked, "evaluator must not block directly")
}

func TestEvaluateRecheckShortCircuit(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 55, 0, 0, time.UTC))

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	ev := NewEvaluator(Config{Store: st, Now: clock.Now, RecheckInterval: 30 * time.Second})
	ctx := context.Background()

	emitted, err := ev.Evaluate(ctx)
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	// A pass inside the re-check interval never touches the store, even
	// though this pair could fire again.
	require.NoError(t, st.DeleteNotificationsForSchedule(ctx, sched.ID))
	clock.Set(clock.Now().Add(10 * time.Second))
	emitted, err = ev.Evaluate(ctx)
	require.NoError(t, err)
	assert.Empty(t, emitted)

	// After the interval elapses the pair fires again.
	clock.Set(clock.Now().Add(time.Minute))
	emitted, err = ev.Evaluate(ctx)
	require.NoError(t, err)
	assert.Len(t, emitted, 1)
}

// brokenRowStore wraps a real store and splices extra rows into
// GetSchedules results, standing in for records damaged outside the
// store API (which validates on write).
type brokenRowStore struct {
	store.Store
	extra []model.Schedule
}

func (s *brokenRowStore) GetSchedules(ctx context.Context, f store.ScheduleFilter) ([]model.Schedule, error) {
	scheds, err := s.Store.GetSchedules(ctx, f)
	if err != nil {
		return nil, err
	}
	return append(append([]model.Schedule(nil), s.extra...), scheds...), nil
}

func TestEvaluateSkipsMalformedRows(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 50, 0, 0, time.UTC))

	valid := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	wrapped := &brokenRowStore{Store: st, extra: []model.Schedule{
		{Date: "2026-08-30", StartTime: "09:00", EndTime: "10:00", Title: "no id"},
		{ID: "damaged", Date: "2026-08-30", StartTime: "quarter past", EndTime: "10:00", Title: "bad clock"},
	}}

	ev := NewEvaluator(Config{Store: wrapped, Now: clock.Now, RecheckInterval: -1})

	emitted, err := ev.Evaluate(context.Background())
	require.NoError(t, err, "damaged rows must not abort the batch")
	require.Len(t, emitted, 1)
	assert.Equal(t, valid.ID, emitted[0].ScheduleID)
}

// failOnceStore fails the first schedule load and delegates afterwards.
type failOnceStore struct {
	store.Store
	failed bool
}

func (s *failOnceStore) GetSchedules(ctx context.Context, f store.ScheduleFilter) ([]model.Schedule, error) {
	if !s.failed {
		s.failed = true
		return nil, errors.New("database is locked")
	}
	return s.Store.GetSchedules(ctx, f)
}

func TestEvaluateRetriesAfterLoadError(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 55, 0, 0, time.UTC))

	testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	ev := NewEvaluator(Config{
		Store:           &failOnceStore{Store: st},
		Now:             clock.Now,
		RecheckInterval: 30 * time.Second,
	})
	ctx := context.Background()

	_, err := ev.Evaluate(ctx)
	require.Error(t, err)

	// A failed load must not start the re-check interval; the very next
	// pass evaluates instead of going quiet for the whole interval.
	clock.Set(clock.Now().Add(time.Second))
	emitted, err := ev.Evaluate(ctx)
	require.NoError(t, err)
	assert.Len(t, emitted, 1)
}

func TestEvaluateIgnoresStartedAndCompleted(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC))
	ctx := context.Background()

	started := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))
	require.NoError(t, st.MarkStarted(ctx, started.ID, clock.Now()))

	done := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "10:30", "11:00"))
	require.NoError(t, st.MarkCompleted(ctx, done.ID, clock.Now()))

	ev := NewEvaluator(Config{Store: st, Now: clock.Now, RecheckInterval: -1})

	emitted, err := ev.Evaluate(ctx)
	require.NoError(t, err)
	assert.Empty(t, emitted)
}

func TestEvaluateSkipsOtherDates(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC))

	testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-29", "09:00", "10:00"))

	ev := NewEvaluator(Config{Store: st, Now: clock.Now, RecheckInterval: -1})

	emitted, err := ev.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emitted, "yesterday's schedules never fire")
}

func TestResetScheduleAllowsReFiring(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 8, 55, 0, 0, time.UTC))
	ctx := context.Background()

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))

	ev := NewEvaluator(Config{Store: st, Now: clock.Now, RecheckInterval: -1})

	emitted, err := ev.Evaluate(ctx)
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	require.NoError(t, ev.ResetSchedule(ctx, sched.ID))

	emitted, err = ev.Evaluate(ctx)
	require.NoError(t, err)
	assert.Len(t, emitted, 1, "cleared pair fires again")
}
