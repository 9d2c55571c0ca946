package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/tests/testutil"
)

// fakeBlocker is an in-memory stand-in for the hosts-file blocker.
type fakeBlocker struct {
	privileged   bool
	active       bool
	enableCalls  int
	disableCalls int
}

func (b *fakeBlocker) HasElevatedPrivileges() bool { return b.privileged }

func (b *fakeBlocker) IsActive() bool { return b.active }

func (b *fakeBlocker) EnableBlocking(_ context.Context, sites []string) (*blocker.Result, error) {
	b.enableCalls++
	if !b.privileged {
		return &blocker.Result{Message: "permission denied", RequiresAdmin: true}, nil
	}
	b.active = true
	return &blocker.Result{Success: true, BlockedSites: sites, Message: "blocked"}, nil
}

func (b *fakeBlocker) DisableBlocking(_ context.Context) (*blocker.Result, error) {
	b.disableCalls++
	b.active = false
	return &blocker.Result{Success: true, Message: "unblocked"}, nil
}

var testSites = []string{"youtube.com", "reddit.com"}

func TestApplyBlocksFlaggedSchedule(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC))
	b := &fakeBlocker{privileged: true}
	dispatcher := &recordingDispatcher{}
	ctx := context.Background()

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))
	require.NoError(t, st.SetAutoBlockTriggered(ctx, sched.ID, true))

	tr := NewTrigger(TriggerConfig{
		Store: st, Blocker: b, Dispatcher: dispatcher, Sites: testSites, Now: clock.Now,
	})

	outcome, err := tr.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sched.Title}, outcome.BlockedFor)
	assert.Empty(t, outcome.Warning)
	assert.True(t, b.active)
	assert.Equal(t, 1, dispatcher.count())

	got, err := st.GetScheduleByID(ctx, sched.ID)
	require.NoError(t, err)
	assert.True(t, got.AutoBlocked)

	// A second pass is a no-op for an already blocked schedule.
	outcome, err = tr.Apply(ctx)
	require.NoError(t, err)
	assert.Empty(t, outcome.BlockedFor)
	assert.Equal(t, 1, b.enableCalls)
}

func TestApplyWithoutPrivilegesLeavesFlagForRetry(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC))
	b := &fakeBlocker{privileged: false}
	ctx := context.Background()

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))
	require.NoError(t, st.SetAutoBlockTriggered(ctx, sched.ID, true))

	tr := NewTrigger(TriggerConfig{Store: st, Blocker: b, Sites: testSites, Now: clock.Now})

	outcome, err := tr.Apply(ctx)
	require.NoError(t, err)
	assert.Contains(t, outcome.Warning, "privileges")
	assert.False(t, b.active)

	got, err := st.GetScheduleByID(ctx, sched.ID)
	require.NoError(t, err)
	assert.True(t, got.AutoBlockTriggered, "flag stays set for retry")
	assert.False(t, got.AutoBlocked)

	// Once privileges appear, the standing flag is acted on.
	b.privileged = true
	outcome, err = tr.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sched.Title}, outcome.BlockedFor)
	assert.Empty(t, outcome.Warning)
}

func TestApplyClearsStaleTrigger(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC))
	b := &fakeBlocker{privileged: true}
	ctx := context.Background()

	sched := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))
	require.NoError(t, st.SetAutoBlockTriggered(ctx, sched.ID, true))
	require.NoError(t, st.MarkStarted(ctx, sched.ID, clock.Now()))
	// Simulate the flag being raised again between start and this pass.
	require.NoError(t, st.SetAutoBlockTriggered(ctx, sched.ID, true))

	tr := NewTrigger(TriggerConfig{Store: st, Blocker: b, Sites: testSites, Now: clock.Now})

	outcome, err := tr.Apply(ctx)
	require.NoError(t, err)
	assert.Empty(t, outcome.BlockedFor)
	assert.Equal(t, 0, b.enableCalls, "started schedule never blocks")

	got, err := st.GetScheduleByID(ctx, sched.ID)
	require.NoError(t, err)
	assert.False(t, got.AutoBlockTriggered)
}

func TestReleaseWaitsForAllBlockedSchedules(t *testing.T) {
	st := testutil.NewTestStore(t)
	clock := newFakeClock(time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC))
	b := &fakeBlocker{privileged: true}
	ctx := context.Background()

	first := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "09:00", "10:00"))
	second := testutil.MustCreateSchedule(t, st, testutil.ScheduleOn("2026-08-30", "10:00", "10:30"))
	require.NoError(t, st.SetAutoBlockTriggered(ctx, first.ID, true))
	require.NoError(t, st.SetAutoBlockTriggered(ctx, second.ID, true))

	tr := NewTrigger(TriggerConfig{Store: st, Blocker: b, Sites: testSites, Now: clock.Now})

	outcome, err := tr.Apply(ctx)
	require.NoError(t, err)
	assert.Len(t, outcome.BlockedFor, 2)
	assert.True(t, b.active)

	// Starting one of the two keeps blocking in place.
	require.NoError(t, st.MarkStarted(ctx, first.ID, clock.Now()))
	outcome, err = tr.Apply(ctx)
	require.NoError(t, err)
	assert.False(t, outcome.Released)
	assert.True(t, b.active)

	// Resolving the last blocked schedule lifts it.
	require.NoError(t, st.MarkCompleted(ctx, second.ID, clock.Now()))
	outcome, err = tr.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, outcome.Released)
	assert.False(t, b.active)
}

func TestReleaseIfClearInactiveIsNoOp(t *testing.T) {
	st := testutil.NewTestStore(t)
	b := &fakeBlocker{privileged: true}

	tr := NewTrigger(TriggerConfig{Store: st, Blocker: b, Sites: testSites})

	released, err := tr.ReleaseIfClear(context.Background())
	require.NoError(t, err)
	assert.False(t, released)
	assert.Equal(t, 0, b.disableCalls)
}
