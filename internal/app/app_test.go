package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/internal/engine"
	appsync "github.com/hdnguyen/focusdeck/internal/sync"
	"github.com/hdnguyen/focusdeck/tests/testutil"
)

type stubBlocker struct{ active bool }

func (b *stubBlocker) HasElevatedPrivileges() bool { return true }

func (b *stubBlocker) EnableBlocking(ctx context.Context, sites []string) (*blocker.Result, error) {
	b.active = true
	return &blocker.Result{Success: true, BlockedSites: sites}, nil
}

func (b *stubBlocker) DisableBlocking(ctx context.Context) (*blocker.Result, error) {
	b.active = false
	return &blocker.Result{Success: true}, nil
}

func (b *stubBlocker) IsActive() bool { return b.active }

func newTestModel(t *testing.T) Model {
	t.Helper()

	st := testutil.NewTestStore(t)
	b := &stubBlocker{}
	ev := engine.NewEvaluator(engine.Config{Store: st, RecheckInterval: -1})
	tr := engine.NewTrigger(engine.TriggerConfig{Store: st, Blocker: b})
	p := appsync.New(st, ev, tr, time.Minute)

	return New(st, ev, p, b)
}

func TestEngineStatusShowsFocusMode(t *testing.T) {
	m := newTestModel(t)
	assert.NotContains(t, m.engineStatus(), "FOCUS MODE")

	m.blockingActive = true
	assert.Contains(t, m.engineStatus(), "FOCUS MODE")
}

func TestKeyHintsShowMutationError(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.keyHints(), "a add")

	m.errorMessage = "overlaps with Deep work (09:00-10:00)"
	assert.Contains(t, m.keyHints(), "overlaps with Deep work")

	// Overlay views show their own hints, not the pending error.
	m.currentView = ViewHelp
	assert.NotContains(t, m.keyHints(), "overlaps")
}
