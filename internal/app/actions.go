package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// scheduleSavedMsg reports the outcome of a create or update.
type scheduleSavedMsg struct {
	err error
}

// actionResultMsg reports the outcome of a lifecycle or notification action.
type actionResultMsg struct {
	err error
}

// saveSchedule returns a command that creates or updates a schedule. An
// update also clears the schedule's emitted notifications so the new
// window can fire fresh ones.
func (m Model) saveSchedule(s model.Schedule, edit bool) tea.Cmd {
	st := m.store
	ev := m.evaluator
	return func() tea.Msg {
		ctx := context.Background()
		if edit {
			if err := st.UpdateSchedule(ctx, s); err != nil {
				return scheduleSavedMsg{err: err}
			}
			return scheduleSavedMsg{err: ev.ResetSchedule(ctx, s.ID)}
		}
		_, err := st.CreateSchedule(ctx, s)
		return scheduleSavedMsg{err: err}
	}
}

// deleteSchedule returns a command that removes a schedule and its
// notifications.
func (m Model) deleteSchedule(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionResultMsg{err: st.DeleteSchedule(context.Background(), id)}
	}
}

// startSchedule returns a command that acknowledges the schedule as
// started; the next evaluation cycle releases any blocking it holds.
func (m Model) startSchedule(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionResultMsg{err: st.MarkStarted(context.Background(), id, time.Now())}
	}
}

// completeSchedule returns a command that marks the schedule done.
func (m Model) completeSchedule(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionResultMsg{err: st.MarkCompleted(context.Background(), id, time.Now())}
	}
}

// dismissNotification returns a command that marks one notification read.
func (m Model) dismissNotification(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionResultMsg{err: st.MarkNotificationRead(context.Background(), id)}
	}
}

// dismissAllNotifications returns a command that marks every
// notification read.
func (m Model) dismissAllNotifications() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return actionResultMsg{err: st.MarkAllNotificationsRead(context.Background())}
	}
}

// mutationErrorText renders a store error for the status bar.
func mutationErrorText(err error) string {
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		titles := make([]string, len(conflict.Conflicts))
		for i, c := range conflict.Conflicts {
			titles[i] = fmt.Sprintf("%s (%s-%s)", c.Title, c.StartTime, c.EndTime)
		}
		return "overlaps with " + strings.Join(titles, ", ")
	}

	if store.IsNotFound(err) {
		return "no longer exists; refresh with r"
	}

	return err.Error()
}
