package schedulelist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/theme"
)

// ScheduleItem wraps a model.Schedule so it can be used in a bubbles/list.
type ScheduleItem struct {
	Schedule model.Schedule
}

// FilterValue returns the string used for fuzzy filtering.
func (i ScheduleItem) FilterValue() string { return i.Schedule.Title }

// Title returns the schedule title for the list.
func (i ScheduleItem) Title() string { return i.Schedule.Title }

// Description returns a short summary line for the list.
func (i ScheduleItem) Description() string {
	return fmt.Sprintf(
		"%s-%s | %s | %s",
		i.Schedule.StartTime,
		i.Schedule.EndTime,
		i.Schedule.Category,
		i.Schedule.Priority,
	)
}

// ScheduleDelegate implements list.ItemDelegate for rendering schedules.
type ScheduleDelegate struct{}

// Height returns the number of lines each item takes.
func (d ScheduleDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ScheduleDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ScheduleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single schedule line.
func (d ScheduleDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(ScheduleItem)
	if !ok {
		return
	}

	s := si.Schedule
	isSelected := index == m.Index()

	prefix := statusPrefix(s)

	timeRange := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(s.StartTime + "-" + s.EndTime)

	priBadge := theme.PriorityStyle(s.Priority).Render(priorityLabel(s.Priority))

	statusLabel := scheduleStatusLabel(s)
	statusBadge := theme.ScheduleStatusStyle(s.Completed, s.Started, s.AutoBlocked).
		Render(statusLabel)

	category := lipgloss.NewStyle().
		Foreground(theme.ColorMagenta).
		Render(s.Category)

	line := fmt.Sprintf(
		"%s %s %s %s %s  %s",
		prefix, timeRange, priBadge, statusBadge, s.Title, category,
	)

	if s.Completed {
		line = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// statusPrefix returns the one-character lifecycle marker.
func statusPrefix(s model.Schedule) string {
	switch {
	case s.Completed:
		return "✓"
	case s.Started:
		return "▶"
	default:
		return "○"
	}
}

// scheduleStatusLabel returns the short lifecycle label for a schedule.
func scheduleStatusLabel(s model.Schedule) string {
	switch {
	case s.Completed:
		return "done"
	case s.AutoBlocked:
		return "BLOCKED"
	case s.Started:
		return "active"
	case s.MissedNotified:
		return "missed"
	default:
		return "pending"
	}
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityUrgent:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}
