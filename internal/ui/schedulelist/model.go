package schedulelist

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/keys"
	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
	"github.com/hdnguyen/focusdeck/internal/theme"
)

// SchedulesLoadedMsg is sent when schedules have been loaded from the store.
type SchedulesLoadedMsg struct {
	Schedules []model.Schedule
}

// Model is the schedule list panel of the dashboard.
type Model struct {
	list          list.Model
	store         store.Store
	keys          *keys.KeyMap
	showCompleted bool
	focused       bool
	width         int
	height        int
}

// New creates a new schedule list model showing today's schedules.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ScheduleDelegate{}, width, height-2)
	l.Title = "Today"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:          l,
		store:         s,
		keys:          k,
		showCompleted: true,
		focused:       true,
		width:         width,
		height:        height,
	}
}

// Init returns a command that loads the initial set of schedules.
func (m Model) Init() tea.Cmd {
	return m.LoadSchedules()
}

// Update handles messages for the schedule list panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SchedulesLoadedMsg:
		items := make([]list.Item, 0, len(msg.Schedules))
		for _, s := range msg.Schedules {
			if !m.showCompleted && s.Completed {
				continue
			}
			items = append(items, ScheduleItem{Schedule: s})
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if key.Matches(msg, m.keys.Down) || key.Matches(msg, m.keys.Up) {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the schedule list panel.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when today has no schedules.
func (m Model) renderEmptyState() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render("No schedules for today.\n\nPress a to add one.")
}

// SelectedSchedule returns the schedule under the cursor, if any.
func (m Model) SelectedSchedule() (model.Schedule, bool) {
	item, ok := m.list.SelectedItem().(ScheduleItem)
	if !ok {
		return model.Schedule{}, false
	}
	return item.Schedule, true
}

// ToggleShowCompleted flips visibility of completed schedules and reloads.
func (m *Model) ToggleShowCompleted() tea.Cmd {
	m.showCompleted = !m.showCompleted
	return m.LoadSchedules()
}

// SetFocused marks whether this panel receives navigation keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Focused reports whether this panel receives navigation keys.
func (m Model) Focused() bool {
	return m.focused
}

// LoadSchedules returns a tea.Cmd that queries the store for today's
// schedules ordered by start time.
func (m Model) LoadSchedules() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		today := time.Now().Format(model.DateLayout)
		schedules, err := s.GetSchedules(context.Background(), store.ScheduleFilter{
			Date: &today,
		})
		if err != nil {
			return SchedulesLoadedMsg{Schedules: nil}
		}
		return SchedulesLoadedMsg{Schedules: schedules}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
