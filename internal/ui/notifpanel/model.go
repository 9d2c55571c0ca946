package notifpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/keys"
	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
	"github.com/hdnguyen/focusdeck/internal/theme"
)

// NotificationsLoadedMsg is sent when unread notifications have been
// loaded from the store.
type NotificationsLoadedMsg struct {
	Notifications []model.Notification
}

// Model is the notification panel of the dashboard. It shows unread
// notifications ordered by urgency, most urgent first.
type Model struct {
	store         store.Store
	keys          *keys.KeyMap
	notifications []model.Notification
	cursor        int
	focused       bool
	width         int
	height        int
}

// New creates a new notification panel model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial notifications.
func (m Model) Init() tea.Cmd {
	return m.LoadNotifications()
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NotificationsLoadedMsg:
		model.SortForDisplay(msg.Notifications)
		m.notifications = msg.Notifications
		if m.cursor >= len(m.notifications) {
			m.cursor = len(m.notifications) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.notifications)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		}
		return m, nil
	}

	return m, nil
}

// View renders the notification panel.
func (m Model) View() string {
	title := theme.HeaderStyle.Render(fmt.Sprintf("Notifications (%d)", len(m.notifications)))

	if len(m.notifications) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Padding(1, 2).
			Render("All clear.")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}

	var b strings.Builder
	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}
	for i, n := range m.notifications {
		if i >= visible {
			remaining := len(m.notifications) - visible
			b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("  …and %d more", remaining)))
			break
		}
		b.WriteString(m.renderNotification(n, i == m.cursor))
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, b.String())
}

// renderNotification draws a single notification line.
func (m Model) renderNotification(n model.Notification, selected bool) string {
	badge := theme.SeverityStyle(n.Severity).Render(strings.ToUpper(n.Severity))
	line := fmt.Sprintf("%s %s", badge, n.Message)

	if selected && m.focused {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SelectedNotification returns the notification under the cursor, if any.
func (m Model) SelectedNotification() (model.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notifications) {
		return model.Notification{}, false
	}
	return m.notifications[m.cursor], true
}

// Count returns the number of notifications currently shown.
func (m Model) Count() int {
	return len(m.notifications)
}

// SetFocused marks whether this panel receives navigation keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Focused reports whether this panel receives navigation keys.
func (m Model) Focused() bool {
	return m.focused
}

// LoadNotifications returns a tea.Cmd that queries the store for unread
// notifications.
func (m Model) LoadNotifications() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetNotifications(context.Background(), true)
		if err != nil {
			return NotificationsLoadedMsg{Notifications: nil}
		}
		return NotificationsLoadedMsg{Notifications: notifications}
	}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
