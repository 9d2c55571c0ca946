package helpview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/keys"
	"github.com/hdnguyen/focusdeck/internal/theme"
)

// Model renders the full-screen keyboard shortcut reference.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// Update is a no-op; the root model handles closing the help view.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the shortcut reference.
func (m Model) View() string {
	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{
			title: "Navigation",
			bindings: [][2]string{
				{"j/↓  k/↑", "move selection"},
				{"tab", "switch panel"},
				{"esc", "back"},
				{"q", "quit"},
			},
		},
		{
			title: "Schedules",
			bindings: [][2]string{
				{"a", "add schedule"},
				{"e", "edit schedule"},
				{"x", "delete schedule"},
				{"s", "start task (releases blocking)"},
				{"c", "complete task"},
				{"H", "toggle completed"},
			},
		},
		{
			title: "Notifications",
			bindings: [][2]string{
				{"d", "dismiss selected"},
				{"D", "dismiss all"},
			},
		},
		{
			title: "Engine",
			bindings: [][2]string{
				{"r", "run an evaluation cycle now"},
			},
		},
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Width(18)

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Keyboard Shortcuts"))
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(sec.title))
		b.WriteString("\n")
		for _, binding := range sec.bindings {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(binding[0]))
			b.WriteString(theme.HelpStyle.Render(binding[1]))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
