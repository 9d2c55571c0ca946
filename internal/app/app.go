package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/blocker"
	"github.com/hdnguyen/focusdeck/internal/engine"
	"github.com/hdnguyen/focusdeck/internal/keys"
	"github.com/hdnguyen/focusdeck/internal/store"
	appsync "github.com/hdnguyen/focusdeck/internal/sync"
	"github.com/hdnguyen/focusdeck/internal/theme"
	"github.com/hdnguyen/focusdeck/internal/ui"
	"github.com/hdnguyen/focusdeck/internal/ui/helpview"
	"github.com/hdnguyen/focusdeck/internal/ui/notifpanel"
	"github.com/hdnguyen/focusdeck/internal/ui/schedulelist"
	"github.com/hdnguyen/focusdeck/internal/ui/scheduleform"
)

// ViewState identifies which top-level view is active.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewForm
	ViewHelp
)

// schedulePanelRatio is the fraction of the content width given to the
// schedule list; the notification panel takes the rest.
const schedulePanelRatio = 0.6

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	currentView    ViewState
	previousView   ViewState
	layout         ui.Layout
	store          store.Store
	evaluator      *engine.Evaluator
	poller         *appsync.Poller
	blocker        blocker.Blocker
	keys           *keys.KeyMap
	scheduleList   schedulelist.Model
	notifPanel     notifpanel.Model
	form           scheduleform.Model
	helpView       helpview.Model
	ready          bool
	unreadCount    int
	blockingActive bool
	bannerMessage  string
	errorMessage   string
}

// New creates the root application model.
func New(s store.Store, ev *engine.Evaluator, p *appsync.Poller, b blocker.Blocker) Model {
	k := keys.DefaultKeyMap()

	scheduleList := schedulelist.New(s, k, 80, 24)
	notifPanel := notifpanel.New(s, k, 80, 24)
	notifPanel.SetFocused(false)

	return Model{
		currentView:  ViewDashboard,
		store:        s,
		evaluator:    ev,
		poller:       p,
		blocker:      b,
		keys:         k,
		scheduleList: scheduleList,
		notifPanel:   notifPanel,
		form:         scheduleform.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
	}
}

// Init loads both panels and starts the background evaluation loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scheduleList.Init(),
		m.notifPanel.Init(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resizePanels()
		return m.updateActiveView(msg)

	case appsync.EvalResultMsg:
		m.bannerMessage = msg.Warning
		m.layout.BannerHeight = 0
		if m.bannerMessage != "" {
			m.layout.BannerHeight = 1
		}
		m.unreadCount = msg.UnreadCount
		m.blockingActive = m.blocker.IsActive()
		return m, tea.Batch(
			m.scheduleList.LoadSchedules(),
			m.notifPanel.LoadNotifications(),
			m.poller.WaitForNextResult(),
		)

	case schedulelist.SchedulesLoadedMsg:
		var cmd tea.Cmd
		m.scheduleList, cmd = m.scheduleList.Update(msg)
		return m, cmd

	case notifpanel.NotificationsLoadedMsg:
		var cmd tea.Cmd
		m.notifPanel, cmd = m.notifPanel.Update(msg)
		return m, cmd

	case scheduleform.ScheduleSubmittedMsg:
		m.currentView = ViewDashboard
		return m, m.saveSchedule(msg.Schedule, msg.Edit)

	case scheduleform.ScheduleFormCancelMsg:
		m.currentView = ViewDashboard
		return m, nil

	case scheduleSavedMsg:
		if msg.err != nil {
			m.errorMessage = mutationErrorText(msg.err)
			return m, nil
		}
		m.errorMessage = ""
		return m, tea.Batch(m.scheduleList.LoadSchedules(), m.poller.Refresh())

	case actionResultMsg:
		if msg.err != nil {
			m.errorMessage = mutationErrorText(msg.err)
			return m, nil
		}
		m.errorMessage = ""
		return m, tea.Batch(
			m.scheduleList.LoadSchedules(),
			m.notifPanel.LoadNotifications(),
			m.poller.Refresh(),
		)

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that apply regardless of panel focus.
// The third return value reports whether the key was consumed.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return m, tea.Quit, true
	}

	// The form owns all other key input while open.
	if m.currentView == ViewForm {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewDashboard {
			m.poller.Stop()
			return m, tea.Quit, true
		}

	case "esc":
		if m.currentView != ViewDashboard {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.errorMessage = ""
		return m, nil, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "tab":
		if m.currentView == ViewDashboard {
			focusSchedules := !m.scheduleList.Focused()
			m.scheduleList.SetFocused(focusSchedules)
			m.notifPanel.SetFocused(!focusSchedules)
			return m, nil, true
		}

	case "r":
		if m.currentView == ViewDashboard {
			return m, m.poller.Refresh(), true
		}

	case "a":
		if m.currentView == ViewDashboard {
			m.previousView = m.currentView
			m.currentView = ViewForm
			return m, m.form.StartCreate(), true
		}

	case "e":
		if m.currentView == ViewDashboard {
			s, ok := m.scheduleList.SelectedSchedule()
			if !ok {
				return m, nil, true
			}
			m.previousView = m.currentView
			m.currentView = ViewForm
			return m, m.form.StartEdit(s), true
		}

	case "x":
		if m.currentView == ViewDashboard {
			s, ok := m.scheduleList.SelectedSchedule()
			if !ok {
				return m, nil, true
			}
			return m, m.deleteSchedule(s.ID), true
		}

	case "s":
		if m.currentView == ViewDashboard {
			s, ok := m.scheduleList.SelectedSchedule()
			if !ok || s.Started || s.Completed {
				return m, nil, true
			}
			return m, m.startSchedule(s.ID), true
		}

	case "c":
		if m.currentView == ViewDashboard {
			s, ok := m.scheduleList.SelectedSchedule()
			if !ok || s.Completed {
				return m, nil, true
			}
			return m, m.completeSchedule(s.ID), true
		}

	case "d":
		if m.currentView == ViewDashboard {
			n, ok := m.notifPanel.SelectedNotification()
			if !ok {
				return m, nil, true
			}
			return m, m.dismissNotification(n.ID), true
		}

	case "D":
		if m.currentView == ViewDashboard {
			return m, m.dismissAllNotifications(), true
		}

	case "H":
		if m.currentView == ViewDashboard {
			return m, m.scheduleList.ToggleShowCompleted(), true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		var cmds []tea.Cmd
		m.scheduleList, cmd = m.scheduleList.Update(msg)
		cmds = append(cmds, cmd)
		m.notifPanel, cmd = m.notifPanel.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "FocusDeck"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("FocusDeck [%d unread]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.engineStatus())
	banner := m.layout.RenderBanner(m.bannerMessage)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, banner, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewForm:
		return m.form.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		left := m.scheduleList.View()
		right := theme.PanelStyle.Render(m.notifPanel.View())
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
}

// engineStatus returns a short string describing the evaluation loop and
// blocking state for the header.
func (m Model) engineStatus() string {
	status := m.poller.Status()

	var state string
	switch status.State {
	case appsync.EvalRunning:
		state = "evaluating"
	case appsync.EvalError:
		state = "⚠ error"
	default:
		state = "idle"
	}

	if m.blockingActive {
		return theme.BlockingActiveStyle.Render("FOCUS MODE") + " | " + state
	}
	return state
}

// keyHints returns keyboard shortcut hints for the status bar, or the
// pending mutation error when one is set.
func (m Model) keyHints() string {
	if m.errorMessage != "" && m.currentView == ViewDashboard {
		return theme.ErrorStyle.Render(m.errorMessage)
	}

	switch m.currentView {
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewHelp:
		return "? close help | esc back"
	default:
		if m.notifPanel.Focused() {
			return "d dismiss | D dismiss all | tab schedules | ? help"
		}
		return "a add | e edit | s start | c complete | x delete | tab notifications | ? help"
	}
}

// resizePanels distributes the content area between the two dashboard
// panels and sizes the overlay views.
func (m *Model) resizePanels() {
	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()

	scheduleWidth := int(float64(contentWidth) * schedulePanelRatio)
	notifWidth := contentWidth - scheduleWidth

	m.scheduleList.SetSize(scheduleWidth, contentHeight)
	m.notifPanel.SetSize(notifWidth, contentHeight)
	m.form.SetSize(contentWidth, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
}
