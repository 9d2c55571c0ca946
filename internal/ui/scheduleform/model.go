package scheduleform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/theme"
)

// ScheduleSubmittedMsg is dispatched when the form is submitted. Edit is
// true when the submission updates an existing schedule.
type ScheduleSubmittedMsg struct {
	Schedule model.Schedule
	Edit     bool
}

// ScheduleFormCancelMsg is dispatched when the user cancels the form.
type ScheduleFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	category    string
	priority    string
	date        string
	startTime   string
	endTime     string
}

// Model is the Bubble Tea model for the schedule create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new schedule form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			priority: model.PriorityMedium,
			category: "Other",
		},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new schedule on
// today's date.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.category = "Other"
	m.fb.priority = model.PriorityMedium
	m.fb.date = time.Now().Format(model.DateLayout)
	m.fb.startTime = ""
	m.fb.endTime = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing schedule's values.
func (m *Model) StartEdit(s model.Schedule) tea.Cmd {
	m.editMode = true
	m.editID = s.ID
	m.fb.title = s.Title
	m.fb.description = s.Description
	m.fb.category = s.Category
	m.fb.priority = s.Priority
	m.fb.date = s.Date
	m.fb.startTime = s.StartTime
	m.fb.endTime = s.EndTime
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the schedule form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ScheduleFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the schedule form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Schedule"
	if m.editMode {
		titleText = "Edit Schedule"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	priorityOpts := make([]huh.Option[string], len(model.Priorities))
	for i, p := range model.Priorities {
		priorityOpts[i] = huh.NewOption(p, p)
	}

	categoryOpts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		categoryOpts[i] = huh.NewOption(c, c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What are you focusing on?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&m.fb.category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validateDate),
			huh.NewInput().
				Title("Start Time").
				Placeholder("HH:MM").
				Value(&m.fb.startTime).
				Validate(validateClock),
			huh.NewInput().
				Title("End Time").
				Placeholder("HH:MM").
				Value(&m.fb.endTime).
				Validate(validateClock),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	s := model.Schedule{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Category:    m.fb.category,
		Priority:    m.fb.priority,
		Date:        strings.TrimSpace(m.fb.date),
		StartTime:   strings.TrimSpace(m.fb.startTime),
		EndTime:     strings.TrimSpace(m.fb.endTime),
	}

	edit := m.editMode
	if edit {
		s.ID = m.editID
	}
	return func() tea.Msg { return ScheduleSubmittedMsg{Schedule: s, Edit: edit} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date, use YYYY-MM-DD")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := time.Parse(model.TimeLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}
