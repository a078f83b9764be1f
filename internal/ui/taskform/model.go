package taskform

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/calendar/internal/command"
	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/theme"
)

// SubmitMsg is dispatched when the form completes.
type SubmitMsg struct {
	Request command.AddRequest
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// ErrCancelled is returned by Run when the user aborts the form.
var ErrCancelled = errors.New("add cancelled")

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	date        string
	taskType    model.TaskType
	description string
	byDate      string
	byTime      string
	startDate   string
	startTime   string
	endDate     string
	endTime     string
}

// Model is the Bubble Tea model for the add-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new add-task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{taskType: model.TypeTodo},
		width:  width,
		height: height,
	}
}

// Start resets the form for a new task on date.
func (m *Model) Start(date model.Date) tea.Cmd {
	m.reset(date)
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) reset(date model.Date) {
	*m.fb = formBindings{taskType: model.TypeTodo, date: date.String()}
}

// Update handles messages for the add-task form.
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
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the add-task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Task") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Run shows the form without a Bubble Tea program, one prompt at a time, on
// in and out. It is the add dialog of the plain command loop. in is read one
// byte at a time so that nothing past the last answer is consumed.
func Run(date model.Date, in io.Reader, out io.Writer) (command.AddRequest, error) {
	m := New(80, 24)
	m.reset(date)
	r := byteReader{in}

	if err := runAccessible(huh.NewForm(m.baseGroup()), r, out); err != nil {
		return command.AddRequest{}, err
	}

	// Hidden groups are not skipped in accessible mode, so the variant
	// group runs on its own once the type is known.
	var variant *huh.Group
	switch m.fb.taskType {
	case model.TypeDeadline:
		variant = m.deadlineGroup()
	case model.TypeEvent:
		variant = m.eventGroup()
	}
	if variant != nil {
		if err := runAccessible(huh.NewForm(variant), r, out); err != nil {
			return command.AddRequest{}, err
		}
	}
	return m.fb.request()
}

func runAccessible(form *huh.Form, in io.Reader, out io.Writer) error {
	err := form.WithAccessible(true).WithInput(in).WithOutput(out).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	if err != nil {
		return fmt.Errorf("add form: %w", err)
	}
	return nil
}

// byteReader hands out one byte per Read. huh starts a new scanner for
// every field, and a scanner reads ahead as far as it is allowed.
type byteReader struct {
	r io.Reader
}

func (b byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.r.Read(p[:1])
}

func (m *Model) buildForm() *huh.Form {
	fb := m.fb
	return huh.NewForm(
		m.baseGroup(),
		m.deadlineGroup().WithHideFunc(func() bool { return fb.taskType != model.TypeDeadline }),
		m.eventGroup().WithHideFunc(func() bool { return fb.taskType != model.TypeEvent }),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(formKeyMap())
}

func (m *Model) baseGroup() *huh.Group {
	fb := m.fb
	return huh.NewGroup(
		huh.NewInput().
			Title("Date").
			Placeholder("dd/MM/yyyy").
			Value(&fb.date).
			Validate(fb.validateDate),
		huh.NewSelect[model.TaskType]().
			Title("Type").
			Options(
				huh.NewOption("Todo", model.TypeTodo),
				huh.NewOption("Deadline", model.TypeDeadline),
				huh.NewOption("Event", model.TypeEvent),
			).
			Value(&fb.taskType),
		huh.NewInput().
			Title("Description").
			Placeholder("What needs to be done?").
			Value(&fb.description).
			Validate(validateRequired("Description")),
	)
}

func (m *Model) deadlineGroup() *huh.Group {
	fb := m.fb
	return huh.NewGroup(
		huh.NewInput().
			Title("Due date").
			Placeholder("dd/MM/yyyy").
			Value(&fb.byDate).
			Validate(validateRequired("Due date")),
		huh.NewInput().
			Title("Due time").
			Placeholder("HH:mm").
			Value(&fb.byTime).
			Validate(validateRequired("Due time")),
	)
}

func (m *Model) eventGroup() *huh.Group {
	fb := m.fb
	return huh.NewGroup(
		huh.NewInput().
			Title("Start date").
			Placeholder("dd/MM/yyyy").
			Value(&fb.startDate).
			Validate(validateRequired("Start date")),
		huh.NewInput().
			Title("Start time").
			Placeholder("HH:mm").
			Value(&fb.startTime).
			Validate(validateRequired("Start time")),
		huh.NewInput().
			Title("End date").
			Placeholder("dd/MM/yyyy").
			Value(&fb.endDate).
			Validate(validateRequired("End date")),
		huh.NewInput().
			Title("End time").
			Placeholder("HH:mm").
			Value(&fb.endTime).
			Validate(validateRequired("End time")),
	)
}

// formKeyMap lets esc abort the form as well as ctrl+c.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"))
	return km
}

func (m Model) handleSubmit() tea.Cmd {
	req, err := m.fb.request()
	if err != nil {
		return func() tea.Msg { return CancelMsg{} }
	}
	return func() tea.Msg { return SubmitMsg{Request: req} }
}

// request converts the bound values into an AddRequest.
func (fb *formBindings) request() (command.AddRequest, error) {
	date, err := model.ParseDate(fb.date)
	if err != nil {
		return command.AddRequest{}, err
	}
	req := command.AddRequest{
		Date:        date,
		Type:        fb.taskType,
		Description: strings.TrimSpace(fb.description),
	}
	switch fb.taskType {
	case model.TypeDeadline:
		req.Dates = []string{strings.TrimSpace(fb.byDate)}
		req.Times = []string{strings.TrimSpace(fb.byTime)}
	case model.TypeEvent:
		req.Dates = []string{strings.TrimSpace(fb.startDate), strings.TrimSpace(fb.endDate)}
		req.Times = []string{strings.TrimSpace(fb.startTime), strings.TrimSpace(fb.endTime)}
	}
	return req, nil
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

// validateDate accepts a blank answer while the bound date is still valid,
// which is how a prompt keeps its default.
func (fb *formBindings) validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		s = fb.date
	}
	return validateDate(s)
}

func validateDate(s string) error {
	if _, err := model.ParseDate(s); err != nil {
		return fmt.Errorf("invalid date format, use dd/MM/yyyy")
	}
	return nil
}
