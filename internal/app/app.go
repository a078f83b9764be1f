package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/calendar/internal/clock"
	"github.com/nhle/calendar/internal/command"
	"github.com/nhle/calendar/internal/keys"
	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/theme"
	"github.com/nhle/calendar/internal/ui"
	uicalendar "github.com/nhle/calendar/internal/ui/calendar"
	cmdline "github.com/nhle/calendar/internal/ui/command"
	helpview "github.com/nhle/calendar/internal/ui/help"
	"github.com/nhle/calendar/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewCommand
	ViewAdd
	ViewHelp
	ViewMessage
)

// Model is the root Bubble Tea model that routes between views and hands
// every change to the dispatcher.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	dispatcher   *command.Dispatcher
	clock        *clock.Watcher
	logger       *log.Logger
	keys         *keys.KeyMap
	commandView  cmdline.Model
	formView     taskform.Model
	helpView     helpview.Model
	cellWidth    int
	message      string
	isError      bool
	ready        bool
}

// New creates the root model. cellWidth is the width of one day column. A nil
// watcher leaves date changes unnoticed until the next key press.
func New(d *command.Dispatcher, w *clock.Watcher, logger *log.Logger, cellWidth int) Model {
	km := keys.DefaultKeyMap()
	if cellWidth < uicalendar.MinCellWidth {
		cellWidth = uicalendar.MinCellWidth
	}
	return Model{
		currentView: ViewCalendar,
		dispatcher:  d,
		clock:       w,
		logger:      logger,
		keys:        km,
		commandView: cmdline.New(80, 24),
		formView:    taskform.New(80, 24),
		helpView:    helpview.New(km, command.Menu, 80, 24),
		cellWidth:   cellWidth,
	}
}

// Init starts watching for date changes.
func (m Model) Init() tea.Cmd {
	if m.clock == nil {
		return nil
	}
	return m.clock.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.commandView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case cmdline.CommandMsg:
		m.currentView = ViewCalendar
		return m.run(string(msg))

	case cmdline.CancelMsg:
		m.currentView = ViewCalendar
		return m, nil

	case taskform.SubmitMsg:
		m.currentView = ViewCalendar
		res, err := m.dispatcher.AddTask(context.Background(), msg.Request)
		return m.show(res, err)

	case clock.DayChangedMsg:
		m.logger.Info("date changed", "from", msg.Previous, "to", msg.Today)
		if m.currentView != ViewMessage {
			m.setMessage(fmt.Sprintf("Today is now %s.", msg.Today), false)
		}
		return m, m.clock.WaitForNext()

	case taskform.CancelMsg:
		m.currentView = ViewCalendar
		m.setMessage("Add cancelled.", false)
		return m, nil

	case tea.KeyMsg:
		// ctrl+c always quits, even while typing.
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.currentView {
		case ViewCalendar:
			return m.handleCalendarKey(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = ViewCalendar
				return m, nil
			}
			if key.Matches(msg, m.keys.Quit) {
				return m.quit()
			}
		case ViewMessage:
			// Any key dismisses the message.
			m.currentView = ViewCalendar
			m.message = ""
			return m, nil
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Next):
		return m.run("next")
	case key.Matches(msg, m.keys.Prev):
		return m.run("prev")
	case key.Matches(msg, m.keys.Today):
		return m.run("today")
	case key.Matches(msg, m.keys.Month):
		return m.run("month")
	case key.Matches(msg, m.keys.Week):
		return m.run("week")
	case key.Matches(msg, m.keys.Add):
		m.previousView = m.currentView
		m.currentView = ViewAdd
		m.message = ""
		return m, m.formView.Start(addDefault(m.dispatcher))
	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		m.message = ""
		return m, m.commandView.Focus()
	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.message = ""
		return m, nil
	}
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewAdd:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// run executes one command line on the update goroutine, which keeps every
// store call serialized.
func (m Model) run(line string) (tea.Model, tea.Cmd) {
	res, err := m.dispatcher.Execute(context.Background(), line)
	return m.show(res, err)
}

func (m Model) show(res command.Result, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if !command.IsRecoverable(err) {
			m.logger.Error("command failed", "err", err)
		}
		m.setMessage("Error: "+err.Error(), true)
		return m, nil
	}
	if res.Quit {
		return m.quit()
	}
	m.setMessage(res.Message, false)
	if strings.Contains(res.Message, "\n") {
		m.previousView = m.currentView
		m.currentView = ViewMessage
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.clock != nil {
		m.clock.Stop()
	}
	return m, tea.Quit
}

func (m *Model) setMessage(msg string, isError bool) {
	m.message = msg
	m.isError = isError
}

// addDefault picks the date the add form starts on: today when it is on
// screen, otherwise the first day shown.
func addDefault(d *command.Dispatcher) model.Date {
	win := d.Calendar().Active()
	today := d.Today()
	if win.Contains(today) {
		return today
	}
	return win.Range()[0]
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	cal := m.dispatcher.Calendar()
	header := m.layout.RenderHeader("Calendar", cal.Active().Label())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.statusMessage())
	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCalendar:
		return m.renderCalendar()
	case ViewCommand:
		return m.renderCalendar() + "\n" + m.commandView.View()
	case ViewAdd:
		return m.formView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewMessage:
		return theme.PanelStyle.Width(m.layout.ContentWidth() - 4).Render(theme.MessageStyle.Render(m.message))
	default:
		return ""
	}
}

func (m Model) renderCalendar() string {
	d := m.dispatcher
	return uicalendar.Render(d.Calendar().Active(), d.Store(), d.Today(), m.cellWidth)
}

func (m Model) statusMessage() string {
	switch {
	case m.message == "" || m.currentView == ViewMessage:
		return ""
	case m.isError:
		return theme.ErrorStyle.Render(m.message)
	default:
		return theme.MessageStyle.Render(m.message)
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewCommand:
		return "enter: run  esc: cancel  ↑/↓: history"
	case ViewAdd:
		return "enter: next  esc: cancel"
	case ViewHelp:
		return "?/esc: close"
	case ViewMessage:
		return "any key: back"
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(hints, "  ")
}

// CurrentView reports the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Message returns the last result or error shown to the user.
func (m Model) Message() string {
	return m.message
}
