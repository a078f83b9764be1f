package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/calendar/internal/theme"
)

// maxHistory bounds the remembered command lines.
const maxHistory = 100

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the user leaves the command line with esc.
type CancelMsg struct{}

// Model is the command line view.
type Model struct {
	input   textinput.Model
	history []string
	cursor  int // index into history; len(history) means a fresh line
	width   int
	height  int
}

// New creates a new command line model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "add, 12, T, Buy milk"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command line.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				m.remember(cmd)
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil
		case "esc":
			m.input.Reset()
			m.cursor = len(m.history)
			return m, func() tea.Msg { return CancelMsg{} }
		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.input.SetValue(m.history[m.cursor])
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if m.cursor < len(m.history) {
				m.cursor++
			}
			if m.cursor == len(m.history) {
				m.input.Reset()
			} else {
				m.input.SetValue(m.history[m.cursor])
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.cursor = len(m.history)
}

// History returns the remembered lines, oldest first.
func (m Model) History() []string {
	return append([]string(nil), m.history...)
}

// Value returns the text currently typed.
func (m Model) Value() string {
	return m.input.Value()
}

// View renders the command line.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	title := titleStyle.Render("Command")
	hint := theme.HelpStyle.Render("enter to run · ↑/↓ history · esc to close")

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), hint)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command line dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
