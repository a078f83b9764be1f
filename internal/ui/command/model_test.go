package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func submit(t *testing.T, m Model) (Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestEnterEmitsCommand(t *testing.T) {
	m := typeText(New(80, 24), "  next ")
	m, msg := submit(t, m)

	if got, ok := msg.(CommandMsg); !ok || got != "next" {
		t.Fatalf("msg = %#v, want CommandMsg(next)", msg)
	}
	if m.Value() != "" {
		t.Errorf("input not cleared: %q", m.Value())
	}
}

func TestEnterOnBlankLineDoesNothing(t *testing.T) {
	_, msg := submit(t, typeText(New(80, 24), "   "))
	if msg != nil {
		t.Errorf("blank line emitted %#v", msg)
	}
}

func TestHistory(t *testing.T) {
	m := New(80, 24)
	for _, line := range []string{"next", "prev", "prev"} {
		m, _ = submit(t, typeText(m, line))
	}
	if got := m.History(); len(got) != 2 || got[0] != "next" || got[1] != "prev" {
		t.Fatalf("history = %v, want [next prev]", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Value() != "prev" {
		t.Errorf("up once = %q", m.Value())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Value() != "next" {
		t.Errorf("up past the start = %q", m.Value())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Value() != "" {
		t.Errorf("down past the end = %q", m.Value())
	}
}

func TestEscCancels(t *testing.T) {
	m := typeText(New(80, 24), "add")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Error("esc did not emit CancelMsg")
	}
	if m.Value() != "" {
		t.Errorf("input not cleared: %q", m.Value())
	}
}
