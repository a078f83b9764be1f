package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nhle/calendar/internal/command"
	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/tests/testutil"
)

func runREPL(t *testing.T, d *command.Dispatcher, input string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	renders := 0
	render := func() string {
		renders++
		return "<view " + d.Calendar().Active().Label() + ">"
	}
	if err := RunREPL(context.Background(), strings.NewReader(input), &out, d, render); err != nil {
		t.Fatalf("RunREPL: %v", err)
	}
	return out.String(), renders
}

func TestREPLRendersAndQuits(t *testing.T) {
	d, p := newTestDispatcher(t)

	out, renders := runREPL(t, d, "add, 12, T, Buy milk\nnext\nquit\nadd, 13, T, never\n")

	for _, want := range []string{
		"<view 10/06/2024 - 16/06/2024>",
		command.Menu,
		"Task added.",
		"<view 17/06/2024 - 23/06/2024>",
		"Exiting Calendar...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// initial, after add, after next
	if renders != 3 {
		t.Errorf("rendered %d times, want 3", renders)
	}
	if len(p.Saves) != 1 {
		t.Errorf("saved %d times, want 1", len(p.Saves))
	}
	if d.Store().HasTasks(testutil.MustDate(t, "13/06/2024")) {
		t.Error("input after quit was executed")
	}
}

func TestREPLPrintsErrorsAndContinues(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out, _ := runREPL(t, d, "bogus\nadd, 12, X, Nope\n\nlist\n")

	if !strings.Contains(out, "Error: invalid input, please try again") {
		t.Errorf("unknown command error missing:\n%s", out)
	}
	if !strings.Contains(out, "Error: ") || strings.Count(out, "Error: ") != 2 {
		t.Errorf("want two errors:\n%s", out)
	}
	if !strings.Contains(out, "No tasks in this week.") {
		t.Errorf("list after errors did not run:\n%s", out)
	}
}

func TestREPLStopsAtEOFWithoutNewline(t *testing.T) {
	d, _ := newTestDispatcher(t)

	runREPL(t, d, "add, 12, T, Last line")
	if !d.Store().HasTasks(testutil.MustDate(t, "12/06/2024")) {
		t.Error("final unterminated line was not executed")
	}
}

func TestREPLAddForm(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out, _ := runREPL(t, d, "add\n\n2\nSubmit report\n14/06/2024\n18:00\nlist, 12\nquit\n")

	tasks := d.Store().GetTasksForDate(testutil.MustDate(t, "12/06/2024"))
	if len(tasks) != 1 {
		t.Fatalf("12/06 has %d tasks, want 1", len(tasks))
	}
	dl, ok := tasks[0].(model.Deadline)
	if !ok || dl.Description != "Submit report" || dl.ByDate != "14/06/2024" || dl.ByTime != "18:00" {
		t.Errorf("task = %#v", tasks[0])
	}
	if !strings.Contains(out, "1. [D] Submit report (by: 14/06/2024 18:00)") {
		t.Errorf("list after the form did not run:\n%s", out)
	}
}

func TestREPLCancelledContext(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunREPL(ctx, strings.NewReader("next\n"), &bytes.Buffer{}, d, func() string { return "" })
	if err == nil {
		t.Error("RunREPL ignored a cancelled context")
	}
}
