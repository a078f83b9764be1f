package store

import (
	"errors"
	"testing"

	"github.com/nhle/calendar/internal/model"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func descriptions(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.GetDescription()
	}
	return out
}

func TestAddTaskAppendsToDate(t *testing.T) {
	tests := []struct {
		name  string
		tt    model.TaskType
		dates []string
		times []string
	}{
		{"todo", model.TypeTodo, nil, nil},
		{"deadline", model.TypeDeadline, []string{"12/06/2024"}, []string{"18:00"}},
		{"event", model.TypeEvent, []string{"11/06/2024", "12/06/2024"}, []string{"09:00", "17:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			d := mustDate(t, "10/06/2024")
			if err := s.AddTask(d, "first", model.TypeTodo, nil, nil); err != nil {
				t.Fatalf("AddTask: %v", err)
			}
			if err := s.AddTask(d, "added", tt.tt, tt.dates, tt.times); err != nil {
				t.Fatalf("AddTask: %v", err)
			}

			got := s.GetTasksForDate(d)
			last := got[len(got)-1]
			if last.GetDescription() != "added" || last.Type() != tt.tt {
				t.Errorf("last task = %s %q, want %s %q", last.Type(), last.GetDescription(), tt.tt, "added")
			}
		})
	}
}

func TestAddTaskErrors(t *testing.T) {
	tests := []struct {
		name  string
		tt    model.TaskType
		desc  string
		dates []string
		times []string
		want  error
	}{
		{"unknown type", model.TaskType(9), "x", nil, nil, model.ErrInvalidTaskType},
		{"deadline without time", model.TypeDeadline, "x", []string{"12/06/2024"}, nil, model.ErrMalformedArguments},
		{"event with one date", model.TypeEvent, "x", []string{"12/06/2024"}, []string{"09:00", "10:00"}, model.ErrMalformedArguments},
		{"empty description", model.TypeTodo, "  ", nil, nil, model.ErrMalformedArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			d := mustDate(t, "10/06/2024")
			err := s.AddTask(d, tt.desc, tt.tt, tt.dates, tt.times)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddTask error = %v, want %v", err, tt.want)
			}
			if s.HasTasks(d) {
				t.Error("failed add must not create the date key")
			}
		})
	}
}

func TestBuyMilkScenario(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")

	if err := s.AddTask(d, "Buy milk", model.TypeTodo, nil, nil); err != nil {
		t.Fatalf("add todo: %v", err)
	}
	if got := descriptions(s.GetTasksForDate(d)); len(got) != 1 || got[0] != "Buy milk" {
		t.Fatalf("tasks = %v, want [Buy milk]", got)
	}

	if err := s.AddTask(d, "Submit report", model.TypeDeadline, []string{"12/06/2024"}, []string{"18:00"}); err != nil {
		t.Fatalf("add deadline: %v", err)
	}
	tasks := s.GetTasksForDate(d)
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2", len(tasks))
	}
	dl, ok := tasks[1].(model.Deadline)
	if !ok {
		t.Fatalf("tasks[1] is %T, want model.Deadline", tasks[1])
	}
	if dl.ByTime != "18:00" {
		t.Errorf("ByTime = %q, want 18:00", dl.ByTime)
	}

	if !s.DeleteTask(d, 0) {
		t.Fatal("DeleteTask(0) reported no removal")
	}
	tasks = s.GetTasksForDate(d)
	if got := descriptions(tasks); len(got) != 1 || got[0] != "Submit report" {
		t.Fatalf("tasks = %v, want [Submit report]", got)
	}
	if tasks[0].Type() != model.TypeDeadline {
		t.Errorf("tasks[0] type = %s, want Deadline", tasks[0].Type())
	}
}

func TestDeleteOnlyTaskDropsKey(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.AddTask(d, "only", model.TypeTodo, nil, nil); err != nil {
		t.Fatal(err)
	}

	s.DeleteTask(d, 0)

	if got := s.GetTasksForDate(d); got == nil || len(got) != 0 {
		t.Errorf("GetTasksForDate = %#v, want empty non-nil slice", got)
	}
	if _, ok := s.Snapshot()[d]; ok {
		t.Error("snapshot still holds the emptied date")
	}
	if len(s.Dates()) != 0 {
		t.Errorf("Dates() = %v, want none", s.Dates())
	}
}

func TestDeleteInvalidIndexIsNoop(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.AddTask(d, "keep", model.TypeTodo, nil, nil); err != nil {
		t.Fatal(err)
	}

	for _, idx := range []int{-1, 1, 5} {
		if s.DeleteTask(d, idx) {
			t.Errorf("DeleteTask(%d) reported a removal", idx)
		}
	}
	if s.DeleteTask(mustDate(t, "11/06/2024"), 0) {
		t.Error("DeleteTask on an empty date reported a removal")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestUpdateTaskKeepsVariant(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.AddTask(d, "Submit report", model.TypeDeadline, []string{"12/06/2024"}, []string{"18:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPriority(d, 0, model.PriorityHigh); err != nil {
		t.Fatal(err)
	}

	got, err := s.UpdateTask(d, 0, Update{Description: "Submit final report"})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got != d {
		t.Errorf("task moved to %s, want it to stay on %s", got, d)
	}

	dl, ok := s.GetTasksForDate(d)[0].(model.Deadline)
	if !ok {
		t.Fatalf("task is %T after update, want model.Deadline", s.GetTasksForDate(d)[0])
	}
	if dl.Description != "Submit final report" || dl.ByDate != "12/06/2024" || dl.ByTime != "18:00" {
		t.Errorf("updated deadline = %+v", dl)
	}
	if dl.Priority != model.PriorityHigh {
		t.Errorf("priority = %s, want high", dl.Priority)
	}

	if _, err := s.UpdateTask(d, 0, Update{Description: "x", Dates: []string{"13/06/2024"}, Times: []string{"09:00"}}); err != nil {
		t.Fatalf("UpdateTask with fields: %v", err)
	}
	dl = s.GetTasksForDate(d)[0].(model.Deadline)
	if dl.ByDate != "13/06/2024" || dl.ByTime != "09:00" {
		t.Errorf("deadline fields = %s %s, want 13/06/2024 09:00", dl.ByDate, dl.ByTime)
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.AddTask(d, "a", model.TypeEvent, []string{"10/06/2024", "10/06/2024"}, []string{"09:00", "10:00"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		date  model.Date
		index int
		u     Update
		want  error
	}{
		{"no such date", mustDate(t, "11/06/2024"), 0, Update{Description: "x"}, model.ErrNoSuchDate},
		{"index too large", d, 1, Update{Description: "x"}, model.ErrIndexOutOfRange},
		{"negative index", d, -1, Update{Description: "x"}, model.ErrIndexOutOfRange},
		{"empty description", d, 0, Update{Description: ""}, model.ErrMalformedArguments},
		{"short dates", d, 0, Update{Description: "x", Dates: []string{"10/06/2024"}}, model.ErrMalformedArguments},
		{"bad new start", d, 0, Update{Description: "x", Dates: []string{"tomorrow", "10/06/2024"}}, model.ErrMalformedDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpdateTask(tt.date, tt.index, tt.u); !errors.Is(err, tt.want) {
				t.Errorf("UpdateTask error = %v, want %v", err, tt.want)
			}
			if got := s.GetTasksForDate(d)[0].GetDescription(); got != "a" {
				t.Errorf("failed update changed description to %q", got)
			}
		})
	}
}

func TestUpdateEventStartDateMovesTask(t *testing.T) {
	s := New()
	oldDate := mustDate(t, "10/06/2024")
	newDate := mustDate(t, "14/06/2024")

	if err := s.AddTask(oldDate, "Stay", model.TypeTodo, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.AddTask(oldDate, "Offsite", model.TypeEvent, []string{"10/06/2024", "11/06/2024"}, []string{"09:00", "17:00"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddTask(newDate, "Already there", model.TypeTodo, nil, nil); err != nil {
		t.Fatal(err)
	}
	total := s.Len()
	oldLen, newLen := len(s.GetTasksForDate(oldDate)), len(s.GetTasksForDate(newDate))

	got, err := s.UpdateTask(oldDate, 1, Update{
		Description: "Offsite (moved)",
		Dates:       []string{"14/06/2024", "15/06/2024"},
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got != newDate {
		t.Errorf("returned date = %s, want %s", got, newDate)
	}
	if n := len(s.GetTasksForDate(oldDate)); n != oldLen-1 {
		t.Errorf("old date has %d tasks, want %d", n, oldLen-1)
	}
	moved := s.GetTasksForDate(newDate)
	if len(moved) != newLen+1 {
		t.Fatalf("new date has %d tasks, want %d", len(moved), newLen+1)
	}
	ev, ok := moved[len(moved)-1].(model.Event)
	if !ok || ev.Description != "Offsite (moved)" || ev.StartTime != "09:00" || ev.EndDate != "15/06/2024" {
		t.Errorf("moved task = %#v", moved[len(moved)-1])
	}
	if s.Len() != total {
		t.Errorf("Len = %d, want %d", s.Len(), total)
	}
}

func TestUpdateEventSameStartStaysInPlace(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.AddTask(d, "Offsite", model.TypeEvent, []string{"11/06/2024", "12/06/2024"}, []string{"09:00", "17:00"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.UpdateTask(d, 0, Update{Description: "Offsite", Dates: []string{"11/06/2024", "13/06/2024"}})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got != d || len(s.GetTasksForDate(d)) != 1 {
		t.Errorf("event with unchanged start moved to %s", got)
	}
}

func TestDeleteAllTasksOnDate(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	for _, desc := range []string{"a", "b", "c"} {
		if err := s.AddTask(d, desc, model.TypeTodo, nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	if n := s.DeleteAllTasksOnDate(d); n != 3 {
		t.Errorf("DeleteAllTasksOnDate = %d, want 3", n)
	}
	if s.HasTasks(d) || s.Len() != 0 {
		t.Error("date still has tasks")
	}
	if n := s.DeleteAllTasksOnDate(d); n != 0 {
		t.Errorf("second DeleteAllTasksOnDate = %d, want 0", n)
	}
}

func TestSetPriorityErrors(t *testing.T) {
	s := New()
	d := mustDate(t, "10/06/2024")
	if err := s.SetPriority(d, 0, model.PriorityLow); !errors.Is(err, model.ErrNoSuchDate) {
		t.Errorf("SetPriority on empty date = %v, want ErrNoSuchDate", err)
	}
	if err := s.AddTask(d, "a", model.TypeTodo, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPriority(d, 3, model.PriorityLow); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Errorf("SetPriority out of range = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLoadFromSnapshotSkipsBadRecords(t *testing.T) {
	d := mustDate(t, "10/06/2024")
	snap := Snapshot{
		d: {
			{Tag: "T", Description: "good", Priority: "low"},
			{Tag: "X", Description: "bad tag"},
			{Tag: "D", Description: "missing time", Dates: []string{"12/06/2024"}},
			{Tag: "D", Description: "deadline", Dates: []string{"12/06/2024"}, Times: []string{"18:00"}},
		},
	}

	s := New()
	err := s.LoadFromSnapshot(snap)
	if !errors.Is(err, model.ErrInvalidTaskType) || !errors.Is(err, model.ErrMalformedArguments) {
		t.Errorf("LoadFromSnapshot error = %v, want both invalid type and malformed arguments", err)
	}

	tasks := s.GetTasksForDate(d)
	if got := descriptions(tasks); len(got) != 2 || got[0] != "good" || got[1] != "deadline" {
		t.Fatalf("loaded = %v, want [good deadline]", got)
	}
	if tasks[0].GetPriority() != model.PriorityLow {
		t.Errorf("priority = %s, want low", tasks[0].GetPriority())
	}
}
