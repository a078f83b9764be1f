package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nhle/calendar/internal/model"
)

// TaskStore maps calendar dates to their ordered task lists. A date key
// exists only while its list is non-empty, and list order is insertion order.
//
// Tasks are addressed by position. Callers must re-fetch a date's list and
// re-check an index right before using it; an earlier delete or move on the
// same date shifts every later index. TaskStore is not safe for concurrent
// use.
type TaskStore struct {
	tasks map[model.Date][]model.Task
}

// Update describes a change to an existing task. A nil Dates or Times slice
// keeps the task's current values; a non-nil slice must carry as many
// elements as the variant consumes.
type Update struct {
	Description string
	Dates       []string
	Times       []string
}

// New returns an empty store.
func New() *TaskStore {
	return &TaskStore{tasks: make(map[model.Date][]model.Task)}
}

// AddTask constructs a task of type tt and appends it to date's list.
func (s *TaskStore) AddTask(date model.Date, description string, tt model.TaskType, dates, times []string) error {
	task, err := model.NewTask(tt, description, dates, times)
	if err != nil {
		return fmt.Errorf("adding task on %s: %w", date, err)
	}
	s.tasks[date] = append(s.tasks[date], task)
	return nil
}

// DeleteTask removes the task at index from date's list. A missing date or
// an index outside [0, len) leaves the store untouched and returns false.
func (s *TaskStore) DeleteTask(date model.Date, index int) bool {
	list, ok := s.tasks[date]
	if !ok || index < 0 || index >= len(list) {
		return false
	}
	s.removeAt(date, index)
	return true
}

// UpdateTask replaces the task at index on date, keeping its variant and
// priority. When an Event's start date changes the task moves to the end of
// the new start date's list. It returns the date the task lives on afterwards.
func (s *TaskStore) UpdateTask(date model.Date, index int, u Update) (model.Date, error) {
	old, err := s.taskAt(date, index)
	if err != nil {
		return date, err
	}

	description := strings.TrimSpace(u.Description)
	if description == "" {
		return date, fmt.Errorf("updating task %d on %s: %w: description must not be empty",
			index, date, model.ErrMalformedArguments)
	}

	dates, times := u.Dates, u.Times
	if dates == nil {
		dates = old.Dates()
	}
	if times == nil {
		times = old.Times()
	}

	updated, err := model.NewTask(old.Type(), description, dates, times)
	if err != nil {
		return date, fmt.Errorf("updating task %d on %s: %w", index, date, err)
	}
	updated = updated.WithPriority(old.GetPriority())

	target := date
	if ev, ok := updated.(model.Event); ok {
		oldStart := old.(model.Event).StartDate
		if ev.StartDate != oldStart {
			target, err = startDateChange(oldStart, ev.StartDate, date)
			if err != nil {
				return date, fmt.Errorf("updating task %d on %s: %w", index, date, err)
			}
		}
	}

	if target == date {
		s.tasks[date][index] = updated
		return date, nil
	}

	s.removeAt(date, index)
	s.tasks[target] = append(s.tasks[target], updated)
	return target, nil
}

// startDateChange resolves the list an updated Event belongs to. A start date
// that only differs in spelling from the old one keeps the task where it is.
func startDateChange(oldStart, newStart string, current model.Date) (model.Date, error) {
	next, err := model.ParseDate(newStart)
	if err != nil {
		return current, err
	}
	if prev, err := model.ParseDate(oldStart); err == nil && prev == next {
		return current, nil
	}
	return next, nil
}

// SetPriority changes the priority of the task at index on date.
func (s *TaskStore) SetPriority(date model.Date, index int, p model.Priority) error {
	task, err := s.taskAt(date, index)
	if err != nil {
		return err
	}
	s.tasks[date][index] = task.WithPriority(p)
	return nil
}

// GetTasksForDate returns a copy of date's list. It is never nil.
func (s *TaskStore) GetTasksForDate(date model.Date) []model.Task {
	list := s.tasks[date]
	out := make([]model.Task, len(list))
	copy(out, list)
	return out
}

// DeleteAllTasksOnDate drops every task on date and returns how many there
// were.
func (s *TaskStore) DeleteAllTasksOnDate(date model.Date) int {
	n := len(s.tasks[date])
	delete(s.tasks, date)
	return n
}

// HasTasks reports whether date has at least one task.
func (s *TaskStore) HasTasks(date model.Date) bool {
	return len(s.tasks[date]) > 0
}

// Dates returns every date holding tasks, in calendar order.
func (s *TaskStore) Dates() []model.Date {
	dates := make([]model.Date, 0, len(s.tasks))
	for d := range s.tasks {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, model.Date.Compare)
	return dates
}

// Len returns the number of tasks across all dates.
func (s *TaskStore) Len() int {
	n := 0
	for _, list := range s.tasks {
		n += len(list)
	}
	return n
}

// Snapshot exports the whole store in its persisted shape.
func (s *TaskStore) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.tasks))
	for date, list := range s.tasks {
		records := make([]Record, len(list))
		for i, t := range list {
			records[i] = RecordOf(t)
		}
		snap[date] = records
	}
	return snap
}

// LoadFromSnapshot adds every record of snap through AddTask, dates in
// calendar order and records in their stored order, so loading applies the
// same validation as an interactive add. Invalid records are skipped; their
// errors are returned joined once everything else has loaded.
func (s *TaskStore) LoadFromSnapshot(snap Snapshot) error {
	var errs []error
	for _, date := range snap.Dates() {
		for i, rec := range snap[date] {
			if err := s.loadRecord(date, rec); err != nil {
				errs = append(errs, fmt.Errorf("record %d on %s: %w", i+1, date, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *TaskStore) loadRecord(date model.Date, rec Record) error {
	tt, err := model.ParseTaskType(rec.Tag)
	if err != nil {
		return err
	}
	p, err := model.ParsePriority(rec.Priority)
	if err != nil {
		return err
	}
	if err := s.AddTask(date, rec.Description, tt, rec.Dates, rec.Times); err != nil {
		return err
	}
	if p != model.PriorityNone {
		last := len(s.tasks[date]) - 1
		s.tasks[date][last] = s.tasks[date][last].WithPriority(p)
	}
	return nil
}

func (s *TaskStore) taskAt(date model.Date, index int) (model.Task, error) {
	list, ok := s.tasks[date]
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%s: %w", date, model.ErrNoSuchDate)
	}
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("%s has %d task(s), index %d: %w", date, len(list), index, model.ErrIndexOutOfRange)
	}
	return list[index], nil
}

func (s *TaskStore) removeAt(date model.Date, index int) {
	list := slices.Delete(s.tasks[date], index, index+1)
	if len(list) == 0 {
		delete(s.tasks, date)
		return
	}
	s.tasks[date] = list
}
