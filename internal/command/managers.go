package command

import (
	"context"
	"fmt"

	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/store"
	"github.com/nhle/calendar/internal/window"
)

// AddRequest is a fully parsed add, as produced by the interactive form.
type AddRequest struct {
	Date        model.Date
	Type        model.TaskType
	Description string
	Dates       []string
	Times       []string
}

// AddTask adds a task described by req to the active window.
func (d *Dispatcher) AddTask(ctx context.Context, req AddRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	res, err := d.addTask(d.calendar.Active(), d.calendar.InMonthView(), "form", req)
	if err != nil {
		d.logger.Warn("add rejected", "kind", Kind(err), "err", err)
	}
	return res, err
}

// AddManager checks day against win, parses taskTypeString and adds the task.
// fields carry the variant's date and time arguments in the order the user
// types them: by-date, by-time for a Deadline and start-date, start-time,
// end-date, end-time for an Event.
func (d *Dispatcher) AddManager(win *window.Window, inMonthView bool, action string, day model.Date,
	taskTypeString, description string, fields ...string,
) (Result, error) {
	tt, err := model.ParseTaskType(taskTypeString)
	if err != nil {
		return Result{}, err
	}
	dates, times, err := splitFields(tt, fields)
	if err != nil {
		return Result{}, err
	}
	return d.addTask(win, inMonthView, action, AddRequest{
		Date:        day,
		Type:        tt,
		Description: description,
		Dates:       dates,
		Times:       times,
	})
}

func (d *Dispatcher) addTask(win *window.Window, inMonthView bool, action string, req AddRequest) (Result, error) {
	if err := checkWindow(win, inMonthView, req.Date); err != nil {
		return Result{}, err
	}
	if err := d.store.AddTask(req.Date, req.Description, req.Type, req.Dates, req.Times); err != nil {
		return Result{}, err
	}
	d.logger.Info("task added",
		"via", action,
		"date", req.Date,
		"index", len(d.store.GetTasksForDate(req.Date))-1,
		"type", req.Type)

	res := Result{Message: "Task added.", Rerender: true}
	return res, d.persist()
}

// UpdateManager checks day against win and replaces the task at taskIndex
// (0-based) with newDescription. Without fields the variant's dates and
// times stay as they are; with them, they follow the AddManager order.
func (d *Dispatcher) UpdateManager(win *window.Window, inMonthView bool, st *store.TaskStore, day model.Date,
	taskIndex int, newDescription string, fields ...string,
) (Result, error) {
	if err := checkWindow(win, inMonthView, day); err != nil {
		return Result{}, err
	}
	if !st.HasTasks(day) {
		return Result{}, fmt.Errorf("%s: %w", day, model.ErrNoSuchDate)
	}

	u := store.Update{Description: newDescription}
	var tt model.TaskType
	if tasks := st.GetTasksForDate(day); taskIndex >= 0 && taskIndex < len(tasks) {
		tt = tasks[taskIndex].Type()
	}
	if len(fields) > 0 && tt.Valid() {
		dates, times, err := splitFields(tt, fields)
		if err != nil {
			return Result{}, err
		}
		u.Dates, u.Times = dates, times
	}

	moved, err := st.UpdateTask(day, taskIndex, u)
	if err != nil {
		return Result{}, err
	}
	d.logger.Info("task updated", "date", day, "index", taskIndex, "type", tt, "now_on", moved)

	msg := fmt.Sprintf("%s updated.", tt)
	if moved != day {
		msg = fmt.Sprintf("%s updated and moved to %s.", tt, moved)
	}
	return Result{Message: msg, Rerender: true}, d.persist()
}

// DeleteManager checks day against win and deletes the task at taskIndex
// (0-based). An index with no task is not an error; nothing is deleted or
// saved and the message says so.
func (d *Dispatcher) DeleteManager(win *window.Window, inMonthView bool, st *store.TaskStore, day model.Date,
	taskIndex int,
) (Result, error) {
	if err := checkWindow(win, inMonthView, day); err != nil {
		return Result{}, err
	}
	if !st.HasTasks(day) {
		return Result{}, fmt.Errorf("%s: %w", day, model.ErrNoSuchDate)
	}

	if !st.DeleteTask(day, taskIndex) {
		d.logger.Debug("delete ignored", "date", day, "index", taskIndex)
		return Result{Message: fmt.Sprintf("There is no task %d on %s. Nothing was deleted.", taskIndex+1, day)}, nil
	}
	d.logger.Info("task deleted", "date", day, "index", taskIndex)
	return Result{Message: "Task deleted.", Rerender: true}, d.persist()
}

// splitFields maps user-ordered variant arguments to the store's date and
// time slices.
func splitFields(tt model.TaskType, fields []string) (dates, times []string, err error) {
	switch tt {
	case model.TypeTodo:
		return nil, nil, nil
	case model.TypeDeadline:
		if len(fields) != 2 {
			return nil, nil, usage("<by-date>, <by-time> for a Deadline")
		}
		return []string{fields[0]}, []string{fields[1]}, nil
	case model.TypeEvent:
		if len(fields) != 4 {
			return nil, nil, usage("<start-date>, <start-time>, <end-date>, <end-time> for an Event")
		}
		return []string{fields[0], fields[2]}, []string{fields[1], fields[3]}, nil
	default:
		panic(fmt.Sprintf("command: unknown task type %d", int(tt)))
	}
}
