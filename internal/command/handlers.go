package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/calendar/internal/model"
)

// Menu lists the commands the dispatcher understands.
const Menu = `Commands:
  next | prev                          move to the next or previous week/month
  week | month                         show the week view, or toggle the month view
  today                                jump back to the current week and month
  add, <day>, <type>, <description>    add a task (type T, D or E)
      Deadline: ..., <by-date>, <by-time>
      Event:    ..., <start-date>, <start-time>, <end-date>, <end-time>
  update, <day>, <task>, <description>[, new dates and times as for add]
  delete, <day>, <task>                delete one task
  priority, <day>, <task>, <level>     set high, medium, low or none
  clear, <day>                         delete every task on a day
  list[, <day>]                        list tasks with their numbers
  help                                 show this menu
  quit                                 leave the calendar
<day> is a day of the month in the current view or a full dd/MM/yyyy date.`

func handleNext(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	d.calendar.Next()
	return Result{Rerender: true}, nil
}

func handlePrev(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	d.calendar.Prev()
	return Result{Rerender: true}, nil
}

func handleWeek(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	d.calendar.ShowWeek()
	return Result{Rerender: true}, nil
}

func handleMonth(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	d.calendar.ToggleMonth()
	return Result{Rerender: true}, nil
}

func handleToday(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	d.calendar.Reset(d.today())
	return Result{Rerender: true}, nil
}

func handleHelp(_ context.Context, _ *Dispatcher, _ []string) (Result, error) {
	return Result{Message: Menu}, nil
}

func handleQuit(_ context.Context, _ *Dispatcher, _ []string) (Result, error) {
	return Result{Message: "Exiting Calendar...", Quit: true}, nil
}

func handleAdd(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	const format = "add, <day>, <taskType>, <taskDescription>"
	if len(args) < 3 {
		return Result{}, usage(format)
	}
	day, err := d.ResolveDay(args[0])
	if err != nil {
		return Result{}, err
	}
	tt, err := model.ParseTaskType(args[1])
	if err != nil {
		return Result{}, err
	}

	desc, fields, ok := cutTrailing(args[2:], 2*model.FieldCount(tt))
	if !ok {
		_, _, err := splitFields(tt, nil)
		return Result{}, err
	}
	return d.AddManager(d.calendar.Active(), d.calendar.InMonthView(), "add", day, args[1], desc, fields...)
}

func handleUpdate(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	const format = "update, <day>, <taskIndex>, <newDescription>"
	if len(args) < 3 {
		return Result{}, usage(format)
	}
	day, err := d.ResolveDay(args[0])
	if err != nil {
		return Result{}, err
	}
	idx, err := parseTaskNumber(args[1])
	if err != nil {
		return Result{}, err
	}

	rest := args[2:]
	desc, fields := strings.Join(rest, ", "), []string(nil)
	if tasks := d.store.GetTasksForDate(day); idx >= 0 && idx < len(tasks) {
		if n := 2 * model.FieldCount(tasks[idx].Type()); n > 0 {
			if dsc, f, ok := cutTrailing(rest, n); ok {
				desc, fields = dsc, f
			}
		}
	}
	return d.UpdateManager(d.calendar.Active(), d.calendar.InMonthView(), d.store, day, idx, desc, fields...)
}

func handleDelete(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	if len(args) != 2 {
		return Result{}, usage("delete, <day>, <taskIndex>")
	}
	day, err := d.ResolveDay(args[0])
	if err != nil {
		return Result{}, err
	}
	idx, err := parseTaskNumber(args[1])
	if err != nil {
		return Result{}, err
	}
	return d.DeleteManager(d.calendar.Active(), d.calendar.InMonthView(), d.store, day, idx)
}

func handlePriority(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	if len(args) != 3 {
		return Result{}, usage("priority, <day>, <taskIndex>, <high|medium|low|none>")
	}
	day, err := d.ResolveDay(args[0])
	if err != nil {
		return Result{}, err
	}
	idx, err := parseTaskNumber(args[1])
	if err != nil {
		return Result{}, err
	}
	p, err := model.ParsePriority(args[2])
	if err != nil {
		return Result{}, err
	}
	if err := checkWindow(d.calendar.Active(), d.calendar.InMonthView(), day); err != nil {
		return Result{}, err
	}
	if err := d.store.SetPriority(day, idx, p); err != nil {
		return Result{}, err
	}
	d.logger.Info("priority set", "date", day, "index", idx, "priority", p)
	return Result{Message: fmt.Sprintf("Priority of task %d set to %s.", idx+1, p), Rerender: true}, d.persist()
}

func handleClear(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, usage("clear, <day>")
	}
	day, err := d.ResolveDay(args[0])
	if err != nil {
		return Result{}, err
	}
	if err := checkWindow(d.calendar.Active(), d.calendar.InMonthView(), day); err != nil {
		return Result{}, err
	}
	n := d.store.DeleteAllTasksOnDate(day)
	if n == 0 {
		return Result{}, fmt.Errorf("%s: %w", day, model.ErrNoSuchDate)
	}
	d.logger.Info("date cleared", "date", day, "count", n)
	return Result{Message: fmt.Sprintf("Deleted %d task(s) on %s.", n, day), Rerender: true}, d.persist()
}

func handleList(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	switch len(args) {
	case 0:
		var b strings.Builder
		for _, day := range d.calendar.Active().Range() {
			if d.store.HasTasks(day) {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(ListTasks(day, d.store.GetTasksForDate(day)))
			}
		}
		if b.Len() == 0 {
			return Result{Message: "No tasks in this " + d.calendar.Active().Granularity().String() + "."}, nil
		}
		return Result{Message: b.String()}, nil
	case 1:
		day, err := d.ResolveDay(args[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Message: ListTasks(day, d.store.GetTasksForDate(day))}, nil
	default:
		return Result{}, usage("list[, <day>]")
	}
}

// ListTasks renders the numbered tasks of one date.
func ListTasks(day model.Date, tasks []model.Task) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("No tasks on %s.", day)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks on %s (%s):", day, day.Weekday())
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, model.Summary(t))
		if p := t.GetPriority(); p != model.PriorityNone {
			fmt.Fprintf(&b, " [%s]", p)
		}
	}
	return b.String()
}

// cutTrailing splits rest into a description and its last n fields. The
// description may itself have contained commas, so every leading field is
// joined back.
func cutTrailing(rest []string, n int) (string, []string, bool) {
	if len(rest) < n+1 {
		return "", nil, false
	}
	cut := len(rest) - n
	return strings.Join(rest[:cut], ", "), rest[cut:], true
}
