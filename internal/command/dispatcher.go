// Package command parses comma-separated calendar commands and applies them
// to a task store, gated by the window currently on screen.
package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/store"
	"github.com/nhle/calendar/internal/window"
)

// ErrUnknownCommand is returned for a keyword no handler recognizes.
var ErrUnknownCommand = errors.New("invalid input, please try again")

// Result is the outcome of one command.
type Result struct {
	// Message is shown to the user. It may span several lines.
	Message string

	// Quit asks the caller to stop reading commands.
	Quit bool

	// Rerender asks the caller to redraw the calendar.
	Rerender bool
}

type handler func(ctx context.Context, d *Dispatcher, args []string) (Result, error)

var handlers = map[string]handler{
	"next":     handleNext,
	"prev":     handlePrev,
	"week":     handleWeek,
	"month":    handleMonth,
	"today":    handleToday,
	"add":      handleAdd,
	"update":   handleUpdate,
	"delete":   handleDelete,
	"priority": handlePriority,
	"clear":    handleClear,
	"list":     handleList,
	"help":     handleHelp,
	"quit":     handleQuit,
	"exit":     handleQuit,
}

// Dispatcher owns the task store, the calendar windows and the persister
// for one session. It is not safe for concurrent use.
type Dispatcher struct {
	store     *store.TaskStore
	calendar  *Calendar
	persister store.Persister
	logger    *log.Logger
	today     func() model.Date
}

// New returns a dispatcher. A nil persister keeps changes in memory only.
func New(st *store.TaskStore, cal *Calendar, p store.Persister, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store:     st,
		calendar:  cal,
		persister: p,
		logger:    logger,
		today:     model.Today,
	}
}

// SetClock overrides how the dispatcher learns today's date.
func (d *Dispatcher) SetClock(today func() model.Date) { d.today = today }

// Store returns the task store.
func (d *Dispatcher) Store() *store.TaskStore { return d.store }

// Calendar returns the calendar windows.
func (d *Dispatcher) Calendar() *Calendar { return d.calendar }

// Today returns the dispatcher's notion of today.
func (d *Dispatcher) Today() model.Date { return d.today() }

// Execute runs one input line. Only the leading keyword is case-insensitive;
// descriptions keep their case. A blank line is a no-op.
func (d *Dispatcher) Execute(ctx context.Context, line string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	args := splitArgs(line)
	if len(args) == 0 || args[0] == "" {
		return Result{}, nil
	}
	keyword := strings.ToLower(args[0])

	h, ok := handlers[keyword]
	if !ok {
		d.logger.Warn("unknown command", "command", keyword)
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, keyword)
	}

	res, err := h(ctx, d, args[1:])
	if err != nil {
		d.logger.Warn("command rejected", "command", keyword, "kind", Kind(err), "err", err)
		return res, err
	}
	d.logger.Debug("command done", "command", keyword)
	return res, nil
}

// Kind names the error kind of err for messages and logs.
func Kind(err error) string {
	if k := model.ErrorKind(err); k != "" {
		return k
	}
	if errors.Is(err, ErrUnknownCommand) {
		return "UnknownCommand"
	}
	return ""
}

// IsRecoverable reports whether the command loop should carry on after err.
func IsRecoverable(err error) bool {
	return Kind(err) != ""
}

func splitArgs(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ResolveDay turns a <day> argument into a date. A bare number is a day of
// the month inside the active window; anything with a slash must be a full
// dd/MM/yyyy date.
func (d *Dispatcher) ResolveDay(arg string) (model.Date, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "/") {
		return model.ParseDate(arg)
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > 31 {
		return model.Date{}, fmt.Errorf("%w: day %q, use a day of the month or dd/MM/yyyy", model.ErrMalformedDate, arg)
	}
	date, ok := d.calendar.Active().Resolve(n)
	if !ok {
		return model.Date{}, outOfWindow(d.calendar.InMonthView(), fmt.Sprintf("day %d", n))
	}
	return date, nil
}

func parseTaskNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: task number %q should be an integer", model.ErrMalformedArguments, arg)
	}
	return n - 1, nil
}

func checkWindow(win *window.Window, inMonthView bool, date model.Date) error {
	if win.Contains(date) {
		return nil
	}
	return outOfWindow(inMonthView, date.String())
}

func outOfWindow(inMonthView bool, what string) error {
	unit := "week"
	if inMonthView {
		unit = "month"
	}
	return fmt.Errorf("%w: %s must be within the current %s", model.ErrDateOutOfWindow, what, unit)
}

// persist saves the full store. A failed save leaves the mutation in memory.
func (d *Dispatcher) persist() error {
	if d.persister == nil {
		return nil
	}
	if err := d.persister.Save(d.store.Snapshot()); err != nil {
		d.logger.Error("saving tasks", "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

func usage(format string) error {
	return fmt.Errorf("%w: use %s", model.ErrMalformedArguments, format)
}
