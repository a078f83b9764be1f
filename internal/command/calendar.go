package command

import (
	"time"

	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/window"
)

// Calendar pairs a week window and a month window and remembers which one
// is on screen. Both windows keep their own position while hidden.
type Calendar struct {
	week        *window.Window
	month       *window.Window
	inMonthView bool
}

// NewCalendar returns a calendar whose windows both contain today.
func NewCalendar(today model.Date, firstWeekday time.Weekday, monthView bool) *Calendar {
	return &Calendar{
		week:        window.NewWeek(today, firstWeekday),
		month:       window.New(window.Month, today, firstWeekday),
		inMonthView: monthView,
	}
}

// Active returns the window currently on screen.
func (c *Calendar) Active() *window.Window {
	if c.inMonthView {
		return c.month
	}
	return c.week
}

// InMonthView reports whether the month window is on screen.
func (c *Calendar) InMonthView() bool { return c.inMonthView }

// Week returns the week window.
func (c *Calendar) Week() *window.Window { return c.week }

// Month returns the month window.
func (c *Calendar) Month() *window.Window { return c.month }

// Next advances the active window.
func (c *Calendar) Next() { c.Active().Advance() }

// Prev moves the active window back.
func (c *Calendar) Prev() { c.Active().Retreat() }

// ShowWeek switches to the week window.
func (c *Calendar) ShowWeek() { c.inMonthView = false }

// ShowMonth switches to the month window.
func (c *Calendar) ShowMonth() { c.inMonthView = true }

// ToggleMonth flips between the month and week windows.
func (c *Calendar) ToggleMonth() { c.inMonthView = !c.inMonthView }

// Reset moves both windows back to today without changing the view.
func (c *Calendar) Reset(today model.Date) {
	c.week.Reset(today)
	c.month.Reset(today)
}
