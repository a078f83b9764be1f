// Package window tracks the week or month currently shown by the calendar
// and decides which dates may be edited from it.
package window

import (
	"fmt"
	"time"

	"github.com/nhle/calendar/internal/model"
)

// Granularity is the unit a Window advances by.
type Granularity int

const (
	Week Granularity = iota
	Month
)

func (g Granularity) String() string {
	if g == Month {
		return "month"
	}
	return "week"
}

// Window is the displayed date range. Its anchor is the first day of the
// week or day 1 of the month. Windows are unbounded in both directions.
type Window struct {
	granularity  Granularity
	anchor       model.Date
	firstWeekday time.Weekday
}

// New returns a window of granularity g containing today.
func New(g Granularity, today model.Date, firstWeekday time.Weekday) *Window {
	w := &Window{granularity: g, firstWeekday: firstWeekday}
	w.Reset(today)
	return w
}

// NewWeek returns a week window containing today.
func NewWeek(today model.Date, firstWeekday time.Weekday) *Window {
	return New(Week, today, firstWeekday)
}

// NewMonth returns a month window containing today.
func NewMonth(today model.Date) *Window {
	return New(Month, today, time.Monday)
}

// Reset moves the anchor back to the week or month containing today.
func (w *Window) Reset(today model.Date) {
	if w.granularity == Month {
		w.anchor = today.FirstOfMonth()
		return
	}
	w.anchor = today.StartOfWeek(w.firstWeekday)
}

// Granularity returns the unit of the window.
func (w *Window) Granularity() Granularity { return w.granularity }

// Anchor returns the first date of the window.
func (w *Window) Anchor() model.Date { return w.anchor }

// FirstWeekday returns the weekday weeks start on.
func (w *Window) FirstWeekday() time.Weekday { return w.firstWeekday }

// End returns the last date of the window.
func (w *Window) End() model.Date {
	if w.granularity == Month {
		return w.anchor.AddDays(w.anchor.DaysInMonth() - 1)
	}
	return w.anchor.AddDays(6)
}

// Advance moves the window forward by one week or to day 1 of next month.
func (w *Window) Advance() {
	if w.granularity == Month {
		w.anchor = w.anchor.AddMonths(1)
		return
	}
	w.anchor = w.anchor.AddDays(7)
}

// Retreat moves the window back by one week or to day 1 of last month.
func (w *Window) Retreat() {
	if w.granularity == Month {
		w.anchor = w.anchor.AddMonths(-1)
		return
	}
	w.anchor = w.anchor.AddDays(-7)
}

// Contains reports whether d lies inside the window. For weeks that is
// [anchor, anchor+6]; for months it is the anchor's year and month.
func (w *Window) Contains(d model.Date) bool {
	if w.granularity == Month {
		return d.SameMonth(w.anchor)
	}
	return !d.Before(w.anchor) && !d.After(w.anchor.AddDays(6))
}

// Range returns every date covered by the window in order.
func (w *Window) Range() []model.Date {
	n := 7
	if w.granularity == Month {
		n = w.anchor.DaysInMonth()
	}
	dates := make([]model.Date, n)
	for i := range dates {
		dates[i] = w.anchor.AddDays(i)
	}
	return dates
}

// Resolve maps a day-of-month number to the date inside the window that
// carries it. A week spanning two months still has at most one such date.
func (w *Window) Resolve(day int) (model.Date, bool) {
	for _, d := range w.Range() {
		if d.Day == day {
			return d, true
		}
	}
	return model.Date{}, false
}

// Label describes the window for headers, e.g. "10/06/2024 - 16/06/2024" or
// "June 2024".
func (w *Window) Label() string {
	if w.granularity == Month {
		return fmt.Sprintf("%s %d", w.anchor.Month, w.anchor.Year)
	}
	return fmt.Sprintf("%s - %s", w.anchor, w.End())
}
