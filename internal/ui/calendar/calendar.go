// Package calendar renders the week and month grids.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/nhle/calendar/internal/model"
	"github.com/nhle/calendar/internal/theme"
	"github.com/nhle/calendar/internal/window"
)

// MinCellWidth fits a "Mon 10/06" header with its padding.
const MinCellWidth = 11

// TaskSource supplies the tasks of a date.
type TaskSource interface {
	GetTasksForDate(date model.Date) []model.Task
}

// Render draws win as a grid: one column per day for a week, one row per
// week for a month. cellWidth is the width of a day column including its
// padding.
func Render(win *window.Window, tasks TaskSource, today model.Date, cellWidth int) string {
	if cellWidth < MinCellWidth {
		cellWidth = MinCellWidth
	}
	if win.Granularity() == window.Month {
		return renderMonth(win, tasks, today, cellWidth)
	}
	return renderWeek(win, tasks, today, cellWidth)
}

func renderWeek(win *window.Window, tasks TaskSource, today model.Date, cellWidth int) string {
	days := win.Range()
	text := cellWidth - 2

	headers := make([]string, len(days))
	lists := make([][]model.Task, len(days))
	depth := 1
	for i, d := range days {
		headers[i] = fmt.Sprintf("%s %02d/%02d", d.Weekday().String()[:3], d.Day, int(d.Month))
		lists[i] = tasks.GetTasksForDate(d)
		depth = max(depth, len(lists[i]))
	}

	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, len(days))
		for c := range days {
			if r < len(lists[c]) {
				rows[r][c] = taskLine(r+1, lists[c][r], text)
			}
		}
	}

	t := newTable(cellWidth, func(row, col int) bool {
		return row == table.HeaderRow && days[col] == today
	})
	return t.Headers(headers...).Rows(rows...).Render()
}

func renderMonth(win *window.Window, tasks TaskSource, today model.Date, cellWidth int) string {
	first := win.FirstWeekday()
	text := cellWidth - 2

	headers := make([]string, 7)
	for i := range headers {
		headers[i] = ((first + time.Weekday(i)) % 7).String()[:3]
	}

	var (
		rows  [][]string
		dates [][]model.Date
	)
	end := win.End()
	for start := win.Anchor().StartOfWeek(first); !start.After(end); start = start.AddDays(7) {
		row := make([]string, 7)
		week := make([]model.Date, 7)
		for i := range row {
			d := start.AddDays(i)
			week[i] = d
			if win.Contains(d) {
				row[i] = dayCell(d, tasks.GetTasksForDate(d), text)
			}
		}
		rows = append(rows, row)
		dates = append(dates, week)
	}

	t := newTable(cellWidth, func(row, col int) bool {
		return row >= 0 && row < len(dates) && dates[row][col] == today
	})
	return t.Headers(headers...).Rows(rows...).Render()
}

func newTable(cellWidth int, isToday func(row, col int) bool) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.BorderStyle).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow && isToday(row, col):
				return theme.TodayStyle.Width(cellWidth)
			case row == table.HeaderRow:
				return theme.DayHeaderStyle.Width(cellWidth)
			case isToday(row, col):
				return theme.CellStyle.Width(cellWidth).Bold(true)
			default:
				return theme.CellStyle.Width(cellWidth)
			}
		})
}

func dayCell(d model.Date, list []model.Task, width int) string {
	lines := make([]string, 0, len(list)+1)
	lines = append(lines, strconv.Itoa(d.Day))
	for i, t := range list {
		lines = append(lines, taskLine(i+1, t, width))
	}
	return strings.Join(lines, "\n")
}

// taskLine renders "n. [X] description", truncated to width and colored by
// priority.
func taskLine(n int, t model.Task, width int) string {
	line := runewidth.Truncate(fmt.Sprintf("%d. %s", n, model.Short(t)), width, "…")
	return theme.PriorityStyle(t.GetPriority()).Render(line)
}
