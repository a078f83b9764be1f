package model

import "fmt"

// Summary renders t on one line with its tag and variant fields, e.g.
// "[D] Submit report (by: 12/06/2024 18:00)".
func Summary(t Task) string {
	switch v := t.(type) {
	case Todo:
		return fmt.Sprintf("[T] %s", v.Description)
	case Deadline:
		return fmt.Sprintf("[D] %s (by: %s %s)", v.Description, v.ByDate, v.ByTime)
	case Event:
		return fmt.Sprintf("[E] %s (from: %s %s to: %s %s)", v.Description, v.StartDate, v.StartTime, v.EndDate, v.EndTime)
	default:
		panic(fmt.Sprintf("model: unknown task %T", t))
	}
}

// Short renders t as its tag and description only, e.g. "[D] Submit report".
func Short(t Task) string {
	return fmt.Sprintf("[%s] %s", t.Type().Tag(), t.GetDescription())
}
