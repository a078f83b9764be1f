package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskType identifies the variant of a task.
type TaskType int

const (
	TypeTodo TaskType = iota + 1
	TypeDeadline
	TypeEvent
)

// Tag returns the single-letter tag used in commands and the task file.
func (t TaskType) Tag() string {
	switch t {
	case TypeTodo:
		return "T"
	case TypeDeadline:
		return "D"
	case TypeEvent:
		return "E"
	default:
		return "?"
	}
}

// String returns the human-readable name of the type.
func (t TaskType) String() string {
	switch t {
	case TypeTodo:
		return "Todo"
	case TypeDeadline:
		return "Deadline"
	case TypeEvent:
		return "Event"
	default:
		return fmt.Sprintf("TaskType(%d)", int(t))
	}
}

// Valid reports whether t is one of the three known variants.
func (t TaskType) Valid() bool {
	return t == TypeTodo || t == TypeDeadline || t == TypeEvent
}

// ParseTaskType accepts a tag (T, D, E) or a full name, case-insensitively.
func ParseTaskType(s string) (TaskType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "todo":
		return TypeTodo, nil
	case "d", "deadline":
		return TypeDeadline, nil
	case "e", "event":
		return TypeEvent, nil
	default:
		return 0, fmt.Errorf("%w %q: T for Todo, D for Deadline, E for Event", ErrInvalidTaskType, s)
	}
}

// Priority is an optional task priority (lower number = higher priority).
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// String returns the persisted name of p.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "none"
	}
}

// ParsePriority accepts high/medium/low/none or their numbers 1/2/3/0.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return PriorityNone, nil
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 3 {
		return Priority(n), nil
	}
	return PriorityNone, fmt.Errorf("%w: priority %q, use high, medium, low or none", ErrMalformedArguments, s)
}

// Task is a calendar entry. The set of implementations is closed: Todo,
// Deadline and Event. Code that needs variant fields type-switches on the
// concrete value.
type Task interface {
	Type() TaskType
	GetDescription() string
	GetPriority() Priority

	// Dates and Times return the variant's date and time fields in
	// persisted order (nil for a Todo).
	Dates() []string
	Times() []string

	// WithDescription returns a copy of the task carrying a new description.
	WithDescription(description string) Task
	// WithPriority returns a copy of the task carrying a new priority.
	WithPriority(p Priority) Task

	sealed()
}

// Todo is a task with a description only.
type Todo struct {
	Description string
	Priority    Priority
}

// Deadline is a task due by a date and time.
type Deadline struct {
	Description string
	Priority    Priority

	// ByDate is the due date as given (dd/MM/yyyy expected, not enforced).
	ByDate string

	// ByTime is the due time as given (HH:mm or free text).
	ByTime string
}

// Event is a task spanning a start and an end.
type Event struct {
	Description string
	Priority    Priority
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
}

func (Todo) Type() TaskType { return TypeTodo }
func (t Todo) GetDescription() string { return t.Description }
func (t Todo) GetPriority() Priority { return t.Priority }
func (Todo) Dates() []string { return nil }
func (Todo) Times() []string { return nil }
func (t Todo) WithDescription(s string) Task {
	t.Description = s
	return t
}
func (t Todo) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}
func (Todo) sealed() {}

func (Deadline) Type() TaskType { return TypeDeadline }
func (t Deadline) GetDescription() string { return t.Description }
func (t Deadline) GetPriority() Priority { return t.Priority }
func (t Deadline) Dates() []string { return []string{t.ByDate} }
func (t Deadline) Times() []string { return []string{t.ByTime} }
func (t Deadline) WithDescription(s string) Task {
	t.Description = s
	return t
}
func (t Deadline) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}
func (Deadline) sealed() {}

func (Event) Type() TaskType { return TypeEvent }
func (t Event) GetDescription() string { return t.Description }
func (t Event) GetPriority() Priority { return t.Priority }
func (t Event) Dates() []string { return []string{t.StartDate, t.EndDate} }
func (t Event) Times() []string { return []string{t.StartTime, t.EndTime} }
func (t Event) WithDescription(s string) Task {
	t.Description = s
	return t
}
func (t Event) WithPriority(p Priority) Task {
	t.Priority = p
	return t
}
func (Event) sealed() {}

// FieldCount returns how many date (and time) elements the variant consumes.
func FieldCount(t TaskType) int {
	switch t {
	case TypeTodo:
		return 0
	case TypeDeadline:
		return 1
	case TypeEvent:
		return 2
	default:
		panic(fmt.Sprintf("model: unknown task type %d", int(t)))
	}
}

// NewTask builds a task of type tt. Todo ignores dates and times, Deadline
// consumes dates[0] and times[0], Event consumes dates[0..1] and times[0..1].
// Date and time strings are stored as given; only their presence is checked.
func NewTask(tt TaskType, description string, dates, times []string) (Task, error) {
	if !tt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTaskType, int(tt))
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrMalformedArguments)
	}

	n := FieldCount(tt)
	if len(dates) < n || len(times) < n {
		return nil, fmt.Errorf("%w: %s needs %d date(s) and %d time(s)", ErrMalformedArguments, tt, n, n)
	}
	for i := 0; i < n; i++ {
		if strings.TrimSpace(dates[i]) == "" || strings.TrimSpace(times[i]) == "" {
			return nil, fmt.Errorf("%w: %s date and time fields must not be empty", ErrMalformedArguments, tt)
		}
	}

	switch tt {
	case TypeTodo:
		return Todo{Description: description}, nil
	case TypeDeadline:
		return Deadline{
			Description: description,
			ByDate:      strings.TrimSpace(dates[0]),
			ByTime:      strings.TrimSpace(times[0]),
		}, nil
	case TypeEvent:
		return Event{
			Description: description,
			StartDate:   strings.TrimSpace(dates[0]),
			EndDate:     strings.TrimSpace(dates[1]),
			StartTime:   strings.TrimSpace(times[0]),
			EndTime:     strings.TrimSpace(times[1]),
		}, nil
	default:
		panic("unreachable")
	}
}
