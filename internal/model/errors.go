package model

import "errors"

// Error kinds surfaced by the task store and the command dispatcher. They are
// wrapped with context and classified with errors.Is.
var (
	ErrInvalidTaskType    = errors.New("invalid task type")
	ErrMalformedArguments = errors.New("malformed arguments")
	ErrNoSuchDate         = errors.New("no tasks on this date")
	ErrIndexOutOfRange    = errors.New("task index out of range")
	ErrDateOutOfWindow    = errors.New("date outside the current view")
	ErrMalformedDate      = errors.New("malformed date")
)

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrInvalidTaskType, "InvalidTaskType"},
	{ErrMalformedArguments, "MalformedArguments"},
	{ErrNoSuchDate, "NoSuchDate"},
	{ErrIndexOutOfRange, "IndexOutOfRange"},
	{ErrDateOutOfWindow, "DateOutOfWindow"},
	{ErrMalformedDate, "MalformedDate"},
}

// ErrorKind names the kind of err, or returns "" when err is not one of the
// recoverable kinds above.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// IsRecoverable reports whether err is a user-input error after which the
// command loop simply continues.
func IsRecoverable(err error) bool {
	return ErrorKind(err) != ""
}
