package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnavailable       = errors.New("unavailable")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUnsupportedMetric = errors.New("unsupported metric")
)

// Error carries a human-readable message while matching a sentinel with errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Invalid reports bad, missing or oversized input.
func Invalid(msg string) error {
	return &Error{Kind: ErrInvalidInput, Msg: msg}
}

// Unavailable reports a missing backing model, service or binary.
func Unavailable(msg string) error {
	return &Error{Kind: ErrUnavailable, Msg: msg}
}

// NotFound reports a missing record or file.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

// ErrTaskClosed is returned when updating a task that is missing or already terminal.
var ErrTaskClosed = errors.New("task missing or already finished")
