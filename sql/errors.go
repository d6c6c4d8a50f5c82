package sql

import "fmt"

// Error is the single error kind raised while lexing or parsing. Pos is the
// character offset the error was detected at, or -1 when unknown.
type Error struct {
	Msg string
	Pos int
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(pos int, format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// wrapError reports a model error (duplicate column, precision overflow)
// as a parse error while keeping the cause reachable through errors.As.
func wrapError(pos int, err error) error {
	return &Error{Msg: err.Error(), Pos: pos, Err: err}
}
