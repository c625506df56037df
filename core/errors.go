package core

import (
	"errors"
	"fmt"
)

var (
	ErrEndOfBuffer   = errors.New("end of buffer")
	ErrStartOfBuffer = errors.New("start of buffer")
	ErrEndOfLine     = errors.New("end of line")
	ErrStartOfLine   = errors.New("start of line")
	ErrOutOfRange    = errors.New("index out of range")
	ErrDecode        = errors.New("content is not valid UTF-8 text")
	ErrNotFound      = errors.New("file not found")
	ErrIO            = errors.New("i/o failure")
)

type ErrorId int

const (
	ErrOutOfRangeId ErrorId = iota + 1
	ErrFailedToSaveId
)

// Error pairs an editor error with the id consumers switch on.
type Error struct {
	id  ErrorId
	err error
}

func newError(id ErrorId, err error) *Error {
	return &Error{id: id, err: err}
}

func (e *Error) ID() ErrorId { return e.id }

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

func outOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
