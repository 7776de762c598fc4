package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")
	ErrNotCompleted = errors.New("job not completed")
	ErrUnavailable  = errors.New("component unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// kindError carries a caller-facing message and matches its sentinel kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Newf builds an error of the given sentinel kind whose message is shown to
// API callers unchanged.
func Newf(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...interface{}) error {
	return Newf(ErrInvalid, format, args...)
}

func NotFoundf(format string, args ...interface{}) error {
	return Newf(ErrNotFound, format, args...)
}
