package courseModel

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindCourseNotFound ErrorKind = "course_not_found"
	KindUnitNotFound   ErrorKind = "unit_not_found"
	KindInvalidInput   ErrorKind = "invalid_input"
	KindInternal       ErrorKind = "internal_error"
)

// StudyError is the only error type returned across the service boundary.
type StudyError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrCourseNotFound = &StudyError{Kind: KindCourseNotFound}
	ErrUnitNotFound   = &StudyError{Kind: KindUnitNotFound}
	ErrInvalidInput   = &StudyError{Kind: KindInvalidInput}
	ErrInternal       = &StudyError{Kind: KindInternal}
)

func (e *StudyError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StudyError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can compare against the sentinels.
func (e *StudyError) Is(target error) bool {
	t, ok := target.(*StudyError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewError(kind ErrorKind, msg string, err error) *StudyError {
	return &StudyError{Kind: kind, Message: msg, Err: err}
}

func KindOf(err error) ErrorKind {
	var se *StudyError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// StatusCode is the HTTP status a failure of this kind is reported with.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindCourseNotFound, KindUnitNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
