package binder

import (
	"errors"

	"github.com/dmitrymomot/taskflow/pkg/apperr"
)

var (
	ErrUnsupportedMediaType = apperr.New(apperr.ErrInvalidArgument, "unsupported media type")
	ErrFailedToParseJSON    = apperr.New(apperr.ErrInvalidArgument, "failed to parse JSON request body")
	ErrFailedToParsePath    = apperr.New(apperr.ErrInvalidArgument, "failed to parse path parameters")

	// ErrInvalidTarget is a programming error: the target is not a struct pointer.
	ErrInvalidTarget = errors.New("binder: target must be a non-nil pointer to struct")
)

// Error keeps the sentinel for errors.Is while giving clients a specific message.
type Error struct {
	Sentinel error
	Detail   string
}

func (e *Error) Error() string {
	return e.Sentinel.Error() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}
