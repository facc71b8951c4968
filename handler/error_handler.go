package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/taskflow/pkg/apperr"
	"github.com/dmitrymomot/taskflow/pkg/logger"
	"github.com/dmitrymomot/taskflow/pkg/validator"
)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	Status int
	Detail ErrorDetail
}

// Classify maps err onto an HTTP status and error body. Internal error
// messages never reach the client.
func Classify(err error) ErrorInfo {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return ErrorInfo{
			Status: http.StatusUnprocessableEntity,
			Detail: ErrorDetail{Code: "validation_error", Message: "validation failed", Details: ve.Fields()},
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if httpErr.Code < http.StatusInternalServerError {
			msg = err.Error()
		}
		return ErrorInfo{Status: httpErr.Code, Detail: ErrorDetail{Code: httpErr.Key, Message: msg}}
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch apperr.KindOf(err) {
	case apperr.ErrNotFound:
		status, code = http.StatusNotFound, "not_found"
	case apperr.ErrInvalidState:
		status, code = http.StatusConflict, "invalid_state"
	case apperr.ErrSignatureInvalid:
		status, code = http.StatusPaymentRequired, "signature_invalid"
	case apperr.ErrInvalidArgument:
		status, code = http.StatusBadRequest, "invalid_argument"
	case apperr.ErrLimitExceeded:
		status, code = http.StatusForbidden, "limit_exceeded"
	default:
		return ErrorInfo{Status: status, Detail: ErrorDetail{Code: code, Message: "internal server error"}}
	}

	return ErrorInfo{Status: status, Detail: ErrorDetail{Code: code, Message: err.Error()}}
}

// NewErrorHandler logs err and writes the JSON error envelope. Client errors
// log at warn, server errors at error. A nil log discards output.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		info := Classify(err)
		r := ctx.Request()

		level := slog.LevelError
		if info.Status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Error(err),
			slog.Int("status", info.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		WriteError(ctx.ResponseWriter(), info)
	}
}

// WriteError writes a classified error. It is also used by middleware that
// runs outside Wrap.
func WriteError(w http.ResponseWriter, info ErrorInfo) {
	writeJSON(w, info.Status, errorEnvelope{Error: info.Detail})
}
