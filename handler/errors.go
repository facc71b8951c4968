package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries an explicit status and a machine readable code.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest       = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized     = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden        = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound         = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrInternal         = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
)
