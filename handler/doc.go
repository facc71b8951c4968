// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a decoded request value and returns a
// Response. Wrap runs the configured binders, applies decorators, renders the
// response and routes every failure through one ErrorHandler, which maps the
// application error taxonomy onto HTTP statuses and writes the JSON error
// envelope:
//
//	{"data": ...}
//	{"error": {"code": "not_found", "message": "...", "details": {...}}}
package handler
