// Package binder decodes HTTP requests into typed request structs.
//
// JSON decodes a strict JSON body: unknown fields, trailing data and bodies
// larger than the limit are rejected. Path fills fields tagged `path:"name"`
// from router URL parameters, such as chi.URLParam. Binding failures wrap
// apperr.ErrInvalidArgument.
package binder
