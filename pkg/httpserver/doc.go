// Package httpserver runs an http.Server until its context is cancelled and
// then drains in-flight requests within a shutdown timeout. It also provides
// liveness and readiness handlers.
package httpserver
