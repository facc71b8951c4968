// Package requestid tags each HTTP request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID header from the client or
// generates a UUID, stores it in the request context and echoes it back.
// LoggerExtractor plugs the id into pkg/logger so every log line written with
// the request context carries it.
package requestid
