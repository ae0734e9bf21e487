// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate
// HTTP status codes at the API boundary, and to error-flagged tool results at
// the MCP boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when
// returned from API endpoints. Unmapped errors will default to HTTP 500 Internal
// Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrServerNotConfigured indicates that the requested managed server does not
	// exist in the configuration. Reported to the caller, never retried.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotConfigured = errors.New("server not found in configuration")

	// ErrProcessNotFound indicates that no live OS process matched a server's
	// launch specification. This is not itself a failure; it feeds into the
	// health verdict (an undiscoverable server reports an unknown state).
	ErrProcessNotFound = errors.New("process not found")

	// ErrRestartFailed indicates that terminating or spawning a process during a
	// restart attempt failed. Caught and reported as a structured failure,
	// never allowed to crash the monitor.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrRestartFailed = errors.New("restart failed")

	// ErrStillUnhealthy indicates that a restart completed but the re-verified
	// health check still reported the server as unhealthy. A distinguished soft
	// failure; not escalated or retried automatically.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrStillUnhealthy = errors.New("server restarted but still reporting unhealthy")
)
