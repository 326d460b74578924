package engine

import "errors"

// Lifecycle and configuration errors.
var (
	// ErrAlreadyConfigured is returned by Configure when the server already
	// holds a configuration. Stop (or use a fresh server) before reconfiguring.
	ErrAlreadyConfigured = errors.New("server is already configured")

	// ErrNotConfigured is returned by Start when Configure has not been
	// called since creation or since the last Stop.
	ErrNotConfigured = errors.New("server is not configured")

	// ErrAlreadyRunning is returned by Start when the server is running.
	ErrAlreadyRunning = errors.New("server is already running")

	// ErrNotRunning is returned by Stop when the server is not running.
	ErrNotRunning = errors.New("server is not running")

	// ErrDuplicateEndpoint is returned by Configure when two declarations
	// share the same (method, path) identity. Which declaration would win is
	// undefined, so the configuration is rejected outright.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint declaration")
)
