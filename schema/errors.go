package schema

import "errors"

var (
	// Tool-related errors
	ErrToolNotFound        = errors.New("tool not found")
	ErrToolAlreadyExists   = errors.New("tool already exists")
	ErrToolExecutionFailed = errors.New("tool execution failed")

	// Gateway-related errors
	ErrModelAPIError = errors.New("model API error")

	// Sandbox-related errors
	ErrSandboxUnavailable = errors.New("sandbox unavailable")

	// Common errors
	ErrInvalidInput = errors.New("invalid input")
)
