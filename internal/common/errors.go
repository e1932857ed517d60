// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// LLM errors.
	ErrUnparseable    = errors.New("unparseable model output")
	ErrLLMUnavailable = errors.New("llm service unavailable")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid identity token")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
)
