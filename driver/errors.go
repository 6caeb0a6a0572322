package driver

import (
	ncerr "netshell/internal/errors"
)

// Errors returned by Session.  Test with errors.Is.
var (
	ErrTimeout                  = ncerr.ErrTimeout
	ErrUnexpectedPrompt         = ncerr.ErrUnexpectedPrompt
	ErrInvalidArgument          = ncerr.ErrInvalidArgument
	ErrInvalidState             = ncerr.ErrInvalidState
	ErrMissingCredential        = ncerr.ErrMissingCredential
	ErrAmbiguousBoundaryPattern = ncerr.ErrAmbiguousBoundaryPattern
	ErrSessionClosed            = ncerr.ErrSessionClosed
)

// Structured error types, for errors.As.
type (
	PromptError   = ncerr.PromptError
	StateError    = ncerr.StateError
	ArgumentError = ncerr.ArgumentError
	ConfigError   = ncerr.ConfigError
)
