// Package errors provides domain-specific error types for netshell.
//
// Every failure the session driver can surface maps to one of the sentinel
// values below.  The structured types carry extra context (the offending
// prompt line, the mode the session was in, the SSH host) and unwrap to
// their sentinel so callers can use [errors.Is] without caring about the
// concrete type.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrTimeout means the channel went silent for longer than the read
	// window.  The session is left as it was.
	ErrTimeout = errors.New("timed out waiting for device output")

	// ErrUnexpectedPrompt means the trailing line matched none of the
	// expected prompt forms during mode detection.
	ErrUnexpectedPrompt = errors.New("unexpected CLI prompt")

	// ErrInvalidArgument means the request was malformed.  No I/O was
	// performed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState means the session was not in a mode that allows
	// the operation, or escalation did not reach the required mode.
	ErrInvalidState = errors.New("invalid session state")

	// ErrMissingCredential means privileged mode was requested without a
	// privilege password.  The session is closed as a side effect.
	ErrMissingCredential = errors.New("missing privilege mode password")

	// ErrAmbiguousBoundaryPattern means a default boundary pattern was
	// requested for a bare IP address host.
	ErrAmbiguousBoundaryPattern = errors.New("cannot derive a boundary pattern from an IP address")

	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("session is closed")

	// ErrAuthFailed means the device refused every offered credential.
	ErrAuthFailed = errors.New("authentication failed")

	ErrHostKeyMismatch = errors.New("host key mismatch")
)

// ── Structured error types ───────────────────────────────────────────

// PromptError reports a trailing line that matched none of the expected
// prompt patterns.
type PromptError struct {
	Line string   // trimmed last line received
	Want []string // patterns that were tried
}

func (e *PromptError) Error() string {
	return fmt.Sprintf("%v: %q (want one of %q)", ErrUnexpectedPrompt, e.Line, e.Want)
}

func (e *PromptError) Unwrap() error { return ErrUnexpectedPrompt }

// StateError reports an operation attempted from the wrong mode.
type StateError struct {
	Op   string // "enable", "exec", "configure", "exit-config"
	Mode string // mode the session was in
	Want string // mode the operation needed (optional)
}

func (e *StateError) Error() string {
	s := fmt.Sprintf("%s: %v: session is in %s mode", e.Op, ErrInvalidState, e.Mode)
	if e.Want != "" {
		s += ", need " + e.Want
	}
	return s
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// ArgumentError reports a malformed command request.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidArgument, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // operation: "dial", "read", "write"
	Addr      string // network address involved
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "session", "pty", "shell"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
	Err     error       // sentinel this maps to (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError, automatically detecting retryability
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// InvalidArgument creates an ArgumentError for op.
func InvalidArgument(op, format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// ── Classification helpers ───────────────────────────────────────────

// IsRetryable reports whether err is worth retrying.  Only transport
// failures ever are; protocol errors from the driver never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return classifyRetryable(err)
}

// IsFatal reports whether err leaves the session unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrSessionClosed)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
