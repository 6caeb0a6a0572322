package errors

import (
	"fmt"
	"io"
	"net"
	"testing"
)

func TestPromptError(t *testing.T) {
	err := &PromptError{Line: "login:", Want: []string{"router1>", "router1#"}}
	if !Is(err, ErrUnexpectedPrompt) {
		t.Error("PromptError should unwrap to ErrUnexpectedPrompt")
	}
	want := `unexpected CLI prompt: "login:" (want one of ["router1>" "router1#"])`
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStateError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  StateError
		want string
	}{
		{
			name: "with want",
			err:  StateError{Op: "exec", Mode: "user", Want: "privileged"},
			want: "exec: invalid session state: session is in user mode, need privileged",
		},
		{
			name: "without want",
			err:  StateError{Op: "enable", Mode: "configuration"},
			want: "enable: invalid session state: session is in configuration mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !Is(&tt.err, ErrInvalidState) {
				t.Error("should unwrap to ErrInvalidState")
			}
		})
	}
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("exec", "want 1 command, got %d", 3)
	if !Is(err, ErrInvalidArgument) {
		t.Error("should unwrap to ErrInvalidArgument")
	}
	want := "exec: invalid argument: want 1 command, got 3"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNetworkError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  NetworkError
		want string
	}{
		{
			name: "retryable",
			err:  NetworkError{Op: "dial", Addr: "router1:22", Err: io.EOF, Retryable: true},
			want: "dial router1:22: EOF (retryable)",
		},
		{
			name: "non-retryable",
			err:  NetworkError{Op: "read", Addr: "router1:22", Err: fmt.Errorf("reset")},
			want: "read router1:22: reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSSHError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := WrapSSH("handshake", "router1.example.com", 22, inner)
	want := "ssh handshake router1.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "host",
				Value:   "192.0.2.1",
				Message: "cannot derive a boundary pattern from an IP address",
				Hint:    "pass --boundary with the device hostname",
			},
			want: "config: --host=192.0.2.1: cannot derive a boundary pattern from an IP address\n  hint: pass --boundary with the device hostname",
		},
		{
			name: "missing value no hint",
			err:  ConfigError{Field: "user", Message: "required"},
			want: "config: --user: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestConfigError_UnwrapSentinel(t *testing.T) {
	err := &ConfigError{Field: "host", Message: "x", Err: ErrAmbiguousBoundaryPattern}
	if !Is(err, ErrAmbiguousBoundaryPattern) {
		t.Error("should unwrap to ErrAmbiguousBoundaryPattern")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF, Retryable: true}, true},
		{"non-retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF}, false},
		{"timeout sentinel", ErrTimeout, false},
		{"plain error", fmt.Errorf("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(fmt.Errorf("enable: %w", ErrMissingCredential)) {
		t.Error("missing credential should be fatal")
	}
	if IsFatal(ErrTimeout) {
		t.Error("timeout should not be fatal")
	}
}

func TestClassifyRetryable_NetOpError(t *testing.T) {
	opErr := &net.OpError{
		Op:  "dial",
		Net: "tcp",
		Err: &net.DNSError{IsTemporary: true},
	}
	if !classifyRetryable(opErr) {
		t.Error("temporary OpError should be retryable")
	}
}

func TestSentinels(t *testing.T) {
	sentinels := []error{
		ErrTimeout, ErrUnexpectedPrompt, ErrInvalidArgument, ErrInvalidState,
		ErrMissingCredential, ErrAmbiguousBoundaryPattern, ErrSessionClosed,
		ErrAuthFailed, ErrHostKeyMismatch,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
