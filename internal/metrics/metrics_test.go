package metrics

import (
	"encoding/json"
	"testing"
)

func TestCollector_Sessions(t *testing.T) {
	c := New()

	c.DialAttempt()
	c.DialAttempt()
	c.SessionOpened()
	if c.DialAttempts() != 2 {
		t.Errorf("dials = %d, want 2", c.DialAttempts())
	}
	if c.SessionsOpened() != 1 {
		t.Errorf("sessions = %d, want 1", c.SessionsOpened())
	}
}

func TestCollector_Commands(t *testing.T) {
	c := New()

	c.CommandSent(len("show version\n"))
	c.CommandSent(len("\n"))
	c.BytesReceived(1024)
	c.BytesReceived(100)

	if c.CommandsSent() != 2 {
		t.Errorf("commands = %d, want 2", c.CommandsSent())
	}
	if c.TotalBytesOut() != 14 {
		t.Errorf("bytes out = %d, want 14", c.TotalBytesOut())
	}
	if c.TotalBytesIn() != 1124 {
		t.Errorf("bytes in = %d, want 1124", c.TotalBytesIn())
	}
}

func TestCollector_TimeoutsAndTransitions(t *testing.T) {
	c := New()

	c.Timeout()
	c.ModeTransition("user->privileged")
	c.ModeTransition("privileged->configuration")

	if c.Timeouts() != 1 {
		t.Errorf("timeouts = %d, want 1", c.Timeouts())
	}
	if c.ModeTransitions() != 2 {
		t.Errorf("transitions = %d, want 2", c.ModeTransitions())
	}
	if got := c.Snapshot().LastTransition; got != "privileged->configuration" {
		t.Errorf("last transition = %q", got)
	}
}

func TestCollector_Errors(t *testing.T) {
	c := New()

	c.RecordError("first error")
	c.RecordError("second error")

	if c.ErrorCount() != 2 {
		t.Errorf("errors = %d, want 2", c.ErrorCount())
	}
	snap := c.Snapshot()
	if snap.LastErrorMessage != "second error" {
		t.Errorf("last error = %q", snap.LastErrorMessage)
	}
	if snap.LastError == "" {
		t.Error("expected a last error timestamp")
	}
}

func TestCollector_JSON(t *testing.T) {
	c := New()
	c.SessionOpened()
	c.CommandSent(42)

	raw := c.JSON()
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("JSON parse error: %v", err)
	}
	if snap.SessionsOpened != 1 {
		t.Errorf("JSON sessions = %d", snap.SessionsOpened)
	}
	if snap.BytesOut != 42 {
		t.Errorf("JSON bytes out = %d", snap.BytesOut)
	}
}

func TestNilCollector_NoOps(t *testing.T) {
	var c *Collector

	// None of these should panic.
	c.SessionOpened()
	c.DialAttempt()
	c.CommandSent(100)
	c.BytesReceived(100)
	c.Timeout()
	c.ModeTransition("user->privileged")
	c.RecordError("test")

	if c.CommandsSent() != 0 || c.TotalBytesIn() != 0 || c.ErrorCount() != 0 {
		t.Error("nil collector should return 0")
	}

	snap := c.Snapshot()
	if snap.SessionsOpened != 0 {
		t.Error("nil snapshot should be zero")
	}

	if c.JSON() == "" {
		t.Error("nil JSON should return valid JSON")
	}
}
