// Package metrics provides lightweight, lock-free counters for tracking
// what a device session did.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one or more device sessions.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	sessionsOpened atomic.Int64
	dialAttempts   atomic.Int64
	commandsSent   atomic.Int64
	bytesIn        atomic.Int64
	bytesOut       atomic.Int64
	timeouts       atomic.Int64
	transitions    atomic.Int64
	errorsTotal    atomic.Int64

	mu             sync.RWMutex
	startTime      time.Time
	lastTransition string
	lastError      time.Time
	lastErrorMsg   string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Session metrics ──────────────────────────────────────────────────

// SessionOpened records a session that finished initialisation.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessionsOpened.Add(1)
}

// SessionsOpened returns the number of initialised sessions.
func (c *Collector) SessionsOpened() int64 {
	if c == nil {
		return 0
	}
	return c.sessionsOpened.Load()
}

// DialAttempt records one transport dial attempt.
func (c *Collector) DialAttempt() {
	if c == nil {
		return
	}
	c.dialAttempts.Add(1)
}

// DialAttempts returns the number of dial attempts.
func (c *Collector) DialAttempts() int64 {
	if c == nil {
		return 0
	}
	return c.dialAttempts.Load()
}

// ── Command metrics ──────────────────────────────────────────────────

// CommandSent records one command written to the device, including
// mode-transition commands.
func (c *Collector) CommandSent(n int) {
	if c == nil {
		return
	}
	c.commandsSent.Add(1)
	c.bytesOut.Add(int64(n))
}

// CommandsSent returns the number of commands written.
func (c *Collector) CommandsSent() int64 {
	if c == nil {
		return 0
	}
	return c.commandsSent.Load()
}

// Timeout records a read that hit its silence window.
func (c *Collector) Timeout() {
	if c == nil {
		return
	}
	c.timeouts.Add(1)
}

// Timeouts returns the number of timed-out reads.
func (c *Collector) Timeouts() int64 {
	if c == nil {
		return 0
	}
	return c.timeouts.Load()
}

// ModeTransition records a change of CLI mode, e.g. "user->privileged".
func (c *Collector) ModeTransition(desc string) {
	if c == nil {
		return
	}
	c.transitions.Add(1)
	c.mu.Lock()
	c.lastTransition = desc
	c.mu.Unlock()
}

// ModeTransitions returns the number of mode changes.
func (c *Collector) ModeTransitions() int64 {
	if c == nil {
		return 0
	}
	return c.transitions.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n bytes read from the device.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	SessionsOpened   int64  `json:"sessions_opened"`
	DialAttempts     int64  `json:"dial_attempts"`
	CommandsSent     int64  `json:"commands_sent"`
	BytesIn          int64  `json:"bytes_in"`
	BytesOut         int64  `json:"bytes_out"`
	Timeouts         int64  `json:"timeouts"`
	ModeTransitions  int64  `json:"mode_transitions"`
	LastTransition   string `json:"last_transition,omitempty"`
	ErrorsTotal      int64  `json:"errors_total"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:          time.Since(c.startTime).Truncate(time.Millisecond).String(),
		SessionsOpened:  c.sessionsOpened.Load(),
		DialAttempts:    c.dialAttempts.Load(),
		CommandsSent:    c.commandsSent.Load(),
		BytesIn:         c.bytesIn.Load(),
		BytesOut:        c.bytesOut.Load(),
		Timeouts:        c.timeouts.Load(),
		ModeTransitions: c.transitions.Load(),
		LastTransition:  c.lastTransition,
		ErrorsTotal:     c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
