package driver

import (
	"time"

	"netshell/channel"
)

// Exchange kinds.
const (
	KindBanner     = "banner"
	KindProbe      = "probe"
	KindTransition = "transition"
	KindCommand    = "command"
)

// Exchange is one command written to the device and the output read
// back for it.
type Exchange struct {
	Kind     string
	Command  string // redacted when Secret
	Boundary string
	Raw      string
	Lines    []string
	Secret   bool
	Elapsed  time.Duration
	Err      error
}

// Redacted stands in for secret commands in logs and transcripts.
const Redacted = "********"

// Tap observes every exchange a session performs.  Taps are called
// synchronously from the session's goroutine.
type Tap interface {
	Exchange(Exchange)
}

// Tracer is implemented by taps that also want every intermediate read
// step.
type Tracer interface {
	Trace(channel.Trace)
}

// TapFunc adapts a function to a Tap.
type TapFunc func(Exchange)

// Exchange calls f(e).
func (f TapFunc) Exchange(e Exchange) { f(e) }

// MultiTap fans exchanges out to several taps, and traces to those that
// are also Tracers.
type MultiTap []Tap

func (m MultiTap) Exchange(e Exchange) {
	for _, t := range m {
		t.Exchange(e)
	}
}

func (m MultiTap) Trace(tr channel.Trace) {
	for _, t := range m {
		if tt, ok := t.(Tracer); ok {
			tt.Trace(tr)
		}
	}
}
