package channel

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"netshell/internal/boundary"
	ncerr "netshell/internal/errors"
)

const (
	// DefaultPollInterval is how long the reader sleeps when the channel
	// has nothing ready.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultMaxReceive bounds a single Receive call.
	DefaultMaxReceive = 1000

	// DefaultTimeout is the silence window used when a caller passes 0.
	DefaultTimeout = 30 * time.Second
)

// Trace is one step of a read, reported to [Reader.Trace] after every
// chunk.  Deep-debug transcripts are built from these.
type Trace struct {
	Buffer  string   // everything accumulated so far
	Lines   []string // Buffer split on "\n"
	Last    string   // trimmed last line, the match target
	Pattern string   // boundary pattern tested
	Matched bool
}

// Reader accumulates channel output until the trailing line matches a
// boundary pattern.
type Reader struct {
	ch Channel

	PollInterval time.Duration
	MaxReceive   int

	// Trace, when set, observes every chunk.
	Trace func(Trace)
	// OnReceive, when set, is told the size of every chunk.
	OnReceive func(n int)

	// Test hooks.
	sleep func(time.Duration)
	now   func() time.Time
}

// NewReader returns a Reader over ch with default poll settings.
func NewReader(ch Channel) *Reader {
	return &Reader{
		ch:           ch,
		PollInterval: DefaultPollInterval,
		MaxReceive:   DefaultMaxReceive,
		sleep:        time.Sleep,
		now:          time.Now,
	}
}

// Channel returns the underlying channel.
func (r *Reader) Channel() Channel { return r.ch }

// ReadUntil reads until the trimmed last line matches m.
//
// At least one chunk is always read before matching, so a prompt left
// over from an earlier exchange never satisfies a new read.  timeout is
// a silence window: it bounds the wait for each chunk, not the whole
// call.  On timeout the output gathered so far is returned alongside
// [ncerr.ErrTimeout].
func (r *Reader) ReadUntil(m *boundary.Matcher, timeout time.Duration) (string, []string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	max := r.MaxReceive
	if max <= 0 {
		max = DefaultMaxReceive
	}

	var acc bytes.Buffer
	for {
		if err := r.wait(timeout); err != nil {
			raw := acc.String()
			return raw, strings.Split(raw, "\n"), fmt.Errorf("%w after %s of silence (boundary %q)", err, timeout, m.Pattern())
		}

		chunk, err := r.ch.Receive(max)
		if len(chunk) > 0 {
			acc.Write(chunk)
			if r.OnReceive != nil {
				r.OnReceive(len(chunk))
			}
		}
		if err != nil {
			raw := acc.String()
			if err == io.EOF {
				err = ncerr.ErrSessionClosed
			}
			return raw, strings.Split(raw, "\n"), fmt.Errorf("receive: %w", err)
		}

		raw := acc.String()
		lines, last := boundary.LastLine(raw)
		matched := m.Match(last)
		if r.Trace != nil {
			r.Trace(Trace{Buffer: raw, Lines: lines, Last: last, Pattern: m.Pattern(), Matched: matched})
		}
		if matched {
			return raw, lines, nil
		}
	}
}

// wait blocks until the channel reports data or timeout elapses.
func (r *Reader) wait(timeout time.Duration) error {
	start := r.now()
	for !r.ch.Ready() {
		if r.now().Sub(start) >= timeout {
			return ncerr.ErrTimeout
		}
		r.sleep(r.PollInterval)
	}
	return nil
}
