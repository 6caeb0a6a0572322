// Package driver runs request/response command exchanges over an
// interactive device CLI.
//
// A [Session] owns one [channel.Channel].  On creation it drains the
// login banner, probes the prompt to learn which mode the device put it
// in, and from then on moves between user, privileged and configuration
// mode as each request requires.  A session serves one caller at a
// time; it does no internal locking.
//
//	s, err := driver.New(ch, driver.WithHost("router1"), driver.WithEnablePassword(pw))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	lines, err := s.ExecSingle(driver.Request{Commands: []string{"show version"}})
package driver

import (
	"fmt"
	"sync"
	"time"

	"netshell/channel"
	"netshell/internal/boundary"
	ncerr "netshell/internal/errors"
	"netshell/internal/metrics"
	"netshell/internal/mode"
	"netshell/profile"
	"netshell/util"
)

// Mode is the CLI mode of a session.
type Mode = mode.Mode

// Session modes.
const (
	Uninitialized = mode.Uninitialized
	User          = mode.User
	Privileged    = mode.Privileged
	Configuration = mode.Configuration
)

// DefaultTimeout is the read silence window used unless WithTimeout is
// given.
const DefaultTimeout = channel.DefaultTimeout

// Session is a live CLI session with one device.
type Session struct {
	ch    channel.Channel
	rd    *channel.Reader
	prof  profile.Profile
	state *mode.State

	host     string
	explicit string
	pattern  string // default boundary pattern, without mode suffix
	probe    string
	password string
	timeout  time.Duration
	poll     time.Duration

	log   *util.Logger
	taps  []Tap
	tap   Tap
	stats *metrics.Collector

	once     sync.Once
	closed   bool
	closeErr error
}

// New takes ownership of ch, waits for the first prompt and detects the
// initial mode.  On any error ch is closed.
//
// A bare IP host without WithBoundary fails with
// ErrAmbiguousBoundaryPattern before anything is read or written.
func New(ch channel.Channel, opts ...Option) (*Session, error) {
	s := &Session{
		ch:      ch,
		prof:    profile.CiscoIOS,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = util.NewLogger(0)
	}
	if s.probe == "" {
		s.probe = s.prof.ProbeCommand()
	}
	switch len(s.taps) {
	case 0:
	case 1:
		s.tap = s.taps[0]
	default:
		s.tap = MultiTap(s.taps)
	}
	s.state = mode.NewState(s.prof.Prompts())

	pattern, err := s.prof.DefaultBoundary(s.host, s.explicit)
	if err != nil {
		ch.Close()
		return nil, err
	}
	s.pattern = pattern

	s.rd = channel.NewReader(ch)
	if s.poll > 0 {
		s.rd.PollInterval = s.poll
	}
	s.rd.OnReceive = func(n int) { s.stats.BytesReceived(int64(n)) }
	if tr, ok := s.tap.(Tracer); ok {
		s.rd.Trace = tr.Trace
	}

	if err := s.initialize(); err != nil {
		s.Close()
		return nil, err
	}
	s.stats.SessionOpened()
	return s, nil
}

// Mode returns the current CLI mode.
func (s *Session) Mode() Mode { return s.state.Current() }

// Profile returns the device profile in use.
func (s *Session) Profile() profile.Profile { return s.prof }

// DefaultBoundary returns the boundary pattern before any mode suffix.
func (s *Session) DefaultBoundary() string { return s.pattern }

// Close closes the channel.  Only the first call has any effect; every
// later operation on the session fails with ErrSessionClosed.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closed = true
		s.closeErr = s.ch.Close()
		s.log.Verbose("session closed")
	})
	return s.closeErr
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) usable(op string) error {
	if s.closed {
		return fmt.Errorf("%s: %w", op, ncerr.ErrSessionClosed)
	}
	return nil
}

// compile validates a boundary pattern supplied by the caller.
func compile(op, pattern string) (*boundary.Matcher, error) {
	m, err := boundary.Compile(pattern)
	if err != nil {
		return nil, ncerr.InvalidArgument(op, "%v", err)
	}
	return m, nil
}
