package driver

import (
	"time"

	"netshell/internal/metrics"
	"netshell/profile"
	"netshell/util"
)

// Option configures a Session.
type Option func(*Session)

// WithProfile selects the device family.  Default: profile.CiscoIOS.
func WithProfile(p profile.Profile) Option {
	return func(s *Session) { s.prof = p }
}

// WithHost sets the device hostname the default boundary pattern is
// derived from.
func WithHost(host string) Option {
	return func(s *Session) { s.host = host }
}

// WithBoundary overrides the default boundary pattern.  Required when
// the device is addressed by IP.
func WithBoundary(pattern string) Option {
	return func(s *Session) { s.explicit = pattern }
}

// WithProbe replaces the command sent to detect the initial mode.
func WithProbe(cmd string) Option {
	return func(s *Session) { s.probe = cmd }
}

// WithEnablePassword sets the privilege mode password.
func WithEnablePassword(pw string) Option {
	return func(s *Session) { s.password = pw }
}

// WithTimeout sets the silence window for every read.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithPollInterval sets how long reads sleep while the channel is idle.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.poll = d }
}

// WithLogger sets the logger.  Default: a quiet logger.
func WithLogger(l *util.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithTap adds an observer for every exchange.
func WithTap(t Tap) Option {
	return func(s *Session) { s.taps = append(s.taps, t) }
}

// WithMetrics records session counters into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.stats = c }
}
