package driver

import (
	"time"

	"netshell/internal/boundary"
	ncerr "netshell/internal/errors"
	"netshell/internal/mode"
)

// Request is an ordered list of commands and an optional boundary
// pattern override.  An empty Boundary means the default pattern plus
// the prompt of the current mode.
type Request struct {
	Commands []string
	Boundary string
}

// Cmd is shorthand for a single-command Request.
func Cmd(command string) Request {
	return Request{Commands: []string{command}}
}

// ExecSingle runs exactly one command in privileged mode and returns the
// device output split on "\n".  A user-mode session is escalated once
// first.
func (s *Session) ExecSingle(req Request) ([]string, error) {
	const op = "exec"
	if len(req.Commands) != 1 {
		return nil, ncerr.InvalidArgument(op, "exactly one command required, got %d", len(req.Commands))
	}
	if req.Boundary != "" {
		if _, err := compile(op, req.Boundary); err != nil {
			return nil, err
		}
	}
	if err := s.usable(op); err != nil {
		return nil, err
	}

	if !s.state.Is(mode.Privileged) {
		if err := s.EnterPrivileged(); err != nil {
			return nil, err
		}
	}
	if !s.state.Is(mode.Privileged) {
		return nil, &ncerr.StateError{Op: op, Mode: s.state.Current().String(), Want: mode.Privileged.String()}
	}
	return s.send(op, req.Commands[0], req.Boundary)
}

// ExecMultiple runs every command in order and returns one line slice
// per command.  With forConfig the session is moved into configuration
// mode first; otherwise it must reach privileged mode.  On error the
// output of the commands that completed is returned with it.
func (s *Session) ExecMultiple(req Request, forConfig bool) ([][]string, error) {
	const op = "exec-multiple"
	if len(req.Commands) == 0 {
		return nil, ncerr.InvalidArgument(op, "no commands given")
	}
	if req.Boundary != "" {
		if _, err := compile(op, req.Boundary); err != nil {
			return nil, err
		}
	}
	if err := s.usable(op); err != nil {
		return nil, err
	}

	want := mode.Privileged
	if forConfig {
		want = mode.Configuration
		if err := s.EnterConfig(); err != nil {
			return nil, err
		}
	} else if !s.state.Is(mode.Privileged) {
		if err := s.EnterPrivileged(); err != nil {
			return nil, err
		}
	}
	if !s.state.Is(want) {
		return nil, &ncerr.StateError{Op: op, Mode: s.state.Current().String(), Want: want.String()}
	}

	results := make([][]string, 0, len(req.Commands))
	for _, cmd := range req.Commands {
		lines, err := s.send(op, cmd, req.Boundary)
		if err != nil {
			return results, err
		}
		results = append(results, lines)
	}
	return results, nil
}

// send writes one caller command using the override or the mode
// default boundary.
func (s *Session) send(op, cmd, override string) ([]string, error) {
	pattern := boundary.Resolve(override, s.pattern, s.state.Suffix())
	m, err := compile(op, pattern)
	if err != nil {
		return nil, err
	}
	_, lines, err := s.exchange(KindCommand, cmd, pattern, m, false)
	return lines, err
}

// exchange writes cmd and reads until m matches.  A bare "\n" is sent
// as-is; anything else gets one "\n" appended.
func (s *Session) exchange(kind, cmd, pattern string, m *boundary.Matcher, secret bool) (string, []string, error) {
	if err := s.usable(kind); err != nil {
		return "", nil, err
	}
	shown := cmd
	if secret {
		shown = Redacted
	}

	wire := cmd
	if cmd != "\n" {
		wire = cmd + "\n"
	}
	s.log.Debug("send %q, expect %q", shown, pattern)
	if err := s.ch.Send(wire); err != nil {
		s.notify(Exchange{Kind: kind, Command: shown, Boundary: pattern, Secret: secret, Err: err})
		return "", nil, err
	}
	s.stats.CommandSent(len(wire))

	start := time.Now()
	raw, lines, err := s.rd.ReadUntil(m, s.timeout)
	if ncerr.Is(err, ncerr.ErrTimeout) {
		s.stats.Timeout()
	}
	s.notify(Exchange{
		Kind:     kind,
		Command:  shown,
		Boundary: pattern,
		Raw:      raw,
		Lines:    lines,
		Secret:   secret,
		Elapsed:  time.Since(start),
		Err:      err,
	})
	return raw, lines, err
}

// read waits for output without sending anything.
func (s *Session) read(kind, cmd, pattern string, m *boundary.Matcher) (string, error) {
	start := time.Now()
	raw, lines, err := s.rd.ReadUntil(m, s.timeout)
	if ncerr.Is(err, ncerr.ErrTimeout) {
		s.stats.Timeout()
	}
	s.notify(Exchange{Kind: kind, Command: cmd, Boundary: pattern, Raw: raw, Lines: lines, Elapsed: time.Since(start), Err: err})
	return raw, err
}

func (s *Session) notify(e Exchange) {
	if s.tap != nil {
		s.tap.Exchange(e)
	}
}
