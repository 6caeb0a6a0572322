package driver

import (
	"fmt"

	"netshell/internal/boundary"
	ncerr "netshell/internal/errors"
	"netshell/internal/mode"
	"netshell/profile"
)

// initialize drains the login banner, sends the probe and classifies
// the prompt that comes back.  Reads end on any prompt form the profile
// knows, but only the user and privileged forms are valid after login.
func (s *Session) initialize() error {
	pr := s.state.Prompts()
	either := s.pattern + boundary.Either(pr.User, pr.Privileged, pr.Config)

	m, err := boundary.Compile(either)
	if err != nil {
		return ncerr.InvalidArgument("init", "%v", err)
	}
	if _, err := s.read(KindBanner, "", either, m); err != nil {
		return fmt.Errorf("waiting for login prompt: %w", err)
	}

	_, lines, err := s.exchange(KindProbe, s.probe, either, m, false)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	last := boundary.TrimLine(lines[len(lines)-1])

	userM, privM, err := s.promptMatchers()
	if err != nil {
		return err
	}
	switch {
	case userM.Match(last):
		s.transition(mode.User)
	case privM.Match(last):
		s.transition(mode.Privileged)
		if err := s.disablePaging(); err != nil {
			return err
		}
	default:
		return &ncerr.PromptError{Line: last, Want: []string{userM.Pattern(), privM.Pattern()}}
	}
	return nil
}

func (s *Session) promptMatchers() (user, priv *boundary.Matcher, err error) {
	pr := s.state.Prompts()
	if user, err = boundary.Compile(s.pattern + pr.User); err != nil {
		return nil, nil, ncerr.InvalidArgument("init", "%v", err)
	}
	if priv, err = boundary.Compile(s.pattern + pr.Privileged); err != nil {
		return nil, nil, ncerr.InvalidArgument("init", "%v", err)
	}
	return user, priv, nil
}

// EnterPrivileged escalates from user to privileged mode and disables
// output paging.  It is a no-op when already privileged.
//
// Without an enable password the channel is closed and
// ErrMissingCredential returned; the session cannot be used afterwards.
func (s *Session) EnterPrivileged() error {
	const op = "enable"
	if err := s.usable(op); err != nil {
		return err
	}
	switch cur := s.state.Current(); cur {
	case mode.Privileged:
		return nil
	case mode.User:
	default:
		return &ncerr.StateError{Op: op, Mode: cur.String(), Want: mode.User.String()}
	}

	if s.password == "" {
		s.log.Warn("no enable password configured, closing session")
		s.Close()
		return fmt.Errorf("%s: %w", op, ncerr.ErrMissingCredential)
	}

	if err := s.runSteps(op, s.prof.EscalationSteps(s.password), mode.Privileged); err != nil {
		return err
	}
	return s.disablePaging()
}

// EnterConfig moves the session into configuration mode, escalating to
// privileged mode first when needed.
func (s *Session) EnterConfig() error {
	const op = "configure"
	if err := s.usable(op); err != nil {
		return err
	}
	switch s.state.Current() {
	case mode.Configuration:
		return nil
	case mode.User:
		if err := s.EnterPrivileged(); err != nil {
			return err
		}
	}
	if !s.state.Is(mode.Privileged) {
		return &ncerr.StateError{Op: op, Mode: s.state.Current().String(), Want: mode.Privileged.String()}
	}
	return s.runSteps(op, s.prof.ConfigSteps(), mode.Configuration)
}

// ExitConfig returns from configuration to privileged mode.  It is a
// no-op when already privileged.
func (s *Session) ExitConfig() error {
	const op = "exit-config"
	if err := s.usable(op); err != nil {
		return err
	}
	switch cur := s.state.Current(); cur {
	case mode.Privileged:
		return nil
	case mode.Configuration:
	default:
		return &ncerr.StateError{Op: op, Mode: cur.String(), Want: mode.Configuration.String()}
	}
	step := profile.Step{Command: s.prof.ExitConfigCommand()}
	return s.runSteps(op, []profile.Step{step}, mode.Privileged)
}

// runSteps sends a transition sequence.  Every read also ends on the
// target or the current prompt, so a device that skips a step (enable
// without a password) or refuses one ("% No password set") settles the
// transition at once.  Only the target prompt counts as success.
func (s *Session) runSteps(op string, steps []profile.Step, target mode.Mode) error {
	from := s.state.Current()
	pr := s.state.Prompts()
	targetPattern := s.pattern + pr.For(target)
	settled := s.pattern + boundary.Either(pr.For(target), pr.For(from))

	var last string
	for _, st := range steps {
		pattern := settled
		if st.Expect != "" {
			pattern = boundary.Either(st.Expect, settled)
		}
		m, err := boundary.Compile(pattern)
		if err != nil {
			return ncerr.InvalidArgument(op, "%v", err)
		}
		_, lines, err := s.exchange(KindTransition, st.Command, pattern, m, st.Secret)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		last = boundary.TrimLine(lines[len(lines)-1])

		if st.Expect == "" {
			continue
		}
		em, err := boundary.Compile(st.Expect)
		if err != nil {
			return ncerr.InvalidArgument(op, "%v", err)
		}
		if !em.Match(last) {
			s.log.Verbose("%s: device skipped %q, answered %q", op, st.Expect, last)
			break
		}
	}

	tm, err := boundary.Compile(targetPattern)
	if err != nil {
		return ncerr.InvalidArgument(op, "%v", err)
	}
	if !tm.Match(last) {
		s.log.Verbose("%s: device answered %q, still in %s mode", op, last, from)
		return &ncerr.StateError{Op: op, Mode: from.String(), Want: target.String()}
	}
	s.transition(target)
	return nil
}

func (s *Session) transition(next mode.Mode) {
	from := s.state.Current()
	if from == next {
		return
	}
	if err := s.state.Transition(next); err != nil {
		// Callers only request legal moves.
		panic(err)
	}
	desc := from.String() + "->" + next.String()
	s.stats.ModeTransition(desc)
	s.log.Verbose("entered %s mode", next)
}

func (s *Session) disablePaging() error {
	cmd := s.prof.DisablePagingCommand()
	if cmd == "" {
		return nil
	}
	pattern := s.pattern + s.state.Suffix()
	m, err := boundary.Compile(pattern)
	if err != nil {
		return ncerr.InvalidArgument("paging", "%v", err)
	}
	if _, _, err := s.exchange(KindTransition, cmd, pattern, m, false); err != nil {
		return fmt.Errorf("disable paging: %w", err)
	}
	return nil
}
