// Package mode tracks which CLI mode a device session is in.
package mode

import "fmt"

// Mode is the CLI mode the session believes the device is in.
type Mode int

const (
	// Uninitialized is the state before the first prompt has been seen.
	Uninitialized Mode = iota
	// User is the unprivileged exec mode (">" on Cisco).
	User
	// Privileged is the enable mode ("#" on Cisco).
	Privileged
	// Configuration is global or sub-configuration mode.
	Configuration
)

func (m Mode) String() string {
	switch m {
	case Uninitialized:
		return "uninitialized"
	case User:
		return "user"
	case Privileged:
		return "privileged"
	case Configuration:
		return "configuration"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Prompts holds the prompt fragments appended to the default boundary
// pattern for each mode.
type Prompts struct {
	User       string
	Privileged string
	Config     string
}

// For returns the prompt fragment for m, or "" when m has none.
func (p Prompts) For(m Mode) string {
	switch m {
	case User:
		return p.User
	case Privileged:
		return p.Privileged
	case Configuration:
		return p.Config
	}
	return ""
}

// State is the session's mode plus the prompt patterns that identify
// each mode.  The zero value is Uninitialized.
type State struct {
	current Mode
	prompts Prompts
}

// NewState returns an Uninitialized state using prompts.
func NewState(prompts Prompts) *State {
	return &State{prompts: prompts}
}

// Current returns the current mode.
func (s *State) Current() Mode { return s.current }

// Prompts returns the prompt fragments.
func (s *State) Prompts() Prompts { return s.prompts }

// Is reports whether the session is in m.
func (s *State) Is(m Mode) bool { return s.current == m }

// Initialized reports whether the first prompt has been classified.
func (s *State) Initialized() bool { return s.current != Uninitialized }

// Suffix returns the prompt fragment for the current mode.
func (s *State) Suffix() string { return s.prompts.For(s.current) }

// Flags returns the three mode flags.  After initialisation exactly one
// of them is true.
func (s *State) Flags() (user, privileged, config bool) {
	return s.current == User, s.current == Privileged, s.current == Configuration
}

// allowed lists the legal transitions.
var allowed = map[Mode][]Mode{
	Uninitialized: {User, Privileged},
	User:          {Privileged},
	Privileged:    {Configuration},
	Configuration: {Privileged},
}

// Transition moves to next.  Moving to the current mode is a no-op; any
// move not in the transition table is refused.
func (s *State) Transition(next Mode) error {
	if next == s.current {
		return nil
	}
	for _, m := range allowed[s.current] {
		if m == next {
			s.current = next
			return nil
		}
	}
	return fmt.Errorf("illegal mode transition %s -> %s", s.current, next)
}
