// Package profile describes device families: their prompts, the probe
// used to detect the initial mode, and the command sequences that move
// between modes.
//
// The session driver is written against the [Profile] interface only.
// Supporting a new family means adding a value here, not touching the
// driver.
package profile

import (
	"netshell/internal/boundary"
	"netshell/internal/mode"
)

// Step is one command in a mode-transition sequence.
type Step struct {
	// Command is sent followed by a newline.
	Command string
	// Expect is the boundary fragment the device prints once the
	// command has been consumed, e.g. "password:" after "enable".
	// Empty means the prompt of the mode being entered.
	Expect string
	// Secret steps are redacted from logs and transcripts.
	Secret bool
}

// Profile is the per-family behaviour the session driver needs.
// Implementations must be immutable.
type Profile interface {
	// Name is the registry key, e.g. "cisco_ios".
	Name() string

	// Prompts returns the fragments appended to the default boundary
	// pattern in each mode.
	Prompts() mode.Prompts

	// DefaultBoundary derives the default boundary pattern for host.
	// explicit, when set, always wins.
	DefaultBoundary(host, explicit string) (string, error)

	// ProbeCommand is sent once after login to detect the initial mode.
	ProbeCommand() string

	// EscalationSteps moves the session from user to privileged mode.
	EscalationSteps(password string) []Step

	// DisablePagingCommand stops the device from paginating output.
	// Empty means the family does not page.
	DisablePagingCommand() string

	// ConfigSteps moves the session from privileged to configuration
	// mode.
	ConfigSteps() []Step

	// ExitConfigCommand returns from configuration to privileged mode.
	ExitConfigCommand() string
}

// Family is a table-driven Profile.  Most device families differ only
// in their strings, so they are declared as Family values.
type Family struct {
	FamilyName    string
	UserPrompt    string
	PrivPrompt    string
	ConfigPrompt  string
	Probe         string
	EnableCommand string
	PasswordAsk   string
	PagingCommand string
	ConfigCommand string
	ExitConfig    string
}

func (f *Family) Name() string { return f.FamilyName }

func (f *Family) Prompts() mode.Prompts {
	return mode.Prompts{User: f.UserPrompt, Privileged: f.PrivPrompt, Config: f.ConfigPrompt}
}

// DefaultBoundary uses the device hostname.  Bare IPs are rejected.
func (f *Family) DefaultBoundary(host, explicit string) (string, error) {
	return boundary.DefaultPattern(host, explicit)
}

func (f *Family) ProbeCommand() string {
	if f.Probe == "" {
		return "\n"
	}
	return f.Probe
}

func (f *Family) EscalationSteps(password string) []Step {
	return []Step{
		{Command: f.EnableCommand, Expect: f.PasswordAsk},
		{Command: password, Secret: true},
	}
}

func (f *Family) DisablePagingCommand() string { return f.PagingCommand }

func (f *Family) ConfigSteps() []Step {
	return []Step{{Command: f.ConfigCommand}}
}

func (f *Family) ExitConfigCommand() string { return f.ExitConfig }
