// Package config defines the runtime configuration for netshell and
// checks it before anything touches the network.
package config

import (
	"fmt"
	"strings"
	"time"

	ncerr "netshell/internal/errors"
	"netshell/profile"
	"netshell/util"
)

// Config holds every tuneable for a single netshell run.
type Config struct {
	// ── Device ───────────────────────────────────────────────────────
	Host           string // as given; also the source of the default boundary
	Domain         string // appended to Host when dialing
	Port           int
	Profile        string
	Boundary       string // explicit boundary pattern, overrides the hostname
	Probe          string // command sent to detect the initial mode
	EnablePassword string
	PromptEnable   bool // true → prompt for the enable password

	// ── SSH ──────────────────────────────────────────────────────────
	User              string
	SSHPassword       string // from env or file only
	PromptSSHPassword bool   // true → prompt interactively
	SSHKeyPath        string
	UseSSHAgent       bool
	StrictHostKey     bool
	KnownHostsPath    string
	ConnTimeout       time.Duration
	ConnectRetries    int

	// ── Execution ────────────────────────────────────────────────────
	Commands  []string
	Configure bool          // run Commands in configuration mode
	Timeout   time.Duration // read silence window

	// ── Output ───────────────────────────────────────────────────────
	Verbose   int
	Debug     bool
	DeepDebug bool
	Format    string
	Stats     bool
	DryRun    bool
}

// DialHost returns the address the SSH connection is made to.
func (c *Config) DialHost() string {
	return util.QualifyHost(c.Host, c.Domain)
}

// ── Validation ───────────────────────────────────────────────────────

// ValidateSession checks everything needed to open a device session.
func (c *Config) ValidateSession() error {
	if c.Host == "" {
		return &ncerr.ConfigError{
			Field:   "host",
			Message: "hostname is required",
			Hint:    "usage: netshell [flags] <host> <command>...",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ncerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "out of range 1-65535",
		}
	}

	prof, err := profile.Lookup(c.Profile)
	if err != nil {
		return &ncerr.ConfigError{
			Field:   "profile",
			Value:   c.Profile,
			Message: err.Error(),
		}
	}
	if _, err := prof.DefaultBoundary(c.Host, c.Boundary); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return &ncerr.ConfigError{
			Field:   "timeout",
			Value:   c.Timeout,
			Message: "must be positive",
			Hint:    "give a duration such as 30s",
		}
	}
	if c.ConnectRetries < 0 {
		return &ncerr.ConfigError{
			Field:   "connect-retries",
			Value:   c.ConnectRetries,
			Message: "must not be negative",
		}
	}
	if c.SSHPassword != "" && c.PromptSSHPassword {
		return &ncerr.ConfigError{
			Field:   "ssh-password",
			Message: "a password is already set in the environment or config file",
			Hint:    "drop --ssh-password or unset " + EnvPrefix + "_PASSWORD",
		}
	}
	return nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.ValidateSession(); err != nil {
		return err
	}
	if len(c.Commands) == 0 {
		return &ncerr.ConfigError{
			Field:   "command",
			Message: "at least one command is required",
			Hint:    `netshell router1 "show version"`,
		}
	}
	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd) == "" {
			return &ncerr.ConfigError{
				Field:   "command",
				Value:   i + 1,
				Message: "empty command",
			}
		}
	}
	if !validFormat(c.Format) {
		return &ncerr.ConfigError{
			Field:   "format",
			Value:   c.Format,
			Message: fmt.Sprintf("unknown output format (want one of %s)", strings.Join(Formats, ", ")),
		}
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
