package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so the CLI flags, the config file and
// the environment overlay agree on them.

const (
	// EnvPrefix prefixes every environment variable netshell reads,
	// e.g. NETSHELL_USER.
	EnvPrefix = "NETSHELL"

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultProfile is the device family assumed when none is named.
	DefaultProfile = "cisco_ios"

	// DefaultTimeout is how long a read waits for the device to say
	// anything before giving up.
	DefaultTimeout = 30 * time.Second

	// DefaultConnTimeout is the TCP/SSH connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultConnectRetries is how many dial attempts are made in total.
	DefaultConnectRetries = 1

	// DefaultFormat is how results are printed.
	DefaultFormat = "text"
)

// Formats lists the accepted values of --format.
var Formats = []string{"text", "json", "yaml"} //nolint:gochecknoglobals

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Port:           DefaultSSHPort,
		Profile:        DefaultProfile,
		Timeout:        DefaultTimeout,
		ConnTimeout:    DefaultConnTimeout,
		ConnectRetries: DefaultConnectRetries,
		Format:         DefaultFormat,
	}
}
