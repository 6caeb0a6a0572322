// Package cmd wires up the CLI flags and dispatches to the core jobs.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"netshell/config"
	"netshell/internal/core"
	"netshell/internal/metrics"
	"netshell/profile"
	"netshell/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X netshell/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Output streams; tests replace them.
var ( //nolint:gochecknoglobals
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Execute parses args and runs the commands on the device.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("netshell", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── connection ───────────────────────────────────────────────
	fs.StringP(config.KeyUser, "u", "", "SSH login user (default: local user)")
	fs.IntP(config.KeyPort, "P", config.DefaultSSHPort, "SSH port")
	fs.String(config.KeyDomain, "", "DNS suffix appended to the host when dialing")
	fs.String(config.KeyConnTimeout, config.DefaultConnTimeout.String(), "TCP/SSH connect timeout")
	fs.Int(config.KeyConnectRetries, config.DefaultConnectRetries, "Dial attempts before giving up")

	// ── SSH authentication ───────────────────────────────────────
	fs.String(config.KeySSHKey, "", "SSH private key file")
	fs.Bool(config.KeyPromptPassword, false, "Prompt for SSH password (or set NETSHELL_PASSWORD)")
	fs.Bool(config.KeySSHAgent, false, "Use SSH agent")
	fs.Bool(config.KeyStrictHostKey, false, "Verify SSH host keys")
	fs.String(config.KeyKnownHosts, "", "Custom known_hosts path")

	// ── device ───────────────────────────────────────────────────
	fs.Bool(config.KeyPromptEnable, false, "Prompt for the enable password (or set NETSHELL_ENABLE_PASSWORD)")
	fs.String(config.KeyProfile, config.DefaultProfile,
		fmt.Sprintf("Device profile (%s)", strings.Join(profile.Names(), ", ")))
	fs.String(config.KeyBoundary, "", "Prompt pattern to wait for instead of the hostname")
	fs.String(config.KeyProbe, "", `Command sent to detect the initial mode (default "\n")`)

	// ── execution ────────────────────────────────────────────────
	fs.Bool(config.KeyConfigure, false, "Run the commands in configuration mode")
	fs.StringP(config.KeyTimeout, "w", config.DefaultTimeout.String(), "Read timeout: seconds or a duration")

	// ── output ───────────────────────────────────────────────────
	fs.String(config.KeyFormat, config.DefaultFormat, "Output format: text, json or yaml")
	fs.Bool(config.KeyDebug, false, "Print a framed transcript of every exchange to stderr")
	fs.Bool(config.KeyDeepDebug, false, "Trace every read buffer and match attempt to stderr")
	fs.Bool(config.KeyStats, false, "Print session counters as JSON to stderr at exit")
	fs.CountP(config.KeyVerbose, "v", "Increase verbosity (repeatable)")
	fs.String(config.KeyConfig, "", "Config file (YAML, TOML or JSON)")

	var dryRun, showVersion, showHelp bool
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "netshell %s\n", version)
		return nil
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	// ── positional arguments ─────────────────────────────────────
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Host = rest[0]
		cfg.Commands = rest[1:]
	}
	cfg.DryRun = dryRun

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	if cfg.DryRun {
		fmt.Fprintf(stderr, "configuration OK: %d command(s) for %s as %s via profile %s\n",
			len(cfg.Commands), cfg.DialHost(), orDefault(cfg.User, "<local user>"), cfg.Profile)
		return nil
	}

	// ── run ──────────────────────────────────────────────────────
	var stats *metrics.Collector
	if cfg.Stats {
		stats = metrics.New()
		defer func() { fmt.Fprintln(stderr, stats.JSON()) }()
	}

	job, err := core.Build(cfg, logger, stats)
	if err != nil {
		return err
	}
	res, runErr := job.Run(ctx)
	if res != nil && len(res.Commands) > 0 {
		if err := res.Write(stdout, cfg.Format); err != nil {
			return err
		}
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(stderr, `netshell v%s

Runs CLI commands on network devices over SSH and prints what they
answer.  The session follows the device between user, privileged and
configuration mode as each command needs.

Usage:
  netshell [options] <host> <command> [command...]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(stderr, `
Environment:
  NETSHELL_<OPTION>          any long option, "-" written "_" (NETSHELL_USER)
  NETSHELL_PASSWORD          SSH login password
  NETSHELL_ENABLE_PASSWORD   privileged mode password

Examples:
  netshell -u admin --enable router1 "show version"
  netshell --domain example.com router1 "show clock" "show users"
  netshell --boundary core1 10.0.0.1 "show ip route"
  netshell --configure router1 "interface Loopback0" "description mgmt"
  netshell --format yaml --stats router1 "show inventory"
`)
}
