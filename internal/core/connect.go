package core

import (
	"context"
	"fmt"
	"os/user"
	"time"

	"netshell/config"
	"netshell/driver"
	ncerr "netshell/internal/errors"
	"netshell/internal/metrics"
	"netshell/internal/retry"
	"netshell/internal/transport"
	"netshell/profile"
	"netshell/util"
)

// readSecret prompts for passwords.  Tests replace it.
var readSecret = transport.ReadSecret //nolint:gochecknoglobals

// Connect validates cfg, logs in to the device over SSH and returns a
// session that has already detected the initial CLI mode.  extra options
// are applied after the ones derived from cfg.
//
// Everything that can be checked without the network, including the
// boundary pattern for a bare IP host, is checked before dialing.  Only
// the dial is retried, and only for transient network errors.
func Connect(ctx context.Context, cfg *config.Config, logger *util.Logger, stats *metrics.Collector, extra ...driver.Option) (*driver.Session, error) {
	if err := cfg.ValidateSession(); err != nil {
		return nil, err
	}
	prof, err := profile.Lookup(cfg.Profile)
	if err != nil {
		return nil, err
	}

	sshCfg, err := sshConfig(cfg)
	if err != nil {
		return nil, err
	}
	enable := cfg.EnablePassword
	if enable == "" && cfg.PromptEnable {
		if enable, err = readSecret("Enable password: "); err != nil {
			return nil, err
		}
	}

	addr := util.FormatAddr(sshCfg.Host, sshCfg.Port)
	policy := retry.ForDial(cfg.ConnectRetries)
	policy.Retryable = ncerr.IsRetryable
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("connect to %s failed (attempt %d): %v; retrying in %s",
			addr, attempt, err, wait.Round(time.Millisecond))
	}

	var sh *transport.Shell
	err = policy.Do(ctx, func(int) error {
		stats.DialAttempt()
		var derr error
		sh, derr = transport.DialShell(ctx, sshCfg, nil, logger)
		return derr
	})
	if err != nil {
		return nil, err
	}
	logger.Verbose("logged in to %s as %s", addr, sshCfg.User)

	opts := []driver.Option{
		driver.WithProfile(prof),
		driver.WithHost(cfg.Host),
		driver.WithBoundary(cfg.Boundary),
		driver.WithProbe(cfg.Probe),
		driver.WithEnablePassword(enable),
		driver.WithTimeout(cfg.Timeout),
		driver.WithLogger(logger.Named(cfg.Host)),
		driver.WithMetrics(stats),
	}
	return driver.New(sh, append(opts, extra...)...)
}

// sshConfig resolves the login identity, prompting once for the SSH
// password when asked to so that retries do not prompt again.
func sshConfig(cfg *config.Config) (*transport.SSHConfig, error) {
	login := cfg.User
	if login == "" {
		u, err := user.Current()
		if err != nil {
			return nil, &ncerr.ConfigError{
				Field:   "user",
				Message: fmt.Sprintf("not given and the local user is unknown: %v", err),
			}
		}
		login = u.Username
	}

	pass := cfg.SSHPassword
	if pass == "" && cfg.PromptSSHPassword {
		p, err := readSecret(fmt.Sprintf("%s@%s's password: ", login, cfg.DialHost()))
		if err != nil {
			return nil, err
		}
		pass = p
	}

	return &transport.SSHConfig{
		User:          login,
		Host:          cfg.DialHost(),
		Port:          cfg.Port,
		Password:      pass,
		KeyPath:       cfg.SSHKeyPath,
		UseAgent:      cfg.UseSSHAgent,
		StrictHostKey: cfg.StrictHostKey,
		KnownHosts:    cfg.KnownHostsPath,
		ConnTimeout:   cfg.ConnTimeout,
	}, nil
}
