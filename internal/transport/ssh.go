package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"

	"netshell/channel"
	ncerr "netshell/internal/errors"
	"netshell/util"
)

// SSHConfig holds everything needed to log in to a device.
type SSHConfig struct {
	User          string
	Host          string // fully qualified, as dialed
	Port          int
	Password      string
	KeyPath       string
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration

	// Terminal requested for the shell.  Defaults: vt100, 511x24.  A
	// wide terminal keeps long output lines from wrapping.
	TermType   string
	TermWidth  int
	TermHeight int
}

func (c *SSHConfig) setDefaults() {
	if c.Port == 0 {
		c.Port = 22
	}
	if c.ConnTimeout == 0 {
		c.ConnTimeout = 30 * time.Second
	}
	if c.TermType == "" {
		c.TermType = "vt100"
	}
	if c.TermWidth == 0 {
		c.TermWidth = 511
	}
	if c.TermHeight == 0 {
		c.TermHeight = 24
	}
}

// Shell is an interactive SSH shell exposed as a channel.Channel.
// Closing it tears down the session and the connection.
type Shell struct {
	*channel.Stream
	client  *ssh.Client
	session *ssh.Session
}

// Client returns the underlying SSH client.
func (s *Shell) Client() *ssh.Client { return s.client }

// shellCloser closes the session before the connection.
type shellCloser struct {
	client  *ssh.Client
	session *ssh.Session
}

func (c shellCloser) Close() error {
	serr := c.session.Close()
	cerr := c.client.Close()
	if errors.Is(serr, io.EOF) {
		serr = nil
	}
	if cerr != nil {
		return cerr
	}
	return serr
}

// DialShell connects to cfg.Host, authenticates, requests a PTY and
// starts an interactive shell.  A nil dialer means plain TCP.
func DialShell(ctx context.Context, cfg *SSHConfig, dialer Dialer, logger *util.Logger) (*Shell, error) {
	cfg.setDefaults()
	if dialer == nil {
		dialer = &TCPDialer{Timeout: cfg.ConnTimeout}
	}

	authMethods, err := BuildAuthMethods(cfg)
	if err != nil {
		return nil, ncerr.WrapSSH("auth", cfg.Host, cfg.Port, err)
	}
	hkCallback, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, ncerr.WrapSSH("hostkey", cfg.Host, cfg.Port, err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         cfg.ConnTimeout,
	}

	addr := util.FormatAddr(cfg.Host, cfg.Port)
	logger.Debug("SSH: dialing %s as %s", addr, cfg.User)

	conn, err := dialer.Dial(ctx, "tcp", addr)
	if err != nil {
		return nil, ncerr.Wrap("dial", addr, err)
	}

	// The handshake itself does not watch ctx; closing the connection
	// unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	stop()
	if err != nil {
		conn.Close()
		if ctx.Err() != nil {
			return nil, ncerr.Wrap("dial", addr, ctx.Err())
		}
		if authRejected(err) {
			err = fmt.Errorf("%w: %v", ncerr.ErrAuthFailed, err)
		}
		return nil, ncerr.WrapSSH("handshake", cfg.Host, cfg.Port, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sh, err := openShell(client, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}
	logger.Verbose("SSH: shell open on %s", addr)
	return sh, nil
}

func openShell(client *ssh.Client, cfg *SSHConfig) (*Shell, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, ncerr.WrapSSH("session", cfg.Host, cfg.Port, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty(cfg.TermType, cfg.TermHeight, cfg.TermWidth, modes); err != nil {
		session.Close()
		return nil, ncerr.WrapSSH("pty", cfg.Host, cfg.Port, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, ncerr.WrapSSH("session", cfg.Host, cfg.Port, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, ncerr.WrapSSH("session", cfg.Host, cfg.Port, err)
	}
	if err := session.Shell(); err != nil {
		session.Close()
		return nil, ncerr.WrapSSH("shell", cfg.Host, cfg.Port, err)
	}

	return &Shell{
		Stream:  channel.NewStream(stdout, stdin, shellCloser{client: client, session: session}),
		client:  client,
		session: session,
	}, nil
}

// String describes the shell for logs.
func (s *Shell) String() string {
	return fmt.Sprintf("ssh shell %s", s.client.RemoteAddr())
}
