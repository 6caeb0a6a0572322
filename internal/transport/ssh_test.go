package transport

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"netshell/channel/channeltest"
	"netshell/driver"
	ncerr "netshell/internal/errors"
	"netshell/internal/transport/sshtest"
	"netshell/util"
)

func startServer(t *testing.T) *sshtest.Server {
	t.Helper()
	srv, err := sshtest.NewServer("admin", "secret", func() *channeltest.Device {
		d := channeltest.NewIOS("router1", "cisco", "User Access Verification", false)
		d.Outputs["show version"] = "Cisco IOS Software, Version 15.2(4)M"
		return d
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func testConfig(srv *sshtest.Server) *SSHConfig {
	return &SSHConfig{
		User:        "admin",
		Password:    "secret",
		Host:        "127.0.0.1",
		Port:        srv.Port(),
		ConnTimeout: 5 * time.Second,
	}
}

func TestDialShell_EndToEnd(t *testing.T) {
	srv := startServer(t)

	sh, err := DialShell(context.Background(), testConfig(srv), nil, util.NewLogger(0))
	require.NoError(t, err)

	s, err := driver.New(sh,
		driver.WithHost("router1"),
		driver.WithEnablePassword("cisco"),
		driver.WithPollInterval(5*time.Millisecond),
		driver.WithTimeout(5*time.Second),
	)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, driver.User, s.Mode())
	lines, err := s.ExecSingle(driver.Cmd("show version"))
	require.NoError(t, err)
	assert.Contains(t, strings.Join(lines, "\n"), "Cisco IOS Software")
	assert.Equal(t, "router1#", lines[len(lines)-1])
	assert.Equal(t, int64(1), srv.Shells())
}

func TestDialShell_BadPassword(t *testing.T) {
	srv := startServer(t)
	cfg := testConfig(srv)
	cfg.Password = "wrong"

	_, err := DialShell(context.Background(), cfg, nil, util.NewLogger(0))
	require.Error(t, err)
	var se *ncerr.SSHError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "handshake", se.Op)
	assert.True(t, errors.Is(err, ncerr.ErrAuthFailed), "got %v", err)
	assert.Equal(t, int64(0), srv.Shells())
}

func TestDialShell_KnownHosts(t *testing.T) {
	srv := startServer(t)
	dir := t.TempDir()

	write := func(name string, key ssh.PublicKey) string {
		p := filepath.Join(dir, name)
		line := knownhosts.Line([]string{knownhosts.Normalize(srv.Addr())}, key)
		require.NoError(t, os.WriteFile(p, []byte(line+"\n"), 0600))
		return p
	}

	t.Run("known key", func(t *testing.T) {
		cfg := testConfig(srv)
		cfg.StrictHostKey = true
		cfg.KnownHosts = write("good", srv.HostKey)

		sh, err := DialShell(context.Background(), cfg, nil, util.NewLogger(0))
		require.NoError(t, err)
		sh.Close()
	})

	t.Run("mismatched key", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		other, err := ssh.NewPublicKey(pub)
		require.NoError(t, err)

		cfg := testConfig(srv)
		cfg.StrictHostKey = true
		cfg.KnownHosts = write("bad", other)

		_, err = DialShell(context.Background(), cfg, nil, util.NewLogger(0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ncerr.ErrHostKeyMismatch.Error())
	})
}

func TestDialShell_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DialShell(ctx, &SSHConfig{User: "admin", Password: "x", Host: "127.0.0.1", Port: 1}, nil, util.NewLogger(0))
	require.Error(t, err)
	var ne *ncerr.NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestSSHConfig_Defaults(t *testing.T) {
	cfg := &SSHConfig{}
	cfg.setDefaults()
	assert.Equal(t, 22, cfg.Port)
	assert.Equal(t, "vt100", cfg.TermType)
	assert.Equal(t, 511, cfg.TermWidth)
	assert.Equal(t, 30*time.Second, cfg.ConnTimeout)
}
