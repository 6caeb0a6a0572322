package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"netshell/channel/channeltest"
	ncerr "netshell/internal/errors"
	"netshell/internal/transport/sshtest"
)

// capture redirects the command's output streams for one test.
func capture(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut
}

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	out, _ := capture(t)
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "netshell ") {
		t.Errorf("output = %q", out.String())
	}
}

// TestExecute_Help verifies --help (and no args) returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {}} {
		name := "no-args"
		if len(args) > 0 {
			name = args[0]
		}
		t.Run(name, func(t *testing.T) {
			_, errOut := capture(t)
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(errOut.String(), "--boundary") {
				t.Errorf("usage should list flags, got %q", errOut.String())
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	_, errOut := capture(t)
	err := Execute(context.Background(), []string{
		"--dry-run", "-u", "admin", "--domain", "example.com", "router1", "show version",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut.String(), "router1.example.com") {
		t.Errorf("dry-run summary = %q", errOut.String())
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"bare ip", []string{"--dry-run", "10.0.0.1", "show version"}, ncerr.ErrAmbiguousBoundaryPattern},
		{"no command", []string{"--dry-run", "router1"}, nil},
		{"bad format", []string{"--dry-run", "--format", "xml", "router1", "show clock"}, nil},
		{"bad profile", []string{"--dry-run", "--profile", "junos", "router1", "show clock"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture(t)
			err := Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ce *ncerr.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("error %T is not a ConfigError", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error %v is not %v", err, tt.want)
			}
		})
	}
}

// TestExecute_DryRunIPWithBoundary verifies --boundary lifts the bare-IP rule.
func TestExecute_DryRunIPWithBoundary(t *testing.T) {
	capture(t)
	err := Execute(context.Background(), []string{
		"--dry-run", "--boundary", "core1", "10.0.0.1", "show ip route",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	capture(t)
	if err := Execute(context.Background(), []string{"--nonexistent-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_EndToEnd runs a command against an in-process SSH device.
func TestExecute_EndToEnd(t *testing.T) {
	srv, err := sshtest.NewServer("admin", "secret", func() *channeltest.Device {
		d := channeltest.NewIOS("router1", "cisco", "", false)
		d.Outputs["show clock"] = "*10:15:00.000 UTC Thu Oct 15 2026"
		return d
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	t.Setenv("NETSHELL_PASSWORD", "secret")
	t.Setenv("NETSHELL_ENABLE_PASSWORD", "cisco")
	out, errOut := capture(t)

	err = Execute(context.Background(), []string{
		"-u", "admin", "-P", strconv.Itoa(srv.Port()),
		"--boundary", "router1", "-w", "5",
		"--format", "json", "--stats",
		"127.0.0.1", "show clock",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var res struct {
		Mode     string
		Commands []struct {
			Command string
			Lines   []string
		}
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out.String())
	}
	if res.Mode != "privileged" || len(res.Commands) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(strings.Join(res.Commands[0].Lines, "\n"), "UTC") {
		t.Errorf("lines = %q", res.Commands[0].Lines)
	}
	if !strings.Contains(errOut.String(), `"sessions_opened": 1`) {
		t.Errorf("stats missing from stderr: %q", errOut.String())
	}
}
