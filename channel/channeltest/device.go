// Package channeltest provides in-memory [channel.Channel] doubles that
// behave like a Cisco IOS command line.
package channeltest

import (
	"bytes"
	"errors"
	"strings"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("channeltest: device closed")

// Device is a scripted fake IOS device.  Each Send is interpreted as
// one or more command lines and answered with echo, output and prompt
// the way a real terminal would.
type Device struct {
	Hostname       string
	EnablePassword string

	// Outputs maps a command to the text printed between the echo and
	// the next prompt.
	Outputs map[string]string
	// Silent commands produce no output at all, not even an echo.
	Silent map[string]bool
	// ChunkSize caps each Receive below the caller's max.  0 means no
	// extra cap.
	ChunkSize int

	mu        sync.Mutex
	pending   bytes.Buffer
	mode      string // "user", "priv", "config", "config-if"
	askPass   bool
	sent      []string
	lines     []string
	closed    bool
	closeHits int
	paging    bool
}

// NewIOS returns a device named hostname that has just printed banner
// and its first prompt.  privileged selects the initial mode.
func NewIOS(hostname, enablePassword, banner string, privileged bool) *Device {
	d := &Device{
		Hostname:       hostname,
		EnablePassword: enablePassword,
		Outputs:        map[string]string{},
		Silent:         map[string]bool{},
		mode:           "user",
		paging:         true,
	}
	if privileged {
		d.mode = "priv"
	}
	if banner != "" {
		d.pending.WriteString(banner + "\r\n")
	}
	d.pending.WriteString("\r\n" + d.prompt())
	return d
}

// Emit queues raw text as if the device had printed it.
func (d *Device) Emit(s string) {
	d.mu.Lock()
	d.pending.WriteString(s)
	d.mu.Unlock()
}

func (d *Device) prompt() string {
	switch d.mode {
	case "priv":
		return d.Hostname + "#"
	case "config":
		return d.Hostname + "(config)#"
	case "config-if":
		return d.Hostname + "(config-if)#"
	default:
		return d.Hostname + ">"
	}
}

// Send implements channel.Channel.
func (d *Device) Send(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.sent = append(d.sent, s)

	body := strings.TrimSuffix(s, "\n")
	for _, line := range strings.Split(body, "\n") {
		d.lines = append(d.lines, line)
		d.answer(line)
	}
	return nil
}

func (d *Device) answer(cmd string) {
	if d.Silent[cmd] {
		return
	}
	if d.askPass {
		d.askPass = false
		if cmd == d.EnablePassword && cmd != "" {
			d.mode = "priv"
			d.pending.WriteString("\r\n" + d.prompt())
		} else {
			d.pending.WriteString("\r\n% Access denied\r\n\r\n" + d.prompt())
		}
		return
	}

	switch {
	case cmd == "":
		d.pending.WriteString("\r\n" + d.prompt())
		return
	case cmd == "enable" && d.mode == "user":
		d.askPass = true
		d.pending.WriteString("enable\r\nPassword: ")
		return
	case cmd == "terminal length 0":
		d.paging = false
	case cmd == "configure terminal" && d.mode == "priv":
		d.mode = "config"
		d.pending.WriteString(cmd + "\r\nEnter configuration commands, one per line.  End with CNTL/Z.\r\n" + d.prompt())
		return
	case cmd == "end" && strings.HasPrefix(d.mode, "config"):
		d.mode = "priv"
	case cmd == "exit" && d.mode == "config-if":
		d.mode = "config"
	case cmd == "exit" && d.mode == "config":
		d.mode = "priv"
	case strings.HasPrefix(cmd, "interface ") && strings.HasPrefix(d.mode, "config"):
		d.mode = "config-if"
	}

	d.pending.WriteString(cmd + "\r\n")
	if out, ok := d.Outputs[cmd]; ok {
		d.pending.WriteString(strings.ReplaceAll(out, "\n", "\r\n") + "\r\n")
	}
	d.pending.WriteString(d.prompt())
}

// Ready implements channel.Channel.
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Len() > 0
}

// Receive implements channel.Channel.
func (d *Device) Receive(max int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.pending.Len()
	if max > 0 && n > max {
		n = max
	}
	if d.ChunkSize > 0 && n > d.ChunkSize {
		n = d.ChunkSize
	}
	out := make([]byte, n)
	d.pending.Read(out) //nolint:errcheck
	return out, nil
}

// Close implements channel.Channel.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.closeHits++
	return nil
}

// Sent returns every string passed to Send, in order.
func (d *Device) Sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sent...)
}

// Lines returns every command line the device interpreted, in order.
func (d *Device) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// CloseCalls returns how many times Close was called.
func (d *Device) CloseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeHits
}

// Mode returns the device's own idea of its mode.
func (d *Device) Mode() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Paging reports whether output paging is still enabled.
func (d *Device) Paging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paging
}
