// Package sshtest runs an in-process SSH server whose shell is a
// scripted fake device, for end-to-end tests of the transport and the
// session driver.
package sshtest

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/ssh"

	"netshell/channel/channeltest"
)

// Server accepts password logins and serves one fake device per shell.
type Server struct {
	ln        net.Listener
	cfg       *ssh.ServerConfig
	newDevice func() *channeltest.Device

	// HostKey is the server's public host key.
	HostKey ssh.PublicKey

	shells atomic.Int64
	wg     sync.WaitGroup
}

// NewServer listens on a random loopback port.
func NewServer(user, password string, newDevice func() *channeltest.Device) (*Server, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == user && string(pass) == password {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{ln: ln, cfg: cfg, newDevice: newDevice, HostKey: signer.PublicKey()}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// Addr returns "127.0.0.1:port".
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Port returns the listening port.
func (s *Server) Port() int { return s.ln.Addr().(*net.TCPAddr).Port }

// Shells returns how many shells have been started.
func (s *Server) Shells() int64 { return s.shells.Load() }

// Close stops accepting connections.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	sc, chans, reqs, err := ssh.NewServerConn(conn, s.cfg)
	if err != nil {
		conn.Close()
		return
	}
	defer sc.Close()
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			nc.Reject(ssh.UnknownChannelType, "only session channels") //nolint:errcheck
			continue
		}
		ch, creqs, err := nc.Accept()
		if err != nil {
			continue
		}
		go s.session(ch, creqs)
	}
}

func (s *Server) session(ch ssh.Channel, reqs <-chan *ssh.Request) {
	for req := range reqs {
		switch req.Type {
		case "pty-req":
			req.Reply(true, nil) //nolint:errcheck
		case "shell":
			req.Reply(true, nil) //nolint:errcheck
			s.shells.Add(1)
			go s.run(ch)
		default:
			req.Reply(false, nil) //nolint:errcheck
		}
	}
}

// run feeds each line the client types to a fresh device and writes
// back whatever the device prints.
func (s *Server) run(ch ssh.Channel) {
	defer ch.Close()
	dev := s.newDevice()

	flush := func() error {
		for dev.Ready() {
			b, _ := dev.Receive(4096)
			if _, err := ch.Write(b); err != nil {
				return err
			}
		}
		return nil
	}
	if flush() != nil {
		return
	}

	r := bufio.NewReader(ch)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		if dev.Send(line) != nil || flush() != nil {
			return
		}
	}
}
