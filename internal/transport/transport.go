// Package transport opens the terminal a device session runs over: a
// TCP connection, an SSH handshake on top of it, and an interactive
// shell with a pseudo-terminal.  What happens inside the shell is the
// driver's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  The SSH shell dialer
// takes one so tests and jump hosts can substitute the raw connection.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer.
	// Stateless dialers return nil.
	Close() error
}
