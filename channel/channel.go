// Package channel reads device output off an interactive terminal until
// the device prompt shows up.
//
// A [Channel] is the minimal view of an SSH shell the session driver
// needs.  [Stream] adapts any reader/writer pair to it, and [Reader]
// implements the poll-and-accumulate loop on top.
package channel

// Channel is a bidirectional interactive text channel.
//
// Ready must not block.  Receive is only called after Ready returned
// true and may return fewer than max bytes.
type Channel interface {
	Send(s string) error
	Ready() bool
	Receive(max int) ([]byte, error)
	Close() error
}
