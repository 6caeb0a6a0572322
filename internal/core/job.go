// Package core is the orchestration layer.  It turns a Config into a
// logged-in device session and runs the requested commands on it.
//
// Architecture layers (bottom → top):
//
//	channel  →  transport  →  driver  →  core  →  cmd (CLI)
//
// The builder in this package is the single dispatch point that picks
// how the commands are run.
package core

import "context"

// Job is one complete run against a device: connect, execute, close.
// Each job owns its session for the whole of Run.
type Job interface {
	Run(ctx context.Context) (*Result, error)
}
