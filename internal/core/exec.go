package core

import (
	"context"

	"netshell/config"
	"netshell/driver"
	"netshell/internal/metrics"
	"netshell/util"
)

// runner carries what every job needs to open a session.
type runner struct {
	Config *config.Config
	Logger *util.Logger
	Stats  *metrics.Collector
	Taps   []driver.Tap
}

func (r *runner) connect(ctx context.Context) (*driver.Session, error) {
	opts := make([]driver.Option, 0, len(r.Taps))
	for _, t := range r.Taps {
		opts = append(opts, driver.WithTap(t))
	}
	s, err := Connect(ctx, r.Config, r.Logger, r.Stats, opts...)
	if err != nil {
		r.Stats.RecordError(err.Error())
	}
	return s, err
}

// finish closes s and completes res with the last mode seen.
func (r *runner) finish(s *driver.Session, res *Result, err error) (*Result, error) {
	res.Mode = s.Mode().String()
	if cerr := s.Close(); cerr != nil {
		r.Logger.Debug("close %s: %v", r.Config.Host, cerr)
	}
	if err != nil {
		r.Stats.RecordError(err.Error())
	}
	return res, err
}

// ExecJob runs a single command in privileged mode.
type ExecJob struct {
	runner
	Command string
}

// Run connects, executes the command and closes the session.
func (j *ExecJob) Run(ctx context.Context) (*Result, error) {
	s, err := j.connect(ctx)
	if err != nil {
		return nil, err
	}
	res := newResult(j.Config, s)

	lines, err := s.ExecSingle(driver.Cmd(j.Command))
	if err == nil {
		res.add(j.Command, lines)
	}
	return j.finish(s, res, err)
}

// BatchJob runs several commands in order, in configuration mode when
// Configure is set.  Configuration mode is left again before closing.
type BatchJob struct {
	runner
	Commands  []string
	Configure bool
}

// Run connects, executes every command and closes the session.  On
// failure the result holds the output of the commands that completed.
func (j *BatchJob) Run(ctx context.Context) (*Result, error) {
	s, err := j.connect(ctx)
	if err != nil {
		return nil, err
	}
	res := newResult(j.Config, s)

	outputs, err := s.ExecMultiple(driver.Request{Commands: j.Commands}, j.Configure)
	for i, lines := range outputs {
		res.add(j.Commands[i], lines)
	}
	if err == nil && j.Configure {
		err = s.ExitConfig()
	}
	return j.finish(s, res, err)
}
