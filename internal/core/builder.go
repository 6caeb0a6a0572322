package core

import (
	"io"

	"netshell/config"
	"netshell/driver"
	"netshell/internal/metrics"
	"netshell/internal/transcript"
	"netshell/util"
)

// Build constructs the Job for cfg: one command runs on its own in
// privileged mode, several commands or --configure run as a batch.
func Build(cfg *config.Config, logger *util.Logger, stats *metrics.Collector) (Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := runner{
		Config: cfg,
		Logger: logger,
		Stats:  stats,
		Taps:   buildTaps(cfg, logger.Output()),
	}
	if len(cfg.Commands) == 1 && !cfg.Configure {
		return &ExecJob{runner: base, Command: cfg.Commands[0]}, nil
	}
	return &BatchJob{runner: base, Commands: cfg.Commands, Configure: cfg.Configure}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildTaps attaches the transcript when either debug level is on.
// --debug frames exchanges, --deep-debug traces reads; each is
// independent of the other.
func buildTaps(cfg *config.Config, w io.Writer) []driver.Tap {
	if !cfg.Debug && !cfg.DeepDebug {
		return nil
	}
	return []driver.Tap{transcript.New(w, cfg.Debug, cfg.DeepDebug)}
}
