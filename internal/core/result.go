package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"

	"netshell/config"
	"netshell/driver"
)

// Result is what a job produced.  The JSON tags also drive the YAML
// rendering.
type Result struct {
	Host     string   `json:"host"`
	Profile  string   `json:"profile"`
	Mode     string   `json:"mode"`
	Commands []Output `json:"commands"`
}

// Output is one command and the lines the device printed for it, up to
// and including the prompt that ended it.
type Output struct {
	Command string   `json:"command"`
	Lines   []string `json:"lines"`
}

func newResult(cfg *config.Config, s *driver.Session) *Result {
	return &Result{
		Host:     cfg.Host,
		Profile:  s.Profile().Name(),
		Commands: []Output{},
	}
}

func (r *Result) add(cmd string, lines []string) {
	if lines == nil {
		lines = []string{}
	}
	r.Commands = append(r.Commands, Output{Command: cmd, Lines: lines})
}

// Write renders r to w as text, json or yaml.  Text is the device output
// as printed, one block per command.
func (r *Result) Write(w io.Writer, format string) error {
	switch format {
	case "", "text":
		for i, out := range r.Commands {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, strings.Join(out.Lines, "\n")); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
