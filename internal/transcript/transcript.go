// Package transcript prints a framed, human-readable record of a device
// session for --debug and --deep-debug.
package transcript

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"netshell/channel"
	"netshell/driver"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

const (
	debugRule = "-"
	deepRule  = "#"
)

// Printer renders exchanges (debug) and read traces (deep debug).
// It implements driver.Tap and driver.Tracer.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	debug bool
	deep  bool
}

// New returns a Printer writing to w.  The frame width follows the
// terminal when w is one.
func New(w io.Writer, debug, deep bool) *Printer {
	return &Printer{w: w, width: Width(w), debug: debug, deep: deep}
}

// Width returns the column count of w when it is a terminal, otherwise
// DefaultWidth.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return DefaultWidth
	}
	return cols
}

// Exchange implements driver.Tap.
func (p *Printer) Exchange(e driver.Exchange) {
	if !p.debug {
		return
	}
	body := e.Raw
	if e.Err != nil {
		body += "\n<error: " + e.Err.Error() + ">"
	}
	p.section(debugRule, title(e), body)
}

// Trace implements driver.Tracer.
func (p *Printer) Trace(tr channel.Trace) {
	if !p.deep {
		return
	}
	p.section(deepRule, " READ: ACCUMULATED DATA ", tr.Buffer)
	p.section(deepRule, " READ: SPLIT LINES ", fmt.Sprintf("%q", tr.Lines))
	p.section(deepRule, fmt.Sprintf(" READ: MATCH %q (matched=%t) ", tr.Pattern, tr.Matched), tr.Last)
}

func title(e driver.Exchange) string {
	switch e.Kind {
	case driver.KindBanner:
		return " LOGIN BANNER "
	case driver.KindProbe:
		return fmt.Sprintf(" PROBE: %q ", e.Command)
	}
	cmd := e.Command
	if cmd == "\n" {
		cmd = `\n`
	}
	return fmt.Sprintf(" ISSUE COMMAND: '%s' ", cmd)
}

func (p *Printer) section(rule, heading, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame := strings.Repeat(rule, p.width)
	fmt.Fprintln(p.w, frame)
	fmt.Fprintln(p.w, center(heading, p.width))
	fmt.Fprintln(p.w, frame)
	fmt.Fprintln(p.w, body)
	fmt.Fprintln(p.w, frame)
	fmt.Fprintln(p.w, center(" DEBUG INFO END ", p.width))
	fmt.Fprint(p.w, frame+"\n\n\n")
}

func center(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
