// Package boundary decides when a device has finished answering.
//
// A boundary pattern is a regular expression fragment that identifies the
// device prompt.  It is always matched against the last line received,
// anchored at the start of that line and case-insensitively, so an echo
// of the command or a banner mentioning the hostname earlier in the
// stream can never end a read early.
package boundary

import (
	"fmt"
	"regexp"
	"strings"

	ncerr "netshell/internal/errors"
	"netshell/util"
)

// Matcher tests trailing lines against one compiled boundary pattern.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile builds a Matcher for pattern.
func Compile(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("boundary pattern %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

// MustCompile is like Compile but panics on a bad pattern.  Only use it
// with patterns built from constants.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the fragment the matcher was built from.
func (m *Matcher) Pattern() string { return m.pattern }

// Match reports whether line, with surrounding CR/LF removed, starts with
// the boundary pattern.
func (m *Matcher) Match(line string) bool {
	return m.re.MatchString(TrimLine(line))
}

// TrimLine strips leading and trailing carriage returns and newlines.
// Devices pad prompts with \r, which must not defeat the anchor.
func TrimLine(line string) string {
	return strings.Trim(line, "\r\n")
}

// LastLine splits raw on \n and returns every line plus the trimmed last
// one.
func LastLine(raw string) (lines []string, last string) {
	lines = strings.Split(raw, "\n")
	return lines, TrimLine(lines[len(lines)-1])
}

// Resolve returns override when set, else defaultPattern+suffix.
func Resolve(override, defaultPattern, suffix string) string {
	if override != "" {
		return override
	}
	return defaultPattern + suffix
}

// Either joins fragments into a single alternation.
func Either(fragments ...string) string {
	return `(?:` + strings.Join(fragments, `|`) + `)`
}

// DefaultPattern returns explicit when it is set.  Otherwise it derives
// the pattern from host, quoting any regexp metacharacters in the
// hostname.  A bare IP host is rejected: devices print their hostname,
// not their management address, in the prompt.
func DefaultPattern(host, explicit string) (string, error) {
	if explicit != "" {
		if _, err := Compile(explicit); err != nil {
			return "", &ncerr.ConfigError{
				Field:   "boundary",
				Value:   explicit,
				Message: err.Error(),
			}
		}
		return explicit, nil
	}
	if host == "" {
		return "", &ncerr.ConfigError{
			Field:   "host",
			Message: "required to derive a boundary pattern",
		}
	}
	if util.IsIPAddress(host) {
		return "", &ncerr.ConfigError{
			Field:   "host",
			Value:   host,
			Message: ncerr.ErrAmbiguousBoundaryPattern.Error(),
			Hint:    "pass --boundary with the hostname the device shows in its prompt",
			Err:     ncerr.ErrAmbiguousBoundaryPattern,
		}
	}
	return regexp.QuoteMeta(ShortName(host)), nil
}

// ShortName drops any domain suffix: devices show "router1", not
// "router1.example.com", in their prompt.
func ShortName(host string) string {
	if util.IsIPAddress(host) {
		return host
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}
