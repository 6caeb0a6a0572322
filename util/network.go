package util

import (
	"net"
	"strconv"
	"strings"
)

// IsIPAddress reports whether host is a bare IPv4 or IPv6 literal.
// Bracketed IPv6 ("[::1]") and zoned addresses ("fe80::1%eth0") count.
func IsIPAddress(host string) bool {
	h := strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if i := strings.IndexByte(h, '%'); i >= 0 {
		h = h[:i]
	}
	return net.ParseIP(h) != nil
}

// QualifyHost appends the DNS domain suffix to host.  The suffix may be
// given with or without its leading dot.  IP addresses are returned
// unchanged.
func QualifyHost(host, domain string) string {
	if domain == "" || IsIPAddress(host) {
		return host
	}
	if !strings.HasPrefix(domain, ".") {
		domain = "." + domain
	}
	if strings.HasSuffix(host, domain) {
		return host
	}
	return host + domain
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
