package util

import "testing"

func TestIsIPAddress(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"192.0.2.1", true},
		{"2001:db8::1", true},
		{"[2001:db8::1]", true},
		{"fe80::1%eth0", true},
		{"router1", false},
		{"router1.example.com", false},
		{"192.0.2", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsIPAddress(tt.host); got != tt.want {
				t.Errorf("IsIPAddress(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestQualifyHost(t *testing.T) {
	tests := []struct {
		host, domain, want string
	}{
		{"router1", "", "router1"},
		{"router1", "example.com", "router1.example.com"},
		{"router1", ".example.com", "router1.example.com"},
		{"router1.example.com", "example.com", "router1.example.com"},
		{"192.0.2.1", "example.com", "192.0.2.1"},
	}
	for _, tt := range tests {
		if got := QualifyHost(tt.host, tt.domain); got != tt.want {
			t.Errorf("QualifyHost(%q, %q) = %q, want %q", tt.host, tt.domain, got, tt.want)
		}
	}
}

func TestFormatAddr(t *testing.T) {
	if got := FormatAddr("192.0.2.1", 22); got != "192.0.2.1:22" {
		t.Errorf("got %q, want %q", got, "192.0.2.1:22")
	}
	if got := FormatAddr("2001:db8::1", 22); got != "[2001:db8::1]:22" {
		t.Errorf("got %q, want %q", got, "[2001:db8::1]:22")
	}
}
