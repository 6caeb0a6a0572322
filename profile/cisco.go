package profile

import (
	"netshell/internal/boundary"
)

// ciscoConfigPrompt matches "(config)#", "(config-if)#",
// "(config-router)#" and friends.
const ciscoConfigPrompt = `\(config[^)]*\)#`

// CiscoIOS covers IOS and IOS-XE.
var CiscoIOS Profile = &Family{
	FamilyName:    "cisco_ios",
	UserPrompt:    ">",
	PrivPrompt:    "#",
	ConfigPrompt:  ciscoConfigPrompt,
	EnableCommand: "enable",
	PasswordAsk:   "password:",
	PagingCommand: "terminal length 0",
	ConfigCommand: "configure terminal",
	ExitConfig:    "end",
}

// CiscoIOSXR prefixes the hostname with the route processor location,
// e.g. "RP/0/RSP0/CPU0:router1#".
var CiscoIOSXR Profile = &iosxr{Family: Family{
	FamilyName:    "cisco_iosxr",
	UserPrompt:    ">",
	PrivPrompt:    "#",
	ConfigPrompt:  ciscoConfigPrompt,
	EnableCommand: "enable",
	PasswordAsk:   "password:",
	PagingCommand: "terminal length 0",
	ConfigCommand: "configure terminal",
	ExitConfig:    "end",
}}

type iosxr struct {
	Family
}

// xrLocation matches the "RP/0/RSP0/CPU0:" style prefix.
const xrLocation = `[a-z]+/\d+/[a-z0-9]+/cpu\d+:`

func (x *iosxr) DefaultBoundary(host, explicit string) (string, error) {
	if explicit != "" {
		return boundary.DefaultPattern(host, explicit)
	}
	p, err := boundary.DefaultPattern(host, "")
	if err != nil {
		return "", err
	}
	return xrLocation + p, nil
}
