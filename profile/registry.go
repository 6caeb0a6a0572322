package profile

import (
	"fmt"
	"sort"
	"strings"
)

// Default is the profile used when none is configured.
const Default = "cisco_ios"

var registry = map[string]Profile{}

func init() {
	for _, p := range []Profile{CiscoIOS, CiscoIOSXR} {
		Register(p)
	}
	// NX-OS prompts and mode commands are the IOS ones.
	Alias("cisco_nxos", CiscoIOS.Name())
}

// Register adds p under its name, replacing any previous entry.
func Register(p Profile) {
	registry[p.Name()] = p
}

// Alias makes name resolve to the already registered profile target.
func Alias(name, target string) {
	if p, ok := registry[target]; ok {
		registry[name] = p
	}
}

// Lookup returns the profile registered as name.  Lookup is
// case-insensitive and treats "-" like "_" ("cisco-ios").
func Lookup(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	key := strings.ReplaceAll(strings.ToLower(name), "-", "_")
	if p, ok := registry[key]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown device profile %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered profile names and aliases in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
