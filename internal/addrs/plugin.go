// Package addrs contains types that represent the identities of plugins,
// and functions for parsing those identities from user input.
package addrs

import (
	"fmt"
	"strings"
)

// Plugin is the identity of a plugin: a normalized name unique within
// whichever registry or repository the plugin is fetched from.
//
// A Plugin value is comparable and can be used as a map key.
type Plugin struct {
	Name string
}

// String returns the normalized name of the plugin.
func (p Plugin) String() string {
	return p.Name
}

// IsZero returns true if the receiver is the zero value of Plugin.
func (p Plugin) IsZero() bool {
	return p == Plugin{}
}

// ParsePluginName normalizes and validates the given string as a plugin
// name, returning an error if it contains characters that are not allowed.
//
// Names are lowercase-only, may contain letters, digits and dashes, and
// must both start and end with a letter or digit. The empty string is
// never a valid name.
func ParsePluginName(given string) (Plugin, error) {
	if given == "" {
		return Plugin{}, fmt.Errorf("must have at least one character")
	}

	// In user input we tolerate uppercase letters by folding them, since
	// names are case-insensitive in practice, but the canonical form is
	// always lowercase.
	name := strings.ToLower(given)

	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return Plugin{}, fmt.Errorf("invalid plugin name %q: must not start or end with a dash", given)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return Plugin{}, fmt.Errorf("invalid plugin name %q: may contain only lowercase letters, digits, and dashes", given)
		}
	}

	return Plugin{Name: name}, nil
}

// MustParsePluginName is a wrapper around ParsePluginName that panics if
// it returns an error. For use in tests and package initialization only.
func MustParsePluginName(given string) Plugin {
	p, err := ParsePluginName(given)
	if err != nil {
		panic(err)
	}
	return p
}
