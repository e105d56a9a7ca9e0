package getplugins

import (
	"fmt"
	"strings"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// ErrPluginNotFound is an error type used to indicate that none of the
// sources consulted know about the requested plugin at all.
type ErrPluginNotFound struct {
	Plugin addrs.Plugin

	// Sources gives the display strings of the sources that were
	// consulted, for inclusion in the error message.
	Sources []string
}

func (err ErrPluginNotFound) Error() string {
	if len(err.Sources) == 0 {
		return fmt.Sprintf("plugin %s was not found in any configured source", err.Plugin)
	}
	return fmt.Sprintf(
		"plugin %s was not found in any of the search locations\n\n%s",
		err.Plugin,
		"  - "+strings.Join(err.Sources, "\n  - "),
	)
}

// ErrNoSuitableVersion is an error type used to indicate that a source
// has versions of the requested plugin, but none of them satisfy the
// given version constraints.
type ErrNoSuitableVersion struct {
	Plugin      addrs.Plugin
	Constraints Constraints
}

func (err ErrNoSuitableVersion) Error() string {
	return fmt.Sprintf(
		"no available version of plugin %s matches the constraint %q",
		err.Plugin, err.Constraints.String(),
	)
}

// ErrQueryFailed is an error type used to indicate that a source failed
// to answer a query about the requested plugin for some reason other than
// the plugin not existing there, such as a network problem.
type ErrQueryFailed struct {
	Plugin  addrs.Plugin
	Wrapped error
}

func (err ErrQueryFailed) Error() string {
	return fmt.Sprintf("could not query plugin source for %s: %s", err.Plugin, err.Wrapped)
}

// Unwrap returns the error that the query operation failed with, for use
// with the errors package.
func (err ErrQueryFailed) Unwrap() error {
	return err.Wrapped
}
