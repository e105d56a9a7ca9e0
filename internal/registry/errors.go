package registry

import (
	"fmt"
)

type errPluginNotFound struct {
	name string
	host string
}

func (e *errPluginNotFound) Error() string {
	return fmt.Sprintf("plugin %s not found on %s", e.name, e.host)
}

// IsPluginNotFound returns true only if the given error is a "plugin not
// found" error. This allows callers to recognize this particular error
// condition as distinct from operational errors such as poor network
// connectivity.
func IsPluginNotFound(err error) bool {
	_, ok := err.(*errPluginNotFound)
	return ok
}

// IsServiceUnreachable returns true if the registry/service appears to be
// unreachable at the network level.
func IsServiceUnreachable(err error) bool {
	switch err.(type) {
	case *errServiceUnreachable:
		return true
	default:
		return false
	}
}

type errServiceUnreachable struct {
	host string
	err  error
}

func (e *errServiceUnreachable) Error() string {
	return fmt.Sprintf("service unreachable at %s: %s", e.host, e.err)
}
