// Package settings holds the ambient configuration for an installation
// run: the default registry remotes, the cache directory, and the
// deployment/frozen switches that normally forbid changing installed
// state.
package settings

import (
	"sync"
)

// Settings is the ambient configuration shared by the components of one
// process.
//
// The zero value is usable: no remotes, no cache directory, and both
// restriction modes off.
type Settings struct {
	// mu serializes Temporary overrides. Only one scoped override may be
	// in flight at a time; concurrent callers block until the current
	// override is released.
	mu sync.Mutex

	// Remotes are the default registry remote URLs consulted when an
	// installation request doesn't name an explicit source.
	Remotes []string

	// CacheDir is the directory plugins are installed into.
	CacheDir string

	// Deployment and Frozen, when set, forbid operations that would
	// introduce new or changed installed state.
	Deployment bool
	Frozen     bool
}

// Overrides describes a set of temporary settings changes. A nil field
// means "leave unchanged".
type Overrides struct {
	Deployment *bool
	Frozen     *bool
}

// Temporary applies the given overrides for exactly the duration of the
// callback, restoring the previous values on every exit path, including
// a panic in the callback.
//
// Overrides do not nest: a second Temporary call while one is in flight
// blocks until the first completes, so the callback must not call
// Temporary on the same Settings again.
func (s *Settings) Temporary(o Overrides, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevDeployment := s.Deployment
	prevFrozen := s.Frozen
	defer func() {
		s.Deployment = prevDeployment
		s.Frozen = prevFrozen
	}()

	if o.Deployment != nil {
		s.Deployment = *o.Deployment
	}
	if o.Frozen != nil {
		s.Frozen = *o.Frozen
	}

	return fn()
}

// Bool is a helper for constructing Overrides literals.
func Bool(v bool) *bool {
	return &v
}
