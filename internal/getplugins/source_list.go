package getplugins

import (
	"strings"
)

// SourceList is an ordered collection of source descriptors consumed by a
// single resolution pass.
//
// Additions have set semantics: adding a git source whose URI is already
// present is a no-op, and registry remotes accumulate into a single
// RegistrySpec without duplicates. A SourceList belongs to exactly one
// installation call and must not be shared or reused across calls.
type SourceList struct {
	specs []SourceSpec

	// registryIdx is the index in specs of the accumulated RegistrySpec,
	// or -1 if no registry remote has been added yet.
	registryIdx int
}

// NewSourceList returns a new, empty SourceList.
func NewSourceList() *SourceList {
	return &SourceList{
		registryIdx: -1,
	}
}

// AddGit adds the given git descriptor to the list. Adding a descriptor
// with a URI that is already present is a no-op, even if the new
// descriptor carries a different ref or branch: the first-added descriptor
// wins for a given URI.
func (l *SourceList) AddGit(spec GitSpec) {
	for _, existing := range l.specs {
		if git, ok := existing.(GitSpec); ok && git.URI == spec.URI {
			return
		}
	}
	l.specs = append(l.specs, spec)
}

// AddRegistry adds the given remote URLs to the list's registry
// descriptor, creating it if necessary. Remotes already present are
// skipped; new remotes keep their given order.
func (l *SourceList) AddRegistry(spec RegistrySpec) {
	if l.registryIdx < 0 {
		l.specs = append(l.specs, RegistrySpec{})
		l.registryIdx = len(l.specs) - 1
	}
	existing := l.specs[l.registryIdx].(RegistrySpec)
	for _, remote := range spec.Remotes {
		if containsRemote(existing.Remotes, remote) {
			continue
		}
		existing.Remotes = append(existing.Remotes, remote)
	}
	l.specs[l.registryIdx] = existing
}

func containsRemote(remotes []string, remote string) bool {
	for _, r := range remotes {
		if r == remote {
			return true
		}
	}
	return false
}

// Specs returns the descriptors in the order they were first added. The
// caller must not modify the returned slice.
func (l *SourceList) Specs() []SourceSpec {
	return l.specs
}

// Empty returns true if no descriptor has been added yet.
func (l *SourceList) Empty() bool {
	return len(l.specs) == 0
}

// ForDisplay returns a UI-oriented description of all descriptors in the
// list, one per line.
func (l *SourceList) ForDisplay() string {
	ret := make([]string, len(l.specs))
	for i, spec := range l.specs {
		ret[i] = spec.ForDisplay()
	}
	return strings.Join(ret, "\n")
}
