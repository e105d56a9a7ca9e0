package getplugins

import (
	version "github.com/hashicorp/go-version"
)

// Version represents a particular single version of a plugin.
type Version = *version.Version

// VersionList represents a list of versions.
type VersionList []Version

// Constraints represents a set of version constraints, which can be used
// to test a particular Version for acceptance.
type Constraints = version.Constraints

// AnyVersion is the unconstrained version constraint, allowing any
// release at all.
var AnyVersion = MustParseConstraints(">= 0")

// ParseVersion parses a "semver"-style version string into a Version
// value, which is the version syntax used by plugin registries.
func ParseVersion(str string) (Version, error) {
	return version.NewVersion(str)
}

// MustParseVersion is a variant of ParseVersion that panics if it fails.
func MustParseVersion(str string) Version {
	ret, err := ParseVersion(str)
	if err != nil {
		panic(err)
	}
	return ret
}

// ParseConstraints parses a version constraint string, such as
// ">= 1.2, < 2.0", into a Constraints value.
func ParseConstraints(str string) (Constraints, error) {
	return version.NewConstraint(str)
}

// MustParseConstraints is a variant of ParseConstraints that panics if it
// fails.
func MustParseConstraints(str string) Constraints {
	ret, err := ParseConstraints(str)
	if err != nil {
		panic(err)
	}
	return ret
}

// NewestAllowed returns the newest version in the list that is allowed by
// the given constraints, or nil if no version in the list is allowed.
//
// The receiver list is not modified.
func (vs VersionList) NewestAllowed(allowed Constraints) Version {
	var newest Version
	for _, v := range vs {
		if !allowed.Check(v) {
			continue
		}
		if newest == nil || v.GreaterThan(newest) {
			newest = v
		}
	}
	return newest
}
