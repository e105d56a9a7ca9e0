package getplugins

import (
	"context"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// MockSource is an in-memory-only, statically-configured source intended
// for use in unit tests elsewhere in the codebase.
//
// The MockSource also tracks the queries it has received, so tests can
// assert which lookups happened and in what order.
type MockSource struct {
	packages []PackageMeta
	calls    [][]interface{}
}

var _ Source = (*MockSource)(nil)

// NewMockSource creates and returns a MockSource with the given packages.
//
// The given packages don't necessarily need to be realistic, but the
// resolver will malfunction if the list contains duplicate
// (plugin, version) pairs.
func NewMockSource(packages []PackageMeta) *MockSource {
	return &MockSource{
		packages: packages,
	}
}

// AvailableVersions returns all of the versions of the given plugin that
// are available in the fixed set of packages.
func (s *MockSource) AvailableVersions(ctx context.Context, plugin addrs.Plugin) (VersionList, error) {
	s.calls = append(s.calls, []interface{}{"AvailableVersions", plugin})
	var ret VersionList
	for _, pkg := range s.packages {
		if pkg.Plugin == plugin {
			ret = append(ret, pkg.Version)
		}
	}
	if len(ret) == 0 {
		return nil, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
	}
	return ret, nil
}

// PackageMeta returns the first package in the fixed set that matches the
// given plugin and version.
func (s *MockSource) PackageMeta(ctx context.Context, plugin addrs.Plugin, version Version) (PackageMeta, error) {
	s.calls = append(s.calls, []interface{}{"PackageMeta", plugin, version})
	for _, pkg := range s.packages {
		if pkg.Plugin == plugin && pkg.Version.Equal(version) {
			return pkg, nil
		}
	}
	return PackageMeta{}, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
}

// ForDisplay returns a fixed string describing the mock.
func (s *MockSource) ForDisplay() string {
	return "mock source"
}

// CallLog returns the sequence of queries the source has received so far.
func (s *MockSource) CallLog() [][]interface{} {
	return s.calls
}
