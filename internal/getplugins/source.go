// Package getplugins is the lowest-level provenance layer for plugin
// installation: it knows how to ask different kinds of sources which
// plugin versions they can offer and where the corresponding packages can
// be fetched from, and how to pick a suitable version for a set of
// requirements.
//
// It doesn't own the installation directory; that's plugincache's job.
package getplugins

import (
	"context"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// Source is the runtime capability behind a SourceSpec: something that
// can answer queries about plugin versions and packages.
type Source interface {
	AvailableVersions(ctx context.Context, plugin addrs.Plugin) (VersionList, error)
	PackageMeta(ctx context.Context, plugin addrs.Plugin, version Version) (PackageMeta, error)
	ForDisplay() string
}
