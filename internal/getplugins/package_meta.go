package getplugins

import (
	"context"
	"fmt"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// PackageMeta represents the metadata about a remote package that a Source
// is able to return during plugin resolution.
//
// A PackageMeta is the information needed to subsequently retrieve and
// install the package described, via its Location.
type PackageMeta struct {
	Plugin  addrs.Plugin
	Version Version

	// Filename is the name the distribution archive would have if saved
	// locally. For locations that are not archives this is a synthetic
	// name following the standard naming scheme.
	Filename string

	// Location is where the package content can be retrieved from.
	Location PackageLocation

	// SHA256Sum is the hex-encoded expected checksum of the distribution
	// archive, or empty if the source offers no checksum.
	SHA256Sum string
}

// PackageLocation represents a location where a plugin package can be
// retrieved from. It is a closed interface over the small set of concrete
// location types below.
type PackageLocation interface {
	packageLocation()
	String() string
}

// PackageHTTPURL is a package location accessible via HTTP, expected to
// resolve to a zip archive of the package contents.
type PackageHTTPURL string

func (p PackageHTTPURL) packageLocation() {}
func (p PackageHTTPURL) String() string   { return string(p) }

// PackageLocalArchive is the location of a zip archive of the package
// contents already present on the local filesystem.
type PackageLocalArchive string

func (p PackageLocalArchive) packageLocation() {}
func (p PackageLocalArchive) String() string   { return string(p) }

// PackageLocalDir is the location of a directory on the local filesystem
// that already contains the unpacked package contents, such as a git
// working tree produced during resolution.
type PackageLocalDir string

func (p PackageLocalDir) packageLocation() {}
func (p PackageLocalDir) String() string   { return string(p) }

// PackageInstaller is the capability to take a package described by a
// PackageMeta and install it locally, returning the directory where the
// unpacked package now lives.
//
// plugincache.Dir is the main implementation.
type PackageInstaller interface {
	InstallPackage(ctx context.Context, meta PackageMeta) (string, error)
}

func packageFilename(plugin addrs.Plugin, version Version) string {
	return fmt.Sprintf("pluginstall-%s_%s.zip", plugin.Name, version.String())
}
