package plugincache

import (
	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/getplugins"
)

// CachedPlugin represents a plugin package in a cache directory.
type CachedPlugin struct {
	// Plugin and Version together identify the specific plugin version
	// this cache entry represents.
	Plugin  addrs.Plugin
	Version getplugins.Version

	// PackageDir is the local filesystem path to the root directory where
	// the plugin's distribution package was unpacked.
	//
	// The path always uses slashes as path separators, even on Windows,
	// so that the results are consistent between platforms.
	PackageDir string
}

// PackageLocation returns the package directory given in the PackageDir
// field as a getplugins.PackageLocation implementation.
//
// Because cached plugins are always in the unpacked structure, the result
// is always of the concrete type getplugins.PackageLocalDir.
func (cp *CachedPlugin) PackageLocation() getplugins.PackageLocalDir {
	return getplugins.PackageLocalDir(cp.PackageDir)
}

// Hash computes a hash of the contents of the package directory associated
// with the receiving cached plugin, using whichever hash algorithm is the
// current default.
func (cp *CachedPlugin) Hash() (string, error) {
	return getplugins.PackageHashV1(cp.PackageLocation())
}

// MatchesHash returns true if the package on disk matches the given hash,
// or false otherwise. If it cannot traverse the package directory and read
// all of the files in it, or if the hash is in an unsupported format,
// MatchesHash returns an error.
func (cp *CachedPlugin) MatchesHash(want string) (bool, error) {
	return getplugins.PackageMatchesHash(cp.PackageLocation(), want)
}
