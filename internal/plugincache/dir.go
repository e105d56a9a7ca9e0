// Package plugincache is the installation side of plugin management: a
// local filesystem directory that plugin packages are unpacked into, and
// that can be scanned to find what's already installed.
package plugincache

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/getplugins"
)

// Dir represents a single local filesystem directory containing installed
// plugin packages, which can be both read from (to find plugins to run)
// and written to (during plugin installation).
//
// The cache layout is baseDir/<plugin-name>/<version>/, where the version
// directory holds the unpacked contents of the plugin's distribution
// package.
//
// If two instances of Dir are concurrently operating on a particular base
// directory, the behavior is undefined.
type Dir struct {
	baseDir string

	// metaCache is a cache of the metadata of relevant packages available
	// in the cache directory last time we scanned it. This can be nil to
	// indicate that the cache is cold. The cache will be invalidated (set
	// back to nil) by any operation that modifies the contents of the
	// cache directory.
	metaCache map[addrs.Plugin][]CachedPlugin
}

// NewDir creates and returns a new Dir object that will read and write
// plugin packages in the given filesystem directory.
func NewDir(baseDir string) *Dir {
	return &Dir{
		baseDir: baseDir,
	}
}

// BasePath returns the filesystem path of the base directory of this
// cache directory.
func (d *Dir) BasePath() string {
	return filepath.Clean(d.baseDir)
}

// AllAvailablePackages returns a description of all of the packages
// already present in the directory, grouped by the plugin they relate to
// and sorted by version precedence, with highest precedence first.
//
// This function will return an empty result both when the directory is
// empty and when scanning the directory produces an error.
//
// The caller is forbidden from modifying the returned data structure in
// any way, even though the Go type system permits it.
func (d *Dir) AllAvailablePackages() map[addrs.Plugin][]CachedPlugin {
	if err := d.fillMetaCache(); err != nil {
		log.Printf("[WARN] Failed to scan plugin cache directory %s: %s", d.baseDir, err)
		return nil
	}

	return d.metaCache
}

// PluginVersion returns the cache entry for the requested plugin version,
// or nil if the requested plugin version isn't present in the cache.
func (d *Dir) PluginVersion(plugin addrs.Plugin, version getplugins.Version) *CachedPlugin {
	if err := d.fillMetaCache(); err != nil {
		return nil
	}

	for _, entry := range d.metaCache[plugin] {
		// We're intentionally comparing exact versions here, including
		// any build metadata, because the cache layout records the
		// version string verbatim.
		if entry.Version.Equal(version) {
			return &entry
		}
	}

	return nil
}

// PluginLatestVersion returns the cache entry for the latest version of
// the requested plugin already available in the cache, or nil if there are
// no versions of that plugin available.
func (d *Dir) PluginLatestVersion(plugin addrs.Plugin) *CachedPlugin {
	if err := d.fillMetaCache(); err != nil {
		return nil
	}

	entries := d.metaCache[plugin]
	if len(entries) == 0 {
		return nil
	}

	return &entries[0]
}

func (d *Dir) fillMetaCache() error {
	// For d.metaCache we consider nil to be different than a non-nil
	// empty map, so we can distinguish between having scanned and got an
	// empty result vs. not having scanned successfully at all yet.
	if d.metaCache != nil {
		log.Printf("[TRACE] plugincache.fillMetaCache: using cached result from previous scan of %s", d.baseDir)
		return nil
	}
	log.Printf("[TRACE] plugincache.fillMetaCache: scanning directory %s", d.baseDir)

	// We intentionally always make a non-nil map, even if it might
	// ultimately be empty, because we use that to recognize that the
	// cache is populated.
	data := make(map[addrs.Plugin][]CachedPlugin)

	entries, err := ioutil.ReadDir(d.baseDir)
	if os.IsNotExist(err) {
		// An absent directory is the same as an empty one.
		d.metaCache = data
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		plugin, err := addrs.ParsePluginName(entry.Name())
		if err != nil {
			log.Printf("[TRACE] plugincache.fillMetaCache: ignoring directory %q: %s", entry.Name(), err)
			continue
		}

		pluginDir := filepath.Join(d.baseDir, entry.Name())
		versionEntries, err := ioutil.ReadDir(pluginDir)
		if err != nil {
			return err
		}
		for _, versionEntry := range versionEntries {
			if !versionEntry.IsDir() {
				continue
			}
			version, err := getplugins.ParseVersion(versionEntry.Name())
			if err != nil {
				log.Printf("[TRACE] plugincache.fillMetaCache: ignoring directory %q: invalid version: %s", versionEntry.Name(), err)
				continue
			}

			packageDir := filepath.Clean(filepath.Join(pluginDir, versionEntry.Name()))
			log.Printf("[TRACE] plugincache.fillMetaCache: including %s as a candidate package for %s %s", packageDir, plugin, version)
			data[plugin] = append(data[plugin], CachedPlugin{
				Plugin:     plugin,
				Version:    version,
				PackageDir: filepath.ToSlash(packageDir),
			})
		}
	}

	// After we've built our lists per plugin, we'll also sort them by
	// version precedence so that the newest available version is always
	// at index zero.
	for _, entries := range data {
		sort.SliceStable(entries, func(i, j int) bool {
			// We're using GreaterThan rather than LessThan here because
			// we want these in _decreasing_ order of precedence.
			return entries[i].Version.GreaterThan(entries[j].Version)
		})
	}

	d.metaCache = data
	return nil
}

// unpackedDirectoryPath returns the path that the package for the given
// plugin version would be unpacked into within the given base directory.
func unpackedDirectoryPath(baseDir string, plugin addrs.Plugin, version getplugins.Version) string {
	return filepath.ToSlash(filepath.Join(baseDir, plugin.Name, version.String()))
}
