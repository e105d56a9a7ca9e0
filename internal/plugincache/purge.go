package plugincache

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// RemovePlugin removes all installed versions of the given plugin from the
// cache directory, returning the entries that were removed.
//
// Removal is best-effort across versions: a failure to remove one version
// doesn't prevent attempts on the others, and all failures are aggregated
// into the returned error.
func (d *Dir) RemovePlugin(plugin addrs.Plugin) ([]CachedPlugin, error) {
	if err := d.fillMetaCache(); err != nil {
		return nil, err
	}
	entries := d.metaCache[plugin]

	// Invalidate our metaCache so that subsequent read calls will re-scan
	// to incorporate any changes we make here.
	d.metaCache = nil

	var removed []CachedPlugin
	var errs error
	for _, entry := range entries {
		log.Printf("[DEBUG] plugincache.Dir.RemovePlugin: removing %s v%s from %s", entry.Plugin, entry.Version, entry.PackageDir)
		if err := os.RemoveAll(entry.PackageDir); err != nil {
			errs = multierror.Append(errs, fmt.Errorf(
				"failed to remove installed plugin package %s: %s",
				entry.PackageDir, err,
			))
			continue
		}
		removed = append(removed, entry)
	}

	// If every version went away then the now-empty plugin directory goes
	// too. Failure here is not an error; a later install will reuse it.
	if errs == nil && len(entries) > 0 {
		os.Remove(filepath.Join(d.baseDir, plugin.Name))
	}

	return removed, errs
}
