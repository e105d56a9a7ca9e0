package plugincache

import (
	"context"
	"fmt"
	"log"

	"github.com/hashicorp/pluginstall/internal/getplugins"
)

// InstallPackage takes a metadata object describing a package available
// for installation, retrieves that package, and installs it into the
// receiving cache directory, returning the directory it was unpacked into.
func (d *Dir) InstallPackage(ctx context.Context, meta getplugins.PackageMeta) (string, error) {
	newPath := unpackedDirectoryPath(d.baseDir, meta.Plugin, meta.Version)

	// Invalidate our metaCache so that subsequent read calls will re-scan
	// to incorporate any changes we make here.
	d.metaCache = nil

	log.Printf("[TRACE] plugincache.Dir.InstallPackage: installing %s v%s from %s", meta.Plugin, meta.Version, meta.Location)
	var err error
	switch location := meta.Location.(type) {
	case getplugins.PackageHTTPURL:
		err = installFromHTTPURL(ctx, meta, newPath)
	case getplugins.PackageLocalArchive:
		err = installFromLocalArchive(ctx, string(location), newPath)
	case getplugins.PackageLocalDir:
		err = installFromLocalDir(ctx, string(location), newPath)
	default:
		// Should not get here, because the above should be exhaustive for
		// all implementations of getplugins.PackageLocation.
		err = fmt.Errorf("don't know how to install from a %T location", location)
	}
	if err != nil {
		return "", err
	}

	if meta.SHA256Sum == "" {
		log.Printf("[WARN] plugincache.Dir.InstallPackage: no checksum available for %s v%s, skipping verification", meta.Plugin, meta.Version)
	}

	return newPath, nil
}

var _ getplugins.PackageInstaller = (*Dir)(nil)
