package getplugins

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// ManifestFilename is the name of the manifest file expected in the root
// of every plugin package.
const ManifestFilename = "plugin.hcl"

// Manifest is the parsed content of a plugin.hcl file, which declares the
// identity of the package it ships with.
type Manifest struct {
	Name      string   `hcl:"name"`
	Version   string   `hcl:"version"`
	Protocols []string `hcl:"protocols,optional"`
}

// LoadManifest reads and decodes the plugin manifest in the given package
// directory, validating its name and version fields.
func LoadManifest(pkgDir string) (addrs.Plugin, Version, error) {
	filename := filepath.Join(pkgDir, ManifestFilename)

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return addrs.Plugin{}, nil, fmt.Errorf("invalid plugin manifest %s: %s", filename, diags.Error())
	}

	var manifest Manifest
	diags = gohcl.DecodeBody(f.Body, nil, &manifest)
	if diags.HasErrors() {
		return addrs.Plugin{}, nil, fmt.Errorf("invalid plugin manifest %s: %s", filename, diags.Error())
	}

	plugin, err := addrs.ParsePluginName(manifest.Name)
	if err != nil {
		return addrs.Plugin{}, nil, fmt.Errorf("invalid plugin manifest %s: %s", filename, err)
	}
	version, err := ParseVersion(manifest.Version)
	if err != nil {
		return addrs.Plugin{}, nil, fmt.Errorf("invalid plugin manifest %s: invalid version %q: %s", filename, manifest.Version, err)
	}

	return plugin, version, nil
}
