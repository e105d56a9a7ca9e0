// Package response contains the JSON response types for the plugin
// registry protocol.
package response

import (
	"sort"

	version "github.com/hashicorp/go-version"
)

// PluginVersions is the response structure for the versions endpoint:
// GET /v1/plugins/{name}/versions
type PluginVersions struct {
	ID       string           `json:"id"`
	Versions []*PluginVersion `json:"versions"`
}

// PluginVersion is a single released version of a plugin, as reported by
// the registry.
type PluginVersion struct {
	Version   string   `json:"version"`
	Protocols []string `json:"protocols,omitempty"`
}

// PluginLocation is the response structure for the download endpoint:
// GET /v1/plugins/{name}/{version}/download
type PluginLocation struct {
	DownloadURL string `json:"url"`
	Filename    string `json:"filename"`
	SHASum      string `json:"shasum,omitempty"`
}

// Collection is a list of plugin versions that sorts in _reverse_ version
// order: newest first. Invalid version strings sort last.
type Collection []*PluginVersion

func (c Collection) Len() int      { return len(c) }
func (c Collection) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c Collection) Less(i, j int) bool {
	vi, ei := version.NewVersion(c[i].Version)
	vj, ej := version.NewVersion(c[j].Version)
	if ei != nil {
		return false
	}
	if ej != nil {
		return true
	}
	return vi.GreaterThan(vj)
}

// Sort sorts the collection newest-first.
func (c Collection) Sort() {
	sort.Stable(c)
}
