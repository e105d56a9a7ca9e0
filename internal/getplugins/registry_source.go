package getplugins

import (
	"context"
	"log"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/registry"
	"github.com/hashicorp/pluginstall/internal/registry/response"
)

// RegistrySource is a Source that knows how to find and install plugins
// from one or more plugin registry remotes, tried in order.
type RegistrySource struct {
	spec   RegistrySpec
	client *registry.Client
}

var _ Source = (*RegistrySource)(nil)

// NewRegistrySource creates and returns a new source that will fetch
// plugin metadata from the remotes in the given spec, in order, using the
// given client.
func NewRegistrySource(spec RegistrySpec, client *registry.Client) *RegistrySource {
	return &RegistrySource{
		spec:   spec,
		client: client,
	}
}

// AvailableVersions returns all of the versions of the given plugin known
// to the first remote that has any, as a deduplicated list sorted newest
// first.
//
// A remote that doesn't know the plugin at all is skipped; a remote that
// fails to answer aborts the whole query, because we can't tell whether it
// would've taken priority over the remotes after it.
func (s *RegistrySource) AvailableVersions(ctx context.Context, plugin addrs.Plugin) (VersionList, error) {
	for _, remote := range s.spec.Remotes {
		resp, err := s.client.PluginVersions(ctx, remote, plugin.Name)
		if registry.IsPluginNotFound(err) {
			log.Printf("[DEBUG] getplugins: %s not known to registry %s", plugin, remote)
			continue
		}
		if err != nil {
			if registry.IsServiceUnreachable(err) {
				log.Printf("[WARN] getplugins: registry %s is unreachable: %s", remote, err)
			}
			return nil, ErrQueryFailed{Plugin: plugin, Wrapped: err}
		}
		return s.decodeVersions(plugin, resp), nil
	}
	return nil, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
}

func (s *RegistrySource) decodeVersions(plugin addrs.Plugin, resp *response.PluginVersions) VersionList {
	// Registries don't promise any particular ordering, so impose the
	// canonical one before decoding: newest first, invalid entries last.
	response.Collection(resp.Versions).Sort()

	ret := make(VersionList, 0, len(resp.Versions))
	seen := make(map[string]struct{}, len(resp.Versions))
	for _, rv := range resp.Versions {
		v, err := ParseVersion(rv.Version)
		if err != nil {
			// Invalid version reported by the registry. Move along.
			log.Printf("[WARN] getplugins: registry reported invalid version %q for %s: %s", rv.Version, plugin, err)
			continue
		}
		if _, ok := seen[v.String()]; ok {
			continue
		}
		seen[v.String()] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}

// PackageMeta returns the download location for the given plugin version
// from the first remote that can supply it.
func (s *RegistrySource) PackageMeta(ctx context.Context, plugin addrs.Plugin, version Version) (PackageMeta, error) {
	var lastErr error
	for _, remote := range s.spec.Remotes {
		loc, err := s.client.PluginLocation(ctx, remote, plugin.Name, version.String())
		if registry.IsPluginNotFound(err) {
			continue
		}
		if err != nil {
			lastErr = ErrQueryFailed{Plugin: plugin, Wrapped: err}
			continue
		}

		filename := loc.Filename
		if filename == "" {
			filename = packageFilename(plugin, version)
		}
		return PackageMeta{
			Plugin:    plugin,
			Version:   version,
			Filename:  filename,
			Location:  PackageHTTPURL(loc.DownloadURL),
			SHA256Sum: loc.SHASum,
		}, nil
	}
	if lastErr != nil {
		return PackageMeta{}, lastErr
	}
	return PackageMeta{}, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
}

// ForDisplay returns a UI-oriented description of this source.
func (s *RegistrySource) ForDisplay() string {
	return s.spec.ForDisplay()
}
