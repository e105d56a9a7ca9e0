package getplugins

import (
	"context"
	"fmt"
	"log"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/registry"
)

// Requirement is a request for one plugin under a version constraint.
type Requirement struct {
	Plugin      addrs.Plugin
	Constraints Constraints
}

// Requirements is an ordered set of requirements for one resolution pass.
type Requirements []Requirement

// Resolver is the capability to turn a set of requirements plus a source
// list into a consistent set of resolved plugins.
type Resolver interface {
	ResolvePlugins(ctx context.Context, reqs Requirements, sources *SourceList) ([]*ResolvedPlugin, error)
}

// ResolvedPlugin describes one plugin the resolver settled on: a concrete
// version, the descriptor of the source that satisfied it, the package
// metadata, and an install capability bound to that source.
type ResolvedPlugin struct {
	Plugin  addrs.Plugin
	Version Version
	Source  SourceSpec
	Meta    PackageMeta

	installer PackageInstaller
	close     func() error
}

// NewResolvedPlugin constructs a ResolvedPlugin whose install capability
// is bound to the given installer. Most callers get resolved plugins from
// a Resolver instead; this constructor exists for callers that assemble
// resolution results themselves, and for tests.
func NewResolvedPlugin(plugin addrs.Plugin, version Version, source SourceSpec, meta PackageMeta, installer PackageInstaller) *ResolvedPlugin {
	return &ResolvedPlugin{
		Plugin:    plugin,
		Version:   version,
		Source:    source,
		Meta:      meta,
		installer: installer,
	}
}

// Install retrieves and unpacks the resolved package via the bound install
// capability, returning the directory the package was installed into.
func (p *ResolvedPlugin) Install(ctx context.Context) (string, error) {
	if p.installer == nil {
		return "", fmt.Errorf("plugin %s has no install capability bound", p.Plugin)
	}
	dir, err := p.installer.InstallPackage(ctx, p.Meta)
	if err != nil {
		return "", err
	}
	if err := p.Close(); err != nil {
		log.Printf("[WARN] getplugins: failed to clean up staging for %s: %s", p.Plugin, err)
	}
	return dir, nil
}

// Close releases any staging state (such as a git working tree) still held
// by the resolved plugin. It is safe to call more than once, and after
// Install, which closes implicitly.
func (p *ResolvedPlugin) Close() error {
	if p.close == nil {
		return nil
	}
	close := p.close
	p.close = nil
	return close()
}

// SourceResolver is the production Resolver: it walks the source list in
// order for each requirement and selects the newest version allowed by the
// requirement's constraints from the first source that knows the plugin.
type SourceResolver struct {
	target   PackageInstaller
	registry *registry.Client
}

var _ Resolver = (*SourceResolver)(nil)

// NewSourceResolver creates and returns a resolver that binds the install
// capability of each resolved plugin to the given target, and queries
// registry sources through the given client. A nil client means a default
// one is constructed on first use.
func NewSourceResolver(target PackageInstaller, client *registry.Client) *SourceResolver {
	return &SourceResolver{
		target:   target,
		registry: client,
	}
}

// ResolvePlugins resolves all of the given requirements against the given
// source list, in requirement order.
//
// On failure no resolved plugins are returned and any staging state
// created along the way is released. On success the caller owns the
// returned plugins and must either Install or Close each one.
func (r *SourceResolver) ResolvePlugins(ctx context.Context, reqs Requirements, sources *SourceList) (ret []*ResolvedPlugin, err error) {
	specs := sources.Specs()
	srcs := make([]Source, len(specs))
	for i, spec := range specs {
		switch spec := spec.(type) {
		case RegistrySpec:
			srcs[i] = NewRegistrySource(spec, r.registryClient())
		case GitSpec:
			srcs[i] = NewGitSource(spec)
		default:
			// Should not get here: SourceSpec is a closed interface.
			return nil, fmt.Errorf("don't know how to resolve from a %T source", spec)
		}
	}

	defer func() {
		if err == nil {
			return
		}
		for _, src := range srcs {
			if git, ok := src.(*GitSource); ok {
				git.Close()
			}
		}
	}()

	for _, req := range reqs {
		resolved, err := r.resolveOne(ctx, req, specs, srcs)
		if err != nil {
			return nil, err
		}
		log.Printf("[DEBUG] getplugins: resolved %s %s from %s", resolved.Plugin, resolved.Version, resolved.Source.ForDisplay())
		ret = append(ret, resolved)
	}
	return ret, nil
}

func (r *SourceResolver) resolveOne(ctx context.Context, req Requirement, specs []SourceSpec, srcs []Source) (*ResolvedPlugin, error) {
	var sawVersions bool
	for i, src := range srcs {
		vs, err := src.AvailableVersions(ctx, req.Plugin)
		switch err.(type) {
		case nil:
			// okay
		case ErrPluginNotFound:
			continue // not in this source, try the next one
		default:
			return nil, err
		}
		if len(vs) == 0 {
			continue
		}
		sawVersions = true

		newest := vs.NewestAllowed(req.Constraints)
		if newest == nil {
			continue
		}

		meta, err := src.PackageMeta(ctx, req.Plugin, newest)
		if err != nil {
			return nil, err
		}

		resolved := &ResolvedPlugin{
			Plugin:    req.Plugin,
			Version:   newest,
			Source:    specs[i],
			Meta:      meta,
			installer: r.target,
		}
		if git, ok := src.(*GitSource); ok {
			resolved.close = git.Close
		}
		return resolved, nil
	}

	if sawVersions {
		return nil, ErrNoSuitableVersion{Plugin: req.Plugin, Constraints: req.Constraints}
	}
	displays := make([]string, len(srcs))
	for i, src := range srcs {
		displays[i] = src.ForDisplay()
	}
	return nil, ErrPluginNotFound{Plugin: req.Plugin, Sources: displays}
}

func (r *SourceResolver) registryClient() *registry.Client {
	if r.registry == nil {
		r.registry = registry.NewClient(nil)
	}
	return r.registry
}
