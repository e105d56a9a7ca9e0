// Package plugininstall coordinates the installation of plugins: it
// validates the request options, composes the source list, drives a
// resolution pass against it, and installs each resolved package.
//
// The heavy lifting (version selection, fetching, unpacking) belongs to
// getplugins and plugincache; this package owns only the sequencing and
// the option-consistency rules.
package plugininstall

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/getplugins"
	"github.com/hashicorp/pluginstall/internal/settings"
)

// Installer coordinates plugin installation runs. The zero value is not
// usable; use NewInstaller.
type Installer struct {
	// Settings is the ambient configuration, providing the default
	// registry remotes and the deployment/frozen switches that get
	// suspended for the duration of a resolution pass.
	Settings *settings.Settings

	// Resolver turns requirements plus a source list into resolved
	// plugins with bound install capabilities.
	Resolver getplugins.Resolver

	// Ui receives user-oriented notices, such as the deprecation warning
	// for the local_git option. May be nil to discard them.
	Ui cli.Ui

	localGitDeprecation sync.Once
}

// NewInstaller creates and returns an installer using the given ambient
// settings and resolver.
func NewInstaller(s *settings.Settings, resolver getplugins.Resolver, ui cli.Ui) *Installer {
	return &Installer{
		Settings: s,
		Resolver: resolver,
		Ui:       ui,
	}
}

// InstallResult maps each requested (and transitively required) plugin
// name to the resolved plugin that was installed for it.
type InstallResult map[string]*getplugins.ResolvedPlugin

// Install installs the named plugins, all under the given version
// constraint, from whichever provenance the options describe: a git
// repository when the git option is set, or the explicit or configured
// registry remotes otherwise.
//
// An empty constraint string means any version is acceptable.
//
// The call either returns a complete result covering every requested
// plugin or an error, never a partial result.
func (i *Installer) Install(ctx context.Context, names []string, constraint string, opts Options) (InstallResult, error) {
	if len(names) == 0 {
		return nil, InvalidOptionError{Message: "at least one plugin name is required"}
	}

	opts, err := i.validateOptions(opts)
	if err != nil {
		return nil, err
	}

	sources, err := i.buildSourceList(opts)
	if err != nil {
		return nil, err
	}

	constraints := getplugins.AnyVersion
	if constraint != "" {
		constraints, err = getplugins.ParseConstraints(constraint)
		if err != nil {
			return nil, InvalidOptionError{Message: fmt.Sprintf("invalid version constraint %q: %s", constraint, err)}
		}
	}

	reqs := make(getplugins.Requirements, len(names))
	for idx, name := range names {
		plugin, err := addrs.ParsePluginName(name)
		if err != nil {
			return nil, InvalidOptionError{Message: err.Error()}
		}
		reqs[idx] = getplugins.Requirement{
			Plugin:      plugin,
			Constraints: constraints,
		}
	}

	resolved, err := i.resolve(ctx, reqs, sources)
	if err != nil {
		return nil, err
	}

	return i.installResolved(ctx, resolved)
}

// InstallFromDefinition resolves and installs the plugins described by an
// already-constructed definition, bypassing option validation and source
// list assembly.
//
// Lock persistence is always forced off first: a plugin installation is
// ephemeral with respect to the definition's own lock state, so even a
// definition configured to persist its locks must not do so on this path.
func (i *Installer) InstallFromDefinition(ctx context.Context, def *Definition) (InstallResult, error) {
	def.PersistLock = false
	return i.installDefinition(ctx, def)
}

func (i *Installer) installDefinition(ctx context.Context, def *Definition) (InstallResult, error) {
	if def.Sources == nil || def.Sources.Empty() {
		return nil, fmt.Errorf("definition has no plugin sources")
	}

	resolved, err := i.resolve(ctx, def.Requirements, def.Sources)
	if err != nil {
		return nil, err
	}

	if def.PersistLock {
		if err := def.writeLocks(resolved); err != nil {
			return nil, err
		}
	}

	return i.installResolved(ctx, resolved)
}

// buildSourceList composes the source list for one installation call from
// the validated options. It never synthesizes a default: with no git
// option, no explicit source, and no configured remotes the result is
// empty, and resolution will fail accordingly.
func (i *Installer) buildSourceList(opts Options) (*getplugins.SourceList, error) {
	sources := getplugins.NewSourceList()

	if uri := opts[OptGit]; uri != "" {
		spec, err := getplugins.NewGitSpec(uri, opts[OptRef], opts[OptBranch])
		if err != nil {
			return nil, InvalidOptionError{Message: err.Error()}
		}
		sources.AddGit(spec)
		return sources, nil
	}

	remotes := i.Settings.Remotes
	if remote := opts[OptSource]; remote != "" {
		remotes = []string{remote}
	}
	for _, remote := range remotes {
		spec, err := getplugins.NewRegistrySpec(remote)
		if err != nil {
			return nil, InvalidOptionError{Message: err.Error()}
		}
		sources.AddRegistry(spec)
	}

	return sources, nil
}

// resolve runs one resolution pass with the deployment and frozen
// switches suspended for exactly its duration, so that installation is
// permitted even when the environment normally forbids modifying
// installed state. Resolver failures propagate unmodified.
func (i *Installer) resolve(ctx context.Context, reqs getplugins.Requirements, sources *getplugins.SourceList) ([]*getplugins.ResolvedPlugin, error) {
	var resolved []*getplugins.ResolvedPlugin
	err := i.Settings.Temporary(settings.Overrides{
		Deployment: settings.Bool(false),
		Frozen:     settings.Bool(false),
	}, func() error {
		var err error
		resolved, err = i.Resolver.ResolvePlugins(ctx, reqs, sources)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// installResolved installs each resolved plugin in the order the resolver
// returned them, failing fast: the first install error aborts the call
// and no result mapping is returned.
func (i *Installer) installResolved(ctx context.Context, resolved []*getplugins.ResolvedPlugin) (InstallResult, error) {
	defer func() {
		// Release any staging state still held by plugins we didn't get
		// to install.
		for _, plugin := range resolved {
			plugin.Close()
		}
	}()

	result := make(InstallResult, len(resolved))
	for _, plugin := range resolved {
		log.Printf("[DEBUG] plugininstall: installing %s v%s", plugin.Plugin, plugin.Version)
		if _, err := plugin.Install(ctx); err != nil {
			return nil, err
		}
		result[plugin.Plugin.Name] = plugin
	}
	return result, nil
}
