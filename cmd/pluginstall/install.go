package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/internal/getplugins"
	"github.com/hashicorp/pluginstall/internal/plugincache"
	"github.com/hashicorp/pluginstall/internal/plugininstall"
	"github.com/hashicorp/pluginstall/internal/registry"
	"github.com/hashicorp/pluginstall/internal/settings"
)

// InstallCommand is the "pluginstall install" command, which installs one
// or more named plugins.
type InstallCommand struct {
	Ui cli.Ui
}

func (c *InstallCommand) Run(args []string) int {
	var constraint, git, localGit, branch, ref, source, configPath string

	flags := flag.NewFlagSet("install", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Error(c.Help()) }
	flags.StringVar(&constraint, "version", "", "version constraint")
	flags.StringVar(&git, "git", "", "git repository to install from")
	flags.StringVar(&localGit, "local-git", "", "deprecated alias for -git")
	flags.StringVar(&branch, "branch", "", "git branch")
	flags.StringVar(&ref, "ref", "", "git tag or commit")
	flags.StringVar(&source, "source", "", "registry remote to install from")
	flags.StringVar(&configPath, "config", "", "configuration file path")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	names := flags.Args()
	if len(names) == 0 {
		c.Ui.Error("At least one plugin name is required.\n")
		c.Ui.Error(c.Help())
		return 1
	}

	s, err := settings.Load(configPath)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	opts := plugininstall.Options{}
	for key, value := range map[string]string{
		plugininstall.OptGit:      git,
		plugininstall.OptLocalGit: localGit,
		plugininstall.OptBranch:   branch,
		plugininstall.OptRef:      ref,
		plugininstall.OptSource:   source,
	} {
		if value != "" {
			opts[key] = value
		}
	}

	cache := plugincache.NewDir(s.CacheDir)
	resolver := getplugins.NewSourceResolver(cache, registry.NewClient(nil))
	installer := plugininstall.NewInstaller(s, resolver, c.Ui)

	result, err := installer.Install(context.Background(), names, constraint, opts)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Plugin installation failed: %s", err))
		return 1
	}

	installed := make([]string, 0, len(result))
	for name := range result {
		installed = append(installed, name)
	}
	sort.Strings(installed)
	for _, name := range installed {
		plugin := result[name]
		c.Ui.Output(fmt.Sprintf("Installed %s v%s (from %s)", name, plugin.Version, plugin.Source.ForDisplay()))
	}
	return 0
}

func (c *InstallCommand) Synopsis() string {
	return "Install one or more plugins"
}

func (c *InstallCommand) Help() string {
	helpText := `
Usage: pluginstall install [options] NAME...

  Installs the named plugins into the local plugin directory, either from
  the configured plugin registries or from a git repository.

Options:

  -version=CONSTRAINT  Version constraint that all named plugins must
                       satisfy, such as ">= 1.2, < 2.0". If unset, any
                       version is acceptable.

  -git=URI             Install from the given git repository instead of a
                       registry.

  -branch=NAME         With -git, use the given branch.

  -ref=NAME            With -git, use the given tag or commit. Cannot be
                       combined with -branch.

  -source=URL          Install from the given registry remote instead of
                       the configured ones.

  -config=PATH         Read settings from the given configuration file
                       instead of the default location.
`
	return strings.TrimSpace(helpText)
}
