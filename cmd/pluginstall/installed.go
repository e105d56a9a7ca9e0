package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/internal/plugincache"
	"github.com/hashicorp/pluginstall/internal/settings"
)

// InstalledCommand is the "pluginstall installed" command, which lists the
// plugins present in the local plugin directory.
type InstalledCommand struct {
	Ui cli.Ui
}

func (c *InstalledCommand) Run(args []string) int {
	var configPath string

	flags := flag.NewFlagSet("installed", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Error(c.Help()) }
	flags.StringVar(&configPath, "config", "", "configuration file path")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	s, err := settings.Load(configPath)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	cache := plugincache.NewDir(s.CacheDir)
	all := cache.AllAvailablePackages()
	if len(all) == 0 {
		c.Ui.Output("No plugins are installed.")
		return 0
	}

	byName := make(map[string][]plugincache.CachedPlugin, len(all))
	names := make([]string, 0, len(all))
	for plugin, entries := range all {
		byName[plugin.Name] = entries
		names = append(names, plugin.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, entry := range byName[name] {
			c.Ui.Output(fmt.Sprintf("%s v%s (%s)", name, entry.Version, entry.PackageDir))
		}
	}
	return 0
}

func (c *InstalledCommand) Synopsis() string {
	return "List installed plugins"
}

func (c *InstalledCommand) Help() string {
	helpText := `
Usage: pluginstall installed [options]

  Lists the plugins currently present in the local plugin directory,
  newest version first.

Options:

  -config=PATH  Read settings from the given configuration file instead
                of the default location.
`
	return strings.TrimSpace(helpText)
}
