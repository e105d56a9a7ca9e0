package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/plugincache"
	"github.com/hashicorp/pluginstall/internal/settings"
)

// UninstallCommand is the "pluginstall uninstall" command, which removes
// all installed versions of the named plugins.
type UninstallCommand struct {
	Ui cli.Ui
}

func (c *UninstallCommand) Run(args []string) int {
	var configPath string

	flags := flag.NewFlagSet("uninstall", flag.ContinueOnError)
	flags.Usage = func() { c.Ui.Error(c.Help()) }
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
	cache := plugincache.NewDir(s.CacheDir)

	exitStatus := 0
	for _, name := range names {
		plugin, err := addrs.ParsePluginName(name)
		if err != nil {
			c.Ui.Error(err.Error())
			exitStatus = 1
			continue
		}

		removed, err := cache.RemovePlugin(plugin)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Failed to uninstall %s: %s", plugin, err))
			exitStatus = 1
		}
		if len(removed) == 0 && err == nil {
			c.Ui.Output(fmt.Sprintf("Plugin %s is not installed.", plugin))
			continue
		}
		for _, entry := range removed {
			c.Ui.Output(fmt.Sprintf("Uninstalled %s v%s", entry.Plugin, entry.Version))
		}
	}
	return exitStatus
}

func (c *UninstallCommand) Synopsis() string {
	return "Uninstall plugins"
}

func (c *UninstallCommand) Help() string {
	helpText := `
Usage: pluginstall uninstall [options] NAME...

  Removes all installed versions of the named plugins from the local
  plugin directory.

Options:

  -config=PATH  Read settings from the given configuration file instead
                of the default location.
`
	return strings.TrimSpace(helpText)
}
