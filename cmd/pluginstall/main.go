// pluginstall is a small CLI for installing optional plugins for a host
// application, from a plugin registry or straight from a git repository.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/version"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("pluginstall", version.String())
	c.Args = args
	c.Commands = map[string]cli.CommandFactory{
		"install": func() (cli.Command, error) {
			return &InstallCommand{Ui: ui}, nil
		},
		"installed": func() (cli.Command, error) {
			return &InstalledCommand{Ui: ui}, nil
		},
		"uninstall": func() (cli.Command, error) {
			return &UninstallCommand{Ui: ui}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitStatus
}
