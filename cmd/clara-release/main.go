// Package main provides the clara-release command-line tool.
// It builds, packages, and publishes ClaraCore releases.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/claraverse-space/clara-release/internal/commands"
)

// Version information set at link time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.BuildVersion = version
	commands.BuildCommit = commit
	commands.BuildDate = date

	c := cli.NewCLI("clara-release", version)
	c.Args = os.Args[1:]
	c.HelpFunc = customHelpFunc
	c.Commands = map[string]cli.CommandFactory{
		"release":   commands.ReleaseCommandFactory,
		"build":     commands.BuildCommandFactory,
		"checksums": commands.ChecksumsCommandFactory,
		"notes":     commands.NotesCommandFactory,
		"doctor":    commands.DoctorCommandFactory,
		"version":   commands.VersionCommandFactory,
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitStatus)
}

// customHelpFunc renders the top-level usage screen
func customHelpFunc(cmdFactories map[string]cli.CommandFactory) string {
	var commandNames []string
	for name := range cmdFactories {
		commandNames = append(commandNames, name)
	}
	sort.Strings(commandNames)

	usageLine := "usage: clara-release [-h] [--version]\n"
	usageLine += "                     {"
	usageLine += strings.Join(commandNames, ",")
	usageLine += "}\n                     ...\n"

	helpText := usageLine + `
Build, package, and publish ClaraCore releases.

positional arguments:
  {` + strings.Join(commandNames, ",") + `}
    build               Build and package the release matrix locally
    checksums           Recompute the checksum manifest for packaged archives
    doctor              Check the release environment
    notes               Render release notes for packaged archives
    release             Build, package, and publish a release
    version             Print build information

optional arguments:
  -h, --help            show this help message and exit
  --version             show program's version number and exit
`

	return helpText
}
