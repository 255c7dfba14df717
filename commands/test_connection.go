package commands

import (
	"flag"
	"fmt"

	"github.com/5dogs/github-spreadsheet-connect/publish"
)

var TestConnectionCmd = TestConnection{
	command: command{
		workdir: DEFAULT_WORKDIR,
		debug:   false,
	},
}

type TestConnection struct {
	command
}

func (cmd *TestConnection) Name() string {
	return "test-connection"
}

func (cmd *TestConnection) Description() string {
	return "Verifies that the configured GitHub repository is accessible"
}

func (cmd *TestConnection) Usage() string {
	return "[--workdir <dir>]"
}

func (cmd *TestConnection) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] test-connection [--workdir <dir>]\n", APP)
	fmt.Println()
	fmt.Println("  Checks the GitHub token and repository in the settings file and logs the result")
	fmt.Println()

	helpOptions(cmd.FlagSet())
	fmt.Println()
}

func (cmd *TestConnection) FlagSet() *flag.FlagSet {
	return cmd.flagset("test-connection")
}

// Execute logs the result of the connection test. A failed test is not returned as
// an error.
func (cmd *TestConnection) Execute(args ...any) error {
	ctx, options := parseArgs(args...)

	cmd.debug = options.Debug

	settings, err := cmd.settings()
	if err != nil {
		errorf("connection test error (%v)", err)
		return nil
	}

	syncer := publish.Syncer{
		Settings: settings,
		Debug:    cmd.debug,
	}

	if err := syncer.TestConnection(ctx); err != nil {
		errorf("connection test failed (%v)", err)
		return nil
	}

	infof("GitHub repository connection test succeeded")

	return nil
}
