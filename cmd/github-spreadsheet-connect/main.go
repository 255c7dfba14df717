package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/5dogs/github-spreadsheet-connect/commands"
)

var cli = []uhppoted.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.GetCmd,
	&commands.SyncCmd,
	&commands.TestConnectionCmd,
	&commands.InstallScheduleCmd,
	&commands.RunCmd,
}

var options = commands.Options{
	Debug: false,
}

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cmd == nil {
		help.Execute(ctx)
		os.Exit(1)
	}

	if err = cmd.Execute(ctx, &options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
