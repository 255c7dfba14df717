package commands

import (
	"flag"
	"fmt"
	"time"

	"github.com/5dogs/github-spreadsheet-connect/schedule"
)

var InstallScheduleCmd = InstallSchedule{
	command: command{
		workdir: DEFAULT_WORKDIR,
		debug:   false,
	},
	interval: schedule.HOURLY,
}

type InstallSchedule struct {
	command
	interval time.Duration
}

func (cmd *InstallSchedule) Name() string {
	return "install-schedule"
}

func (cmd *InstallSchedule) Description() string {
	return "Installs (or replaces) the periodic trigger that runs 'sync'"
}

func (cmd *InstallSchedule) Usage() string {
	return "[--every <interval>]"
}

func (cmd *InstallSchedule) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s install-schedule [--workdir <dir>] [--every <interval>]\n", APP)
	fmt.Println()
	fmt.Println("  Replaces any existing 'sync' triggers with a single periodic trigger. The triggers are")
	fmt.Println("  executed by the 'run' command.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    github-spreadsheet-connect install-schedule --every 1h`)
	fmt.Println()
}

func (cmd *InstallSchedule) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("install-schedule")

	flagset.DurationVar(&cmd.interval, "every", cmd.interval, "Sync interval. Defaults to 1h")

	return flagset
}

func (cmd *InstallSchedule) Execute(args ...any) error {
	_, options := parseArgs(args...)

	cmd.debug = options.Debug

	registry := schedule.NewFileRegistry(cmd.workdir)

	trigger, err := schedule.Install(registry, SYNC_HANDLER, cmd.interval)
	if err != nil {
		return fmt.Errorf("error installing sync trigger (%w)", err)
	}

	infof("Installed sync trigger %v (every %v)", trigger.ID, trigger.Interval)

	if cmd.debug {
		if triggers, err := registry.List(); err == nil {
			for _, t := range triggers {
				debugf("%v", t)
			}
		}
	}

	return nil
}
