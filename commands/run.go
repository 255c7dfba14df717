package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/5dogs/github-spreadsheet-connect/schedule"
)

var RunCmd = Run{
	sync: Sync{
		command: command{
			workdir:     DEFAULT_WORKDIR,
			credentials: DEFAULT_CREDENTIALS,
			area:        DEFAULT_RANGE,
		},
	},
	bind: "",
}

type Run struct {
	sync Sync
	bind string
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Runs the installed sync triggers until interrupted"
}

func (cmd *Run) Usage() string {
	return "--credentials <file> --url <url> --range <range> [--http <address>]"
}

func (cmd *Run) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] run [options] --url <URL> --range <range> [--http <address>]\n", APP)
	fmt.Println()
	fmt.Println("  Executes 'sync' on the schedule installed by 'install-schedule'. With --http, also accepts")
	fmt.Println("  'POST /sync' to run a sync immediately and 'GET /status' for the result of the last sync.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    github-spreadsheet-connect run --credentials "credentials.json" \`)
	fmt.Println(`                                   --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                   --range "Sheet1" \`)
	fmt.Println(`                                   --http "127.0.0.1:8080"`)
	fmt.Println()
}

func (cmd *Run) FlagSet() *flag.FlagSet {
	flagset := cmd.sync.flagset("run")

	cmd.sync.sourceFlags(flagset)
	flagset.BoolVar(&cmd.sync.ifModified, "if-modified", cmd.sync.ifModified, "Skips the commit if the spreadsheet revision has not changed since the last successful sync")
	flagset.StringVar(&cmd.bind, "http", cmd.bind, "Address for the HTTP sync/status endpoint e.g. '127.0.0.1:8080'. Disabled if empty")

	return flagset
}

func (cmd *Run) Execute(args ...any) error {
	ctx, options := parseArgs(args...)

	cmd.sync.debug = options.Debug

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	status := &status{}
	handler := func(ctx context.Context) error {
		result, err := cmd.sync.sync(ctx)
		status.update(result, err)

		return err
	}

	if cmd.bind != "" {
		srv := &http.Server{
			Addr:              cmd.bind,
			Handler:           router(handler, status),
			ReadHeaderTimeout: 15 * time.Second,
		}

		go func() {
			infof("HTTP endpoint listening on %v", cmd.bind)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errorf("HTTP endpoint error (%v)", err)
				cancel()
			}
		}()

		defer func() {
			shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()

			if err := srv.Shutdown(shutdown); err != nil {
				warnf("%v", err)
			}
		}()
	}

	scheduler := schedule.Scheduler{
		Registry: schedule.NewFileRegistry(cmd.sync.workdir),
		Handlers: map[string]schedule.Handler{
			SYNC_HANDLER: handler,
		},
		Refresh:   schedule.REFRESH,
		KeepAlive: cmd.bind != "",
	}

	return scheduler.Run(ctx)
}
