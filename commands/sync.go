package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/5dogs/github-spreadsheet-connect/config"
	"github.com/5dogs/github-spreadsheet-connect/publish"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		area:        DEFAULT_RANGE,
		debug:       false,
	},

	ifModified: false,
}

// revisioned is implemented by sources that can report the latest revision of the
// underlying document.
type revisioned interface {
	publish.Source
	key() string
	latest(ctx context.Context) (*revision, error)
}

type Sync struct {
	command
	ifModified bool
	client     *http.Client
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Publishes a Google Sheets worksheet as a CSV file to a GitHub repository"
}

func (cmd *Sync) Usage() string {
	return "--credentials <file> --url <url> --range <range>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sync [options] --url <URL> --range <range>\n", APP)
	fmt.Println()
	fmt.Println("  Converts a Google Sheets worksheet (or Excel workbook) to CSV and commits it to the GitHub")
	fmt.Println("  repository configured in the settings file, creating or replacing the target file.")
	fmt.Println()
	fmt.Println("  Settings (<workdir>/github-spreadsheet-connect.env or environment):")
	fmt.Println("    GITHUB_TOKEN     GitHub personal access token (required)")
	fmt.Println("    GITHUB_OWNER     repository owner")
	fmt.Println("    GITHUB_REPO      repository name")
	fmt.Println("    GITHUB_PATH      file path in the repository")
	fmt.Println("    GITHUB_BRANCH    branch (defaults to the repository default branch)")
	fmt.Println("    COMMITTER_NAME   commit author name")
	fmt.Println("    COMMITTER_EMAIL  commit author email")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    github-spreadsheet-connect sync --credentials "credentials.json" \`)
	fmt.Println(`                                    --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                    --range "Sheet1"`)
	fmt.Println()
	fmt.Println(`    github-spreadsheet-connect sync --xlsx "data.xlsx" --sheet "Sheet1"`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	cmd.sourceFlags(flagset)
	flagset.BoolVar(&cmd.ifModified, "if-modified", cmd.ifModified, "Skips the commit if the spreadsheet revision has not changed since the last successful sync")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	ctx, options := parseArgs(args...)

	cmd.debug = options.Debug

	if _, err := cmd.sync(ctx); err != nil {
		errorf("%v", err)
		return err
	}

	return nil
}

func (cmd *Sync) sync(ctx context.Context) (*publish.Result, error) {
	settings, err := cmd.settings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", publish.ErrConfig, err)
	}

	source, err := cmd.source()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", publish.ErrConfig, err)
	}

	return cmd.execute(ctx, settings, source)
}

// execute publishes the source. With --if-modified, a source that reports document
// revisions is only published if the latest revision differs from the one recorded
// after the last successful sync.
func (cmd *Sync) execute(ctx context.Context, settings config.Settings, source publish.Source) (*publish.Result, error) {
	var latest *revision
	var file string

	if cmd.ifModified {
		if src, ok := source.(revisioned); !ok {
			warnf("--if-modified ignored: revision history is only available for Google Sheets worksheets")
		} else {
			if _, err := settings.Sync(); err != nil {
				return nil, fmt.Errorf("%w: %w", publish.ErrConfig, err)
			}

			r, err := src.latest(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", publish.ErrSource, err)
			}

			latest = r
			file = revisionFile(cmd.workdir, src.key())

			if loadRevision(file) == latest.id {
				infof("Spreadsheet unchanged since revision %v - nothing to publish", latest.id)

				return &publish.Result{
					Success: true,
					Message: "unchanged",
				}, nil
			}
		}
	}

	syncer := publish.Syncer{
		Settings: settings,
		Source:   source,
		HTTP:     cmd.client,
		Debug:    cmd.debug,
	}

	result, err := syncer.Run(ctx)
	if err != nil {
		return nil, err
	}

	if latest != nil {
		if err := saveRevision(file, latest); err != nil {
			warnf("error saving spreadsheet revision (%v)", err)
		}
	}

	return result, nil
}
