package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/5dogs/github-spreadsheet-connect/config"
	"github.com/5dogs/github-spreadsheet-connect/publish"
	"github.com/5dogs/github-spreadsheet-connect/sheet"
)

const APP = "github-spreadsheet-connect"

// SYNC_HANDLER is the name the sync entry point is registered under in the trigger registry.
const SYNC_HANDLER = "sync"

const DEFAULT_RANGE = "Sheet1"

type Options struct {
	Debug bool
}

type command struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	area        string
	xlsx        string
	sheet       string
	debug       bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (settings, tokens, triggers, revisions)")

	return flagset
}

func (c *command) sourceFlags(flagset *flag.FlagSet) {
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google 'credentials.json' file (OAuth2 client or service account)")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Directory for the cached Google OAuth2 tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL")
	flagset.StringVar(&c.area, "range", c.area, "Worksheet name or range e.g. 'Sheet1' or 'Sheet1!A1:E'")
	flagset.StringVar(&c.xlsx, "xlsx", c.xlsx, "Local Excel workbook to publish instead of a Google Sheets worksheet")
	flagset.StringVar(&c.sheet, "sheet", c.sheet, "Worksheet in the --xlsx workbook. Defaults to the first worksheet")
}

func (c *command) tokensDir() string {
	if c.tokens != "" {
		return c.tokens
	}

	return filepath.Join(c.workdir, ".google")
}

func (c *command) settings() (config.Settings, error) {
	return config.LoadSettings(config.SettingsFile(c.workdir))
}

// source returns the data source selected by the command line options. No
// network requests are made until the grid is retrieved.
func (c *command) source() (publish.Source, error) {
	if strings.TrimSpace(c.xlsx) != "" {
		file := c.xlsx
		name := c.sheet

		return publish.SourceFunc(func(ctx context.Context) (sheet.Grid, error) {
			return sheet.FromXLSX(file, name)
		}), nil
	}

	if strings.TrimSpace(c.credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(c.url) == "" {
		return nil, fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(c.area) == "" {
		return nil, fmt.Errorf("--range is a required option")
	}

	spreadsheet, err := spreadsheetID(c.url)
	if err != nil {
		return nil, err
	}

	if c.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, c.area)
	}

	return &sheetSource{
		credentials: c.credentials,
		tokens:      c.tokensDir(),
		spreadsheet: spreadsheet,
		area:        strings.TrimSpace(c.area),
	}, nil
}

func spreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// parseArgs extracts the context and global options passed to Execute.
func parseArgs(args ...any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

func errorf(format string, args ...any) {
	log.Printf("%-5s %s", "ERROR", fmt.Sprintf(format, args...))
}
