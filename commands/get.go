package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/5dogs/github-spreadsheet-connect/sheet"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		area:        DEFAULT_RANGE,
		debug:       false,
	},

	file: time.Now().Format("2006-01-02T150405.csv"),
}

type Get struct {
	command
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a Google Sheets worksheet and stores it as a local CSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets worksheet (or Excel workbook) to a CSV file, formatted exactly as")
	fmt.Println("  it would be published by 'sync'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    github-spreadsheet-connect --debug get --credentials "credentials.json" \`)
	fmt.Println(`                                           --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                           --range "Sheet1" \`)
	fmt.Println(`                                           --file "data.csv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	cmd.sourceFlags(flagset)
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV file name. Defaults to '<yyyy-mm-dd>T<HHmmss>.csv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	ctx, options := parseArgs(args...)

	cmd.debug = options.Debug

	source, err := cmd.source()
	if err != nil {
		return err
	}

	grid, err := source.Grid(ctx)
	if err != nil {
		return err
	}

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "CSV")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := sheet.MakeCSV(tmp, grid); err != nil {
		return fmt.Errorf("error creating CSV file (%v)", err)
	}

	tmp.Close()

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved worksheet to file %s", cmd.file)

	return nil
}
