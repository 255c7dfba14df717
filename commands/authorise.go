package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		debug:       false,
	},
	drive: false,
}

type Authorise struct {
	command
	drive bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises github-spreadsheet-connect to read a Google Sheets worksheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises read access to Google Sheets (and optionally Google Drive revision metadata)")
	fmt.Println("  and caches the OAuth2 tokens in the working directory. Not required when the credentials")
	fmt.Println("  file is a service account key.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    github-spreadsheet-connect authorise --credentials "credentials.json" --drive`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the Google 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the cached Google OAuth2 tokens. Defaults to <workdir>/.google")
	flagset.BoolVar(&cmd.drive, "drive", cmd.drive, "Also authorises access to the Google Drive revision metadata used by 'sync --if-modified'")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	_, options := parseArgs(args...)

	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	scopes := []string{SHEETS}
	if cmd.drive {
		scopes = append(scopes, DRIVE)
	}

	for _, scope := range scopes {
		file := tokenFile(cmd.credentials, scope, cmd.tokensDir())

		if err := authenticate(cmd.credentials, scope, file); err != nil {
			return fmt.Errorf("authorisation error (%v)", err)
		}

		infof("Saved OAuth2 token to %v", file)
	}

	return nil
}

// Requests a token from the web, then saves the retrieved token.
func authenticate(credentials, scope, file string) error {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return err
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return err
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return fmt.Errorf("unable to read authorization code (%v)", err)
	}

	token, err := config.Exchange(context.TODO(), code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web (%v)", err)
	}

	return saveToken(file, token)
}
