package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/5dogs/github-spreadsheet-connect/sheet"
)

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets.readonly"
	DRIVE  = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

// a1 matches a cell (B2) or range (A1:E, A:C, 2:10) without a sheet name.
var a1 = regexp.MustCompile(`^(?i)(?:[A-Z]{1,3}[0-9]+|(?:[A-Z]{1,3}[0-9]*|[0-9]+):(?:[A-Z]{1,3}[0-9]*|[0-9]+))$`)

type sheetSource struct {
	credentials string
	tokens      string
	spreadsheet string
	area        string
}

type revision struct {
	id       string
	modified time.Time
}

// Grid retrieves the unformatted cell values of the worksheet so that numbers and
// booleans keep their type.
func (s *sheetSource) Grid(ctx context.Context) (sheet.Grid, error) {
	client, err := authorize(ctx, s.credentials, SHEETS, s.tokens)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	spreadsheet, err := getSpreadsheet(ctx, google, s.spreadsheet)
	if err != nil {
		return nil, err
	}

	if _, err := getSheet(spreadsheet, s.area); err != nil {
		return nil, err
	}

	response, err := google.Spreadsheets.Values.Get(s.spreadsheet, s.area).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return sheet.FromValueRange(response), nil
}

func (s *sheetSource) key() string {
	return s.spreadsheet
}

// latest returns the most recent Drive revision of the spreadsheet.
func (s *sheetSource) latest(ctx context.Context) (*revision, error) {
	client, err := authorize(ctx, s.credentials, DRIVE, s.tokens)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return getRevision(ctx, gdrive, s.spreadsheet)
}

// authorize returns an HTTP client for the Google APIs. Service account keys are
// used directly, OAuth2 client credentials require a token cached by 'authorise'.
func authorize(ctx context.Context, credentials, scope, tokens string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	var key struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &key); err != nil {
		return nil, fmt.Errorf("invalid credentials file (%w)", err)
	}

	if key.Type == "service_account" {
		creds, err := google.CredentialsFromJSON(ctx, b, scope)
		if err != nil {
			return nil, err
		}

		return oauth2.NewClient(ctx, creds.TokenSource), nil
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenFile(credentials, scope, tokens))
	if err != nil {
		return nil, fmt.Errorf("no cached OAuth2 token - run '%s authorise' first (%w)", APP, err)
	}

	return config.Client(ctx, token), nil
}

func tokenFile(credentials, scope, dir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	switch {
	case strings.HasPrefix(scope, SHEETS):
		return filepath.Join(dir, fmt.Sprintf("%s.sheets", name))

	case strings.HasPrefix(scope, DRIVE):
		return filepath.Join(dir, fmt.Sprintf("%s.drive", name))

	default:
		return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
	}
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)

	return token, err
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth2 token (%w)", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

func getSpreadsheet(ctx context.Context, google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).
		Fields("spreadsheetId,sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	return spreadsheet, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, area string) (*sheets.Sheet, error) {
	name := sheetName(area)
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && strings.ToLower(strings.TrimSpace(s.Properties.Title)) == strings.ToLower(name) {
			return s, nil
		}
	}

	// a range without a sheet name refers to the first sheet
	if !strings.Contains(area, "!") && a1.MatchString(strings.TrimSpace(area)) && len(spreadsheet.Sheets) > 0 {
		return spreadsheet.Sheets[0], nil
	}

	return nil, fmt.Errorf("%w: '%s'", sheet.ErrSheetNotFound, name)
}

// sheetName extracts the worksheet name from an A1 range e.g. 'Sheet1!A1:E' or "'My Data'!A:C".
func sheetName(area string) string {
	name := strings.TrimSpace(area)
	if match := regexp.MustCompile(`^(.+?)!.*$`).FindStringSubmatch(name); len(match) > 1 {
		name = match[1]
	}

	if len(name) > 1 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}

	return strings.TrimSpace(name)
}

func getRevision(ctx context.Context, gdrive *drive.Service, fileId string) (*revision, error) {
	page := ""
	latest := revision{}

	for {
		call := gdrive.Revisions.List(fileId).
			Fields("nextPageToken", "revisions(id,modifiedTime)").
			Context(ctx)

		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, r := range revisions.Revisions {
			datetime, err := time.Parse(time.RFC3339, r.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.modified.Before(datetime) {
				latest.id = r.Id
				latest.modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for file ID %s", fileId)
	}

	return &latest, nil
}

func revisionFile(workdir, spreadsheet string) string {
	return filepath.Join(workdir, fmt.Sprintf("%s.revision", spreadsheet))
}

func loadRevision(file string) string {
	if b, err := os.ReadFile(file); err == nil {
		return strings.TrimSpace(string(b))
	}

	return ""
}

func saveRevision(file string, r *revision) error {
	if err := os.MkdirAll(filepath.Dir(file), 0770); err != nil {
		return err
	}

	return os.WriteFile(file, []byte(r.id+"\n"), 0660)
}
