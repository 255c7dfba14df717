// Package config loads the persisted settings for a sync run.
//
// Settings are stored as KEY=value pairs in a dotenv file in the working directory
// and may be overridden by environment variables of the same name.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TOKEN           = "GITHUB_TOKEN"
	COMMITTER_NAME  = "COMMITTER_NAME"
	COMMITTER_EMAIL = "COMMITTER_EMAIL"
	OWNER           = "GITHUB_OWNER"
	REPOSITORY      = "GITHUB_REPO"
	PATH            = "GITHUB_PATH"
	BRANCH          = "GITHUB_BRANCH"
	API             = "GITHUB_API"
)

const (
	DEFAULT_OWNER           = "5dogs"
	DEFAULT_REPOSITORY      = "github-spreadsheet-connect"
	DEFAULT_PATH            = "data.csv"
	DEFAULT_COMMITTER_NAME  = "GAS Auto Sync"
	DEFAULT_COMMITTER_EMAIL = "gas-auto-sync@example.com"
	DEFAULT_API             = "https://api.github.com"

	SETTINGS_FILE = "github-spreadsheet-connect.env"
)

var keys = []string{
	TOKEN,
	COMMITTER_NAME,
	COMMITTER_EMAIL,
	OWNER,
	REPOSITORY,
	PATH,
	BRANCH,
	API,
}

// ErrMissingToken is returned when no GitHub token has been configured.
var ErrMissingToken = errors.New("GitHub token is not configured - set GITHUB_TOKEN in the settings file or environment")

// Settings is the persisted key-value store for a sync run.
type Settings map[string]string

// Sync holds the target repository coordinates and credentials for a sync run.
type Sync struct {
	Owner      string
	Repository string
	Path       string
	Branch     string
	Token      string
	Name       string
	Email      string
	API        string
}

// SettingsFile returns the default location of the settings file in the working directory.
func SettingsFile(workdir string) string {
	return filepath.Join(workdir, SETTINGS_FILE)
}

// LoadSettings reads the settings file (if it exists) and overlays any values set
// in the process environment.
func LoadSettings(file string) (Settings, error) {
	settings := Settings{}

	if file != "" {
		if values, err := godotenv.Read(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading settings file %v (%w)", file, err)
		} else {
			for k, v := range values {
				settings[k] = v
			}
		}
	}

	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			settings[k] = v
		}
	}

	return settings, nil
}

// Get returns the trimmed value for a key, or an empty string if it is not set.
func (s Settings) Get(key string) string {
	return strings.TrimSpace(s[key])
}

func (s Settings) getOrDefault(key, defval string) string {
	if v := s.Get(key); v != "" {
		return v
	}

	return defval
}

// Sync assembles the sync configuration. Fails with ErrMissingToken if the token
// is not set.
func (s Settings) Sync() (*Sync, error) {
	token := s.Get(TOKEN)
	if token == "" {
		return nil, ErrMissingToken
	}

	return &Sync{
		Owner:      s.getOrDefault(OWNER, DEFAULT_OWNER),
		Repository: s.getOrDefault(REPOSITORY, DEFAULT_REPOSITORY),
		Path:       s.getOrDefault(PATH, DEFAULT_PATH),
		Branch:     s.Get(BRANCH),
		Token:      token,
		Name:       s.getOrDefault(COMMITTER_NAME, DEFAULT_COMMITTER_NAME),
		Email:      s.getOrDefault(COMMITTER_EMAIL, DEFAULT_COMMITTER_EMAIL),
		API:        strings.TrimSuffix(s.getOrDefault(API, DEFAULT_API), "/"),
	}, nil
}
