// Package publish runs a single sync: load the settings, read and encode the
// worksheet, resolve the current version of the file in GitHub and commit the new
// contents.
package publish

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/5dogs/github-spreadsheet-connect/config"
	"github.com/5dogs/github-spreadsheet-connect/github"
	"github.com/5dogs/github-spreadsheet-connect/sheet"
)

// Source supplies the grid to publish.
type Source interface {
	Grid(ctx context.Context) (sheet.Grid, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (sheet.Grid, error)

func (f SourceFunc) Grid(ctx context.Context) (sheet.Grid, error) {
	return f(ctx)
}

type Result struct {
	Success   bool
	CommitURL string
	Message   string
}

type Syncer struct {
	Settings config.Settings
	Source   Source
	HTTP     *http.Client
	Now      func() time.Time
	Debug    bool
}

const TIMESTAMP = "2006/1/2 15:04:05"

// Run executes one sync. A missing token fails the run before any network request
// is made. Nothing is retried: the first error ends the run and is returned.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	state := Idle
	fail := func(err error) (*Result, error) {
		return nil, &Error{State: state, Err: err}
	}

	infof("starting GitHub sync")

	conf, err := s.Settings.Sync()
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrConfig, err))
	}

	client, err := github.NewClient(ctx, conf.API, conf.Token, s.HTTP)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrConfig, err))
	}

	state = ConfigLoaded
	s.debugf("sync target %v/%v/%v", conf.Owner, conf.Repository, conf.Path)

	if s.Source == nil {
		return fail(fmt.Errorf("%w: no data source", ErrSource))
	}

	grid, err := s.Source.Grid(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrSource, err))
	}

	content := sheet.Encode(grid)

	state = EncodedPending
	infof("retrieved CSV data (%v rows)", len(grid))

	target := github.Target{
		Owner:      conf.Owner,
		Repository: conf.Repository,
		Path:       conf.Path,
		Branch:     conf.Branch,
	}

	sha, exists, err := client.GetSHA(ctx, target)
	if err != nil {
		return fail(err)
	}

	state = Resolved
	if exists {
		infof("existing file SHA %v", sha)
	} else {
		infof("creating new file %v", conf.Path)
	}

	request := github.PutRequest{
		Message: fmt.Sprintf("Update spreadsheet data - %v", s.now().Format(TIMESTAMP)),
		Committer: github.Committer{
			Name:  conf.Name,
			Email: conf.Email,
		},
		Content: content,
	}

	if exists {
		request.SHA = sha
	}

	commit, err := client.PutContents(ctx, target, request)
	if err != nil {
		return fail(err)
	}

	state = Published
	infof("GitHub sync succeeded")
	infof("commit URL: %v", commit.HTMLURL)

	return &Result{
		Success:   true,
		CommitURL: commit.HTMLURL,
		Message:   "sync complete",
	}, nil
}

// TestConnection checks that the configured repository is reachable with the
// configured token.
func (s *Syncer) TestConnection(ctx context.Context) error {
	conf, err := s.Settings.Sync()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	client, err := github.NewClient(ctx, conf.API, conf.Token, s.HTTP)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	target := github.Target{
		Owner:      conf.Owner,
		Repository: conf.Repository,
	}

	return client.Ping(ctx, target)
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func (s *Syncer) debugf(format string, args ...any) {
	if s.Debug {
		log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
	}
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}
