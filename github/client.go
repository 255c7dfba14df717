// Package github implements the subset of the GitHub REST contents API used to
// publish a file: look up the current blob SHA, create or update the file and
// check that the repository is reachable.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const USER_AGENT = "GAS-GitHub-Sync"

// Target identifies a file in a GitHub repository. An empty branch is the
// repository default branch.
type Target struct {
	Owner      string
	Repository string
	Path       string
	Branch     string
}

type Client struct {
	github *gh.Client
}

// NewClient returns a client for the GitHub API at 'api' that authorises every
// request with 'Authorization: Bearer <token>'. If base is not nil its transport is
// used for the underlying requests.
func NewClient(ctx context.Context, api, token string, base *http.Client) (*Client, error) {
	endpoint, err := url.Parse(strings.TrimSuffix(api, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %v (%w)", api, err)
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	client := gh.NewClient(oauth2.NewClient(ctx, src))
	client.BaseURL = endpoint
	client.UserAgent = USER_AGENT

	return &Client{
		github: client,
	}, nil
}

// Ping checks that the repository exists and is accessible with the configured token.
func (c *Client) Ping(ctx context.Context, target Target) error {
	if _, rsp, err := c.github.Repositories.Get(ctx, target.Owner, target.Repository); err != nil {
		return wrap(rsp, err)
	}

	return nil
}

// wrap converts a go-github failure into an APIError (any HTTP response) or a
// transport error (no response).
func wrap(rsp *gh.Response, err error) error {
	if rsp == nil || rsp.Response == nil {
		return fmt.Errorf("%w (%w)", ErrTransport, err)
	}

	if rsp.StatusCode >= 200 && rsp.StatusCode < 300 {
		return fmt.Errorf("invalid GitHub API response (%w)", err)
	}

	body := ""
	if rsp.Body != nil {
		if b, err := io.ReadAll(rsp.Body); err == nil {
			body = string(b)
		}
	}

	return &APIError{
		StatusCode: rsp.StatusCode,
		Body:       body,
	}
}
