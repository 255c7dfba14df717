package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

type Committer struct {
	Name  string
	Email string
}

// PutRequest describes a create/update file commit. Content is the base64 encoded
// file. SHA must be set to the current blob SHA when replacing an existing file and
// left empty when creating one.
type PutRequest struct {
	Message   string
	Committer Committer
	Content   string
	SHA       string
	Branch    string
}

type Commit struct {
	SHA     string
	HTMLURL string
}

// GetSHA returns the blob SHA of the target file. Returns false (and no error) if
// the file does not exist.
func (c *Client) GetSHA(ctx context.Context, target Target) (string, bool, error) {
	options := gh.RepositoryContentGetOptions{
		Ref: target.Branch,
	}

	file, _, rsp, err := c.github.Repositories.GetContents(ctx, target.Owner, target.Repository, target.Path, &options)
	if rsp != nil && rsp.StatusCode == http.StatusNotFound {
		return "", false, nil
	} else if err != nil {
		return "", false, wrap(rsp, err)
	} else if file == nil {
		return "", false, fmt.Errorf("%v is a directory", target.Path)
	}

	return file.GetSHA(), true, nil
}

// PutContents creates or replaces the target file, returning the resulting commit.
func (c *Client) PutContents(ctx context.Context, target Target, request PutRequest) (*Commit, error) {
	content, err := base64.StdEncoding.DecodeString(request.Content)
	if err != nil {
		return nil, fmt.Errorf("invalid file content (%w)", err)
	}

	options := gh.RepositoryContentFileOptions{
		Message: gh.Ptr(request.Message),
		Content: content,
		Committer: &gh.CommitAuthor{
			Name:  gh.Ptr(request.Committer.Name),
			Email: gh.Ptr(request.Committer.Email),
		},
	}

	if request.Branch != "" {
		options.Branch = gh.Ptr(request.Branch)
	} else if target.Branch != "" {
		options.Branch = gh.Ptr(target.Branch)
	}

	var response *gh.RepositoryContentResponse
	var rsp *gh.Response

	if request.SHA == "" {
		response, rsp, err = c.github.Repositories.CreateFile(ctx, target.Owner, target.Repository, target.Path, &options)
	} else {
		options.SHA = gh.Ptr(request.SHA)
		response, rsp, err = c.github.Repositories.UpdateFile(ctx, target.Owner, target.Repository, target.Path, &options)
	}

	if err != nil {
		return nil, wrap(rsp, err)
	} else if response == nil {
		return nil, fmt.Errorf("invalid commit response")
	}

	return &Commit{
		SHA:     response.Commit.GetSHA(),
		HTMLURL: response.Commit.GetHTMLURL(),
	}, nil
}
