package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/5dogs/github-spreadsheet-connect/config"
	"github.com/5dogs/github-spreadsheet-connect/github"
	"github.com/5dogs/github-spreadsheet-connect/sheet"
)

type fake struct {
	server   *httptest.Server
	requests []string
	put      map[string]any
}

func newFake(t *testing.T, get int, sha string, put int) *fake {
	t.Helper()

	f := fake{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)

		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(get)
			if get == http.StatusOK {
				fmt.Fprintf(w, `{"sha":%q}`, sha)
			}

		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &f.put)

			w.WriteHeader(put)
			if put == http.StatusOK || put == http.StatusCreated {
				fmt.Fprint(w, `{"commit":{"sha":"c0ffee","html_url":"https://github.com/5dogs/data/commit/c0ffee"}}`)
			} else {
				fmt.Fprint(w, `{"message":"conflict"}`)
			}
		}
	}))

	t.Cleanup(f.server.Close)

	return &f
}

func grid(ctx context.Context) (sheet.Grid, error) {
	return sheet.Grid{
		{"Name", "Notes"},
		{"Alice", "line1\nline2"},
	}, nil
}

func newSyncer(f *fake, source Source) *Syncer {
	return &Syncer{
		Settings: config.Settings{
			config.TOKEN: "ghp_qwerty",
			config.API:   f.server.URL,
		},
		Source: source,
		HTTP:   f.server.Client(),
		Now: func() time.Time {
			return time.Date(2025, time.January, 2, 13, 4, 5, 0, time.Local)
		},
	}
}

func TestRunWithNewFile(t *testing.T) {
	f := newFake(t, http.StatusNotFound, "", http.StatusCreated)
	syncer := newSyncer(f, SourceFunc(grid))

	result, err := syncer.Run(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	expected := Result{
		Success:   true,
		CommitURL: "https://github.com/5dogs/data/commit/c0ffee",
		Message:   "sync complete",
	}

	if *result != expected {
		t.Errorf("Incorrect result\n   expected: %+v\n   got:      %+v\n", expected, *result)
	}

	if len(f.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %v", f.requests)
	}

	if f.requests[0] != "GET /repos/5dogs/github-spreadsheet-connect/contents/data.csv" {
		t.Errorf("Incorrect resolve request - got %v", f.requests[0])
	}

	if f.requests[1] != "PUT /repos/5dogs/github-spreadsheet-connect/contents/data.csv" {
		t.Errorf("Incorrect publish request - got %v", f.requests[1])
	}

	if _, ok := f.put["sha"]; ok {
		t.Errorf("Request body for new file should not include 'sha' - got %v", f.put)
	}

	if f.put["message"] != "Update spreadsheet data - 2025/1/2 13:04:05" {
		t.Errorf("Incorrect commit message - got %v", f.put["message"])
	}

	content, _ := f.put["content"].(string)
	if decoded, err := base64.StdEncoding.DecodeString(content); err != nil {
		t.Errorf("Invalid content (%v)", err)
	} else if string(decoded) != "Name,Notes\nAlice,\"line1\nline2\"" {
		t.Errorf("Incorrect content - got %q", decoded)
	}
}

func TestRunWithExistingFile(t *testing.T) {
	f := newFake(t, http.StatusOK, "abc123", http.StatusOK)
	syncer := newSyncer(f, SourceFunc(grid))

	if _, err := syncer.Run(context.Background()); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if f.put["sha"] != "abc123" {
		t.Errorf("Incorrect 'sha' in request body - expected:%v, got:%v", "abc123", f.put["sha"])
	}
}

func TestRunWithConflict(t *testing.T) {
	f := newFake(t, http.StatusOK, "stale", http.StatusUnprocessableEntity)
	syncer := newSyncer(f, SourceFunc(grid))

	result, err := syncer.Run(context.Background())
	if result != nil {
		t.Errorf("Expected no result, got %+v", *result)
	}

	var apiError *github.APIError
	if !errors.As(err, &apiError) || apiError.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 APIError, got %v", err)
	}

	var runError *Error
	if !errors.As(err, &runError) || runError.State != Resolved {
		t.Errorf("Expected failure after 'resolved', got %v", err)
	}
}

func TestRunWithResolveError(t *testing.T) {
	f := newFake(t, http.StatusForbidden, "", http.StatusCreated)
	syncer := newSyncer(f, SourceFunc(grid))

	if _, err := syncer.Run(context.Background()); err == nil {
		t.Fatalf("Expected error, got %v", err)
	}

	if len(f.requests) != 1 {
		t.Errorf("Expected only the resolve request, got %v", f.requests)
	}
}

func TestRunWithMissingToken(t *testing.T) {
	f := newFake(t, http.StatusNotFound, "", http.StatusCreated)
	called := false
	source := SourceFunc(func(ctx context.Context) (sheet.Grid, error) {
		called = true
		return grid(ctx)
	})

	syncer := newSyncer(f, source)
	delete(syncer.Settings, config.TOKEN)

	_, err := syncer.Run(context.Background())
	if !errors.Is(err, ErrConfig) || !errors.Is(err, config.ErrMissingToken) {
		t.Fatalf("Expected missing token configuration error, got %v", err)
	}

	if called {
		t.Errorf("Source read before configuration was validated")
	}

	if len(f.requests) != 0 {
		t.Errorf("Expected no network requests, got %v", f.requests)
	}
}

func TestRunWithSourceError(t *testing.T) {
	f := newFake(t, http.StatusNotFound, "", http.StatusCreated)
	source := SourceFunc(func(ctx context.Context) (sheet.Grid, error) {
		return nil, sheet.ErrSheetNotFound
	})

	syncer := newSyncer(f, source)

	_, err := syncer.Run(context.Background())
	if !errors.Is(err, ErrSource) || !errors.Is(err, sheet.ErrSheetNotFound) {
		t.Fatalf("Expected source error, got %v", err)
	}

	var runError *Error
	if !errors.As(err, &runError) || runError.State != ConfigLoaded {
		t.Errorf("Expected failure after 'config-loaded', got %v", err)
	}

	if len(f.requests) != 0 {
		t.Errorf("Expected no GitHub requests, got %v", f.requests)
	}
}

func TestTestConnection(t *testing.T) {
	f := newFake(t, http.StatusOK, "", http.StatusOK)
	syncer := newSyncer(f, nil)

	if err := syncer.TestConnection(context.Background()); err != nil {
		t.Errorf("Unexpected error (%v)", err)
	}

	if len(f.requests) != 1 || f.requests[0] != "GET /repos/5dogs/github-spreadsheet-connect" {
		t.Errorf("Incorrect requests - got %v", f.requests)
	}
}

func TestTestConnectionWithMissingToken(t *testing.T) {
	f := newFake(t, http.StatusOK, "", http.StatusOK)
	syncer := newSyncer(f, nil)
	syncer.Settings = config.Settings{}

	if err := syncer.TestConnection(context.Background()); !errors.Is(err, config.ErrMissingToken) {
		t.Errorf("Expected missing token error, got %v", err)
	}

	if len(f.requests) != 0 {
		t.Errorf("Expected no network requests, got %v", f.requests)
	}
}

func TestRunWithInvalidAPI(t *testing.T) {
	f := newFake(t, http.StatusNotFound, "", http.StatusCreated)
	syncer := newSyncer(f, SourceFunc(grid))
	syncer.Settings[config.API] = "http://[::1"

	_, err := syncer.Run(context.Background())
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Expected configuration error, got %v", err)
	}

	if len(f.requests) != 0 {
		t.Errorf("Expected no network requests, got %v", f.requests)
	}
}
