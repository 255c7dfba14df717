package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5dogs/github-spreadsheet-connect/publish"
)

func TestRouterSync(t *testing.T) {
	status := &status{}
	handler := func(ctx context.Context) error {
		status.update(&publish.Result{Success: true, CommitURL: "https://github.com/5dogs/data/commit/c0ffee", Message: "sync complete"}, nil)
		return nil
	}

	r := router(handler, status)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status code - expected:%v, got:%v", http.StatusOK, w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response (%v)", err)
	}

	if response["success"] != true || response["commit-url"] != "https://github.com/5dogs/data/commit/c0ffee" {
		t.Errorf("Incorrect response - got %v", response)
	}
}

func TestRouterSyncWithError(t *testing.T) {
	status := &status{}
	handler := func(ctx context.Context) error {
		err := errors.New("GitHub API error: 422 - conflict")
		status.update(nil, err)
		return err
	}

	r := router(handler, status)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("Incorrect status code - expected:%v, got:%v", http.StatusBadGateway, w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid response (%v)", err)
	}

	if response["success"] != false || response["error"] != "GitHub API error: 422 - conflict" {
		t.Errorf("Incorrect status - got %v", response)
	}
}

func TestRouterStatusBeforeSync(t *testing.T) {
	r := router(func(ctx context.Context) error { return nil }, &status{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Incorrect status code - expected:%v, got:%v", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "{\"success\":false}\n" {
		t.Errorf("Incorrect status - got %q", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sync", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /sync, got %v", w.Code)
	}
}
