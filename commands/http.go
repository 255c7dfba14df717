package commands

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/5dogs/github-spreadsheet-connect/publish"
	"github.com/5dogs/github-spreadsheet-connect/schedule"
)

type status struct {
	mu        sync.Mutex
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Success   bool       `json:"success"`
	CommitURL string     `json:"commit-url,omitempty"`
	Message   string     `json:"message,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (s *status) update(result *publish.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	s.Timestamp = &now
	s.Success = false
	s.CommitURL = ""
	s.Message = ""
	s.Error = ""

	if err != nil {
		s.Error = err.Error()
	} else if result != nil {
		s.Success = result.Success
		s.CommitURL = result.CommitURL
		s.Message = result.Message
	}
}

func (s *status) write(w http.ResponseWriter, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(s)
}

func router(handler schedule.Handler, status *status) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/status", func(w http.ResponseWriter, rq *http.Request) {
		status.write(w, http.StatusOK)
	})

	r.Post("/sync", func(w http.ResponseWriter, rq *http.Request) {
		if err := handler(rq.Context()); err != nil {
			status.write(w, http.StatusBadGateway)
			return
		}

		status.write(w, http.StatusOK)
	})

	return r
}
