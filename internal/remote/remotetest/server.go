// Package remotetest provides an in-memory plates API for tests.
package remotetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"platedash/internal/model"
)

// Request is one request received by the fake server.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server mimics the plates API (json-server style) on top of httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	plates   []model.Plate
	nextID   int
	requests []Request
	// fail maps "METHOD" or "METHOD /path" to a status code to return instead of handling.
	fail map[string]int
}

// New starts a fake server seeded with plates and closes it on test cleanup.
func New(t testing.TB, seed ...model.Plate) *Server {
	t.Helper()
	s := &Server{fail: map[string]int{}}
	for _, p := range seed {
		s.plates = append(s.plates, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailWith makes requests matching key ("POST" or "PUT /foods/2") answer with status.
func (s *Server) FailWith(key string, status int) {
	s.mu.Lock()
	s.fail[key] = status
	s.mu.Unlock()
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	s.fail = map[string]int{}
	s.mu.Unlock()
}

// Plates returns a copy of the server-side collection.
func (s *Server) Plates() []model.Plate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Plate(nil), s.plates...)
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
	if code, ok := s.fail[r.Method+" "+r.URL.Path]; ok {
		http.Error(w, "injected failure", code)
		return
	}
	if code, ok := s.fail[r.Method]; ok {
		http.Error(w, "injected failure", code)
		return
	}

	if r.URL.Path == "/foods" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.plates)
		case http.MethodPost:
			var p model.Plate
			if err := json.Unmarshal(raw, &p); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			p.ID = s.nextID
			s.nextID++
			s.plates = append(s.plates, p)
			writeJSON(w, http.StatusCreated, p)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idStr, ok := strings.CutPrefix(r.URL.Path, "/foods/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	idx := -1
	for i := range s.plates {
		if s.plates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.plates[idx])
	case http.MethodPut:
		p := s.plates[idx]
		if v, ok := body["available"].(bool); ok {
			p.Available = v
		}
		if v, ok := body["name"].(string); ok {
			p.Name = v
		}
		if v, ok := body["image"].(string); ok {
			p.Image = v
		}
		if v, ok := body["price"].(string); ok {
			p.Price = v
		}
		if v, ok := body["description"].(string); ok {
			p.Description = v
		}
		s.plates[idx] = p
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		s.plates = append(s.plates[:idx], s.plates[idx+1:]...)
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
