// Package gateway serves fixed content over HTTP for tests and records the
// requests it receives.
package gateway

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
)

// Entry is the content served at one path.
type Entry struct {
	ContentType string
	Body        []byte
	Status      int
}

// Server is an httptest.Server with a mutable routing table.
type Server struct {
	*httptest.Server

	mu      sync.RWMutex
	entries map[string]Entry
	headers atomic.Value // stores http.Header
	hits    atomic.Int64
}

// Start launches a Server.
func Start() *Server {
	s := &Server{entries: map[string]Entry{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Set serves body at path with the given content type.
func (s *Server) Set(path, contentType string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = Entry{ContentType: contentType, Body: body, Status: http.StatusOK}
}

// SetJSON serves a JSON document at path.
func (s *Server) SetJSON(path, doc string) {
	s.Set(path, "application/json", []byte(doc))
}

// SetStatus makes path answer with status and an empty body.
func (s *Server) SetStatus(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = Entry{Status: status}
}

// Hits returns how many requests were served.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// LastHeader returns the headers of the most recent request or nil if none.
func (s *Server) LastHeader() http.Header {
	if v := s.headers.Load(); v != nil {
		return v.(http.Header)
	}
	return nil
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	s.headers.Store(r.Header.Clone())

	path := r.URL.Path
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	s.mu.RLock()
	e, ok := s.entries[path]
	if !ok {
		e, ok = s.entries[r.URL.Path]
	}
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(e.Body)))
	w.WriteHeader(e.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(e.Body)
	}
}
