// Package repotest runs an in-process Maven-layout repository for tests.
//
// The repository serves files registered with [Repository.Put] and answers
// 404 for everything else. Every request path is recorded so that tests can
// assert on request order and count.
package repotest

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// entry is a canned response.
type entry struct {
	status int
	body   []byte
	delay  time.Duration
	cut    bool // announce the full length but close after half the body
}

// Repository is a fake Maven-layout HTTP repository.
type Repository struct {
	server *httptest.Server
	stop   chan struct{}

	mu       sync.Mutex
	entries  map[string]entry
	requests []string
}

// New starts a repository and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Repository {
	t.Helper()

	r := &Repository{
		stop:    make(chan struct{}),
		entries: make(map[string]entry),
	}

	router := chi.NewRouter()
	router.Use(r.record)
	router.Get("/*", r.serve)

	r.server = httptest.NewServer(router)
	t.Cleanup(func() {
		close(r.stop)
		r.server.Close()
	})
	return r
}

// Put serves body with status 200 at path.
func (r *Repository) Put(path string, body []byte) {
	r.set(path, entry{status: http.StatusOK, body: body})
}

// PutString is Put for string bodies.
func (r *Repository) PutString(path, body string) {
	r.Put(path, []byte(body))
}

// PutStatus answers path with status and an empty body.
func (r *Repository) PutStatus(path string, status int) {
	r.set(path, entry{status: status})
}

// PutSlow serves body at path after delay, or never if the request is
// cancelled first.
func (r *Repository) PutSlow(path string, body []byte, delay time.Duration) {
	r.set(path, entry{status: http.StatusOK, body: body, delay: delay})
}

// PutTruncated serves status 200 with a Content-Length for body but closes
// the connection after writing half of it.
func (r *Repository) PutTruncated(path string, body []byte) {
	r.set(path, entry{status: http.StatusOK, body: body, cut: true})
}

// HostPort returns the address the repository listens on.
func (r *Repository) HostPort() (string, int) {
	host, portStr, err := net.SplitHostPort(r.server.Listener.Addr().String())
	if err != nil {
		panic(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		panic(err)
	}
	return host, port
}

// URL returns the base URL of the repository.
func (r *Repository) URL() string { return r.server.URL }

// Requests returns the request paths received so far, in order.
func (r *Repository) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

// Count returns the number of requests received so far.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *Repository) set(path string, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[path] = e
}

func (r *Repository) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.requests = append(r.requests, req.URL.Path)
		r.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (r *Repository) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	e, ok := r.entries[req.URL.Path]
	r.mu.Unlock()

	if !ok {
		http.NotFound(w, req)
		return
	}

	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-req.Context().Done():
			return
		case <-r.stop:
			return
		}
	}

	if e.cut {
		w.Header().Set("Content-Length", strconv.Itoa(len(e.body)))
		w.WriteHeader(e.status)
		w.Write(e.body[:len(e.body)/2])
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
			}
		}
		return
	}

	w.WriteHeader(e.status)
	w.Write(e.body)
}
