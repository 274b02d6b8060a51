// Package grantstest provides an in-memory fake of the grants service for tests.
package grantstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/grantview/pkg/core"
)

// Vocabulary is the controlled tag list the fake assigns from.
var Vocabulary = []string{
	"agriculture", "education", "STEM", "sustainability", "energy",
	"technology", "water", "soil", "conservation", "youth", "rural",
	"infrastructure", "climate", "dairy", "livestock", "research", "training",
}

// failure is a canned error response.
type failure struct {
	status int
	body   string
}

// Server is a fake grants service backed by a slice.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	grants     []core.Grant
	requests   []string
	listFail   *failure
	createFail *failure
	healthFail *failure

	// Tagger assigns tags to a created grant. Defaults to KeywordTagger.
	Tagger func(core.NewGrant) []string
	// OnCreate, if set, runs while a create request is being handled.
	OnCreate func(core.NewGrant)
}

// NewServer starts a fake service seeded with grants. It is closed on test cleanup.
func NewServer(t testing.TB, grants ...core.Grant) *Server {
	t.Helper()

	s := &Server{
		grants: core.CloneGrants(grants),
		Tagger: KeywordTagger,
	}

	r := chi.NewRouter()
	r.Get("/api/grants", s.handleList)
	r.Post("/api/grants", s.handleCreate)
	r.Get("/api/health", s.handleHealth)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// KeywordTagger picks every vocabulary tag that appears in the grant text.
func KeywordTagger(g core.NewGrant) []string {
	text := strings.ToLower(g.Name + " " + g.Description)
	var tags []string
	for _, tag := range Vocabulary {
		if strings.Contains(text, strings.ToLower(tag)) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FailList makes GET /api/grants respond with status and raw body.
func (s *Server) FailList(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFail = &failure{status: status, body: body}
}

// FailCreate makes POST /api/grants respond with status and raw body.
func (s *Server) FailCreate(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createFail = &failure{status: status, body: body}
}

// FailHealth makes GET /api/health respond with status and raw body.
func (s *Server) FailHealth(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthFail = &failure{status: status, body: body}
}

// Recover clears all canned failures.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFail, s.createFail, s.healthFail = nil, nil, nil
}

// AddExternal appends a grant as if another client had created it.
func (s *Server) AddExternal(g core.Grant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, g.Clone())
}

// Grants returns a copy of the stored grants.
func (s *Server) Grants() []core.Grant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneGrants(s.grants)
}

// Requests returns every request seen, formatted as "METHOD /path".
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many requests matched "METHOD /path".
func (s *Server) Count(request string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == request {
			n++
		}
	}
	return n
}

// ListCalls is shorthand for Count("GET /api/grants").
func (s *Server) ListCalls() int {
	return s.Count("GET /api/grants")
}

// CreateCalls is shorthand for Count("POST /api/grants").
func (s *Server) CreateCalls() int {
	return s.Count("POST /api/grants")
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	s.mu.Lock()
	fail := s.listFail
	list := core.CloneGrants(s.grants)
	s.mu.Unlock()

	if fail != nil {
		writeRaw(w, fail)
		return
	}
	writeJSON(w, http.StatusOK, core.GrantList{Grants: list})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	s.mu.Lock()
	fail := s.createFail
	onCreate := s.OnCreate
	s.mu.Unlock()

	if fail != nil {
		writeRaw(w, fail)
		return
	}

	var req core.CreateGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, core.ErrorResponse{Error: "Invalid request format. Expected {grant: {...}}"})
		return
	}
	if req.Grant.Name == "" || req.Grant.Description == "" {
		writeJSON(w, http.StatusBadRequest, core.ErrorResponse{Error: "Grant must have 'grant_name' and 'grant_description'"})
		return
	}
	if onCreate != nil {
		onCreate(req.Grant)
	}

	grant := core.Grant{
		Name:        req.Grant.Name,
		Description: req.Grant.Description,
		Tags:        s.Tagger(req.Grant),
	}

	s.mu.Lock()
	s.grants = append(s.grants, grant)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Successfully added " + grant.Name})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	s.mu.Lock()
	fail := s.healthFail
	count := len(s.grants)
	s.mu.Unlock()

	if fail != nil {
		writeRaw(w, fail)
		return
	}
	writeJSON(w, http.StatusOK, core.Health{
		Status:      "healthy",
		Database:    "connected",
		GroqAPI:     "configured",
		GrantsCount: count,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, f *failure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}
