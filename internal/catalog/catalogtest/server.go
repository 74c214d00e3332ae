// Package catalogtest provides an in-process fake of the remote catalog for
// tests of packages that sit on top of catalog.Client.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Server is a fake PokeAPI serving Total generated entries named
// "mon-<id>". Failure switches can be flipped while a test runs.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	total       int
	failList    bool
	failDetail  map[string]int // name -> HTTP status to answer with
	requests    []string
	detailGate  chan struct{}
	renamedPage map[int]string // offset -> name prefix override
}

// NewServer starts a fake catalog with total entries.
func NewServer(total int) *Server {
	s := &Server{
		total:       total,
		failDetail:  make(map[string]int),
		renamedPage: make(map[int]string),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/pokemon", s.handleList)
	mux.HandleFunc("/api/v2/pokemon/", s.handleDetail)
	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL is the API root to hand to catalog.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2"
}

// Name returns the generated name for id.
func Name(id int) string {
	return fmt.Sprintf("mon-%d", id)
}

// FailList makes list requests answer 500 while on is true.
func (s *Server) FailList(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = on
}

// FailDetail makes detail requests for name answer with status.
// A status of 0 clears the failure.
func (s *Server) FailDetail(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failDetail, name)
		return
	}
	s.failDetail[name] = status
}

// SetTotal changes the catalog size, simulating remote changes.
func (s *Server) SetTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
}

// RenamePage makes the page starting at offset use prefix instead of "mon".
func (s *Server) RenamePage(offset int, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renamedPage[offset] = prefix
}

// GateDetails blocks every detail response until the returned function is
// called.
func (s *Server) GateDetails() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.detailGate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.detailGate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns the request URIs seen so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.mu.Unlock()
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.mu.Lock()
	total, fail := s.total, s.failList
	s.mu.Unlock()

	if fail {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	s.mu.Lock()
	prefix, ok := s.renamedPage[offset]
	s.mu.Unlock()
	if !ok {
		prefix = "mon"
	}

	base := s.BaseURL()
	results := []map[string]string{}
	for id := offset + 1; id <= min(offset+limit, total); id++ {
		results = append(results, map[string]string{
			"name": fmt.Sprintf("%s-%d", prefix, id),
			"url":  fmt.Sprintf("%s/pokemon/%d/", base, id),
		})
	}

	var next, prev *string
	if offset+limit < total {
		n := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", base, offset+limit, limit)
		next = &n
	}
	if offset > 0 {
		p := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", base, max(offset-limit, 0), limit)
		prev = &p
	}

	writeJSON(w, map[string]any{
		"count":    total,
		"next":     next,
		"previous": prev,
		"results":  results,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v2/pokemon/"), "/")

	s.mu.Lock()
	status := s.failDetail[name]
	gate := s.detailGate
	total := s.total
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if status != 0 {
		http.Error(w, "nope", status)
		return
	}

	idx := strings.LastIndex(name, "-")
	id, err := strconv.Atoi(name[idx+1:])
	if idx < 0 || err != nil || id < 1 || id > total {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, DetailJSON(id, name))
}

// DetailJSON builds a PokeAPI-shaped detail document.
func DetailJSON(id int, name string) map[string]any {
	stat := func(n string, v int) map[string]any {
		return map[string]any{"base_stat": v, "effort": 0, "stat": map[string]string{"name": n}}
	}
	types := []map[string]any{
		{"slot": 1, "type": map[string]string{"name": "grass"}},
	}
	if id%2 == 0 {
		types = append(types, map[string]any{"slot": 2, "type": map[string]string{"name": "poison"}})
	}
	return map[string]any{
		"id":              id,
		"name":            name,
		"height":          7,
		"weight":          69,
		"base_experience": 64,
		"types":           types,
		"stats": []map[string]any{
			stat("hp", 45), stat("attack", 49), stat("defense", 49),
			stat("special-attack", 65), stat("special-defense", 65), stat("speed", 45),
		},
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("https://sprites.example/%d.png", id),
			"other": map[string]any{
				"home":             map[string]string{"front_default": fmt.Sprintf("https://sprites.example/home/%d.png", id)},
				"official-artwork": map[string]string{"front_default": fmt.Sprintf("https://sprites.example/art/%d.png", id)},
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
