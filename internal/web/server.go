package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"runbox/internal/model"

	"github.com/charmbracelet/log"
)

// Catalog is the read side of the catalog cache the API serves.
type Catalog interface {
	Query(prefix string) []string
	Fuzzy(pattern string, limit int) []string
	Catalog() model.Catalog
	Report() model.ScanReport
}

// defaultFuzzyLimit caps /api/fuzzy when no limit is given.
const defaultFuzzyLimit = 20

// Server exposes the catalog over a small JSON API.
type Server struct {
	catalog Catalog
	logger  *log.Logger
}

// NewServer creates a server over the given catalog.
func NewServer(c Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{catalog: c, logger: logger}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API Endpoints
	mux.HandleFunc("/api/complete", s.handleComplete)
	mux.HandleFunc("/api/fuzzy", s.handleFuzzy)
	mux.HandleFunc("/api/catalog", s.handleCatalog)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/version", s.handleVersion)

	return mux
}

// ListenAndServe serves the API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting web server", "addr", "http://"+addr)
	fmt.Printf("Starting runbox web server at http://%s\n", addr)

	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		return fmt.Errorf("web server on %s: %w", addr, err)
	}
	return nil
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	prefix := r.URL.Query().Get("prefix")
	s.logger.Debug("complete", "prefix", prefix)
	s.writeJSON(w, nonNil(s.catalog.Query(prefix)))
}

func (s *Server) handleFuzzy(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query().Get("q")
	limit := defaultFuzzyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	s.writeJSON(w, nonNil(s.catalog.Fuzzy(q, limit)))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	s.writeJSON(w, nonNil(s.catalog.Catalog()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	s.writeJSON(w, s.catalog.Report())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	s.writeJSON(w, map[string]string{"Version": model.Version})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
