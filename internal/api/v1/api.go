// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/moviezone/moviezone/internal/catalog"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// New creates a new v1 API server. It fails when a required dependency
// is missing.
func New(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog (public reads)
	mux.HandleFunc("GET /api/v1/entries", s.listEntries)
	mux.HandleFunc("GET /api/v1/entries/{id}", s.getEntry)

	// Catalog (admin writes)
	mux.HandleFunc("POST /api/v1/entries", s.requireSession(s.createEntry))
	mux.HandleFunc("PUT /api/v1/entries/{id}", s.requireSession(s.updateEntry))
	mux.HandleFunc("DELETE /api/v1/entries/{id}", s.requireSession(s.deleteEntry))

	// Audit log
	mux.HandleFunc("GET /api/v1/events", s.requireSession(s.listEvents))

	// Auth
	mux.HandleFunc("POST /api/v1/login", s.login)
	mux.HandleFunc("POST /api/v1/logout", s.logout)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)

	// Stream relay
	mux.HandleFunc("GET /watch/{id}", s.requireRelay())

	// Ingestion webhook
	mux.HandleFunc("POST /webhook/telegram", s.requireWebhook())
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_, total, err := s.deps.Catalog.ListEntries(catalog.Filter{Limit: 1})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:           "ok",
		Entries:          total,
		IngestionEnabled: s.deps.Webhook != nil,
		AdminEnabled:     s.deps.Admin != nil,
	})
}
