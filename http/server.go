// Package http serves the data browser page and the JSON API behind it.
package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/fidata"
	"github.com/gorilla/mux"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is closed.
const ShutdownTimeout = 5 * time.Second

//go:embed assets
var assets embed.FS

// Server serves the browser page and JSON API over the lookup services.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router

	// Bind address to open.
	Addr string

	Logger *slog.Logger

	FeatureService fidata.FeatureService
	IssueService   fidata.IssueService
	ReleaseService fidata.ReleaseService
	SearchService  fidata.SearchService
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router: mux.NewRouter(),
		Logger: slog.Default(),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/versions", s.handleVersions).Methods(http.MethodGet)
	api.HandleFunc("/features", s.handleFeatures).Methods(http.MethodGet)
	api.HandleFunc("/features/compare", s.handleCompare).Methods(http.MethodGet)
	api.HandleFunc("/platforms", s.handlePlatforms).Methods(http.MethodGet)
	api.HandleFunc("/issues", s.handleIssues).Methods(http.MethodGet)
	api.HandleFunc("/issues/{id}", s.handleIssue).Methods(http.MethodGet)
	api.HandleFunc("/defects/{id}", s.handleDefect).Methods(http.MethodGet)
	api.HandleFunc("/releases", s.handleReleases).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, fidata.Errorf(fidata.ENOTFOUND, "%s not found", r.URL.Path))
	})

	return s
}

// ServeHTTP routes a request. It lets tests drive the server without a
// listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open binds the listener and starts serving in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("serve", "error", err)
		}
	}()
	return nil
}

// URL returns the address the server listens on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		s.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorStatusCodes maps application error codes to HTTP status codes.
var errorStatusCodes = map[string]int{
	fidata.EINVALID:  http.StatusBadRequest,
	fidata.ENOTFOUND: http.StatusNotFound,
	fidata.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := errorStatusCodes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Internal errors are logged and
// their details hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := fidata.ErrorCode(err), fidata.ErrorMessage(err)
	if code == fidata.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.respondWithJSON(w, ErrorStatusCode(code), &errorResponse{Code: code, Error: message})
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "error", err)
	}
}
