// Package server exposes the tool registry and session status over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/logging"
	"github.com/entrhq/suno-mcp/pkg/tools"
	"github.com/entrhq/suno-mcp/pkg/types"
)

const maxRequestBytes = 1 << 20

// StatusFunc returns the current session snapshot.
type StatusFunc func() browser.StatusSnapshot

// Options configures a Server.
type Options struct {
	Address  string
	Version  string
	Registry *tools.Registry
	Status   StatusFunc
	Logger   *logging.Logger
}

// Server is the HTTP facade.
type Server struct {
	address   string
	version   string
	registry  *tools.Registry
	status    StatusFunc
	logger    *logging.Logger
	startedAt time.Time
	router    chi.Router
}

// New creates a server and mounts its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard("http")
	}
	if opts.Status == nil {
		opts.Status = func() browser.StatusSnapshot { return browser.StatusSnapshot{State: "unknown"} }
	}

	s := &Server{
		address:   opts.Address,
		version:   opts.Version,
		registry:  opts.Registry,
		status:    opts.Status,
		logger:    opts.Logger,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)
	r.Use(withCORS)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleExecuteTool)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on %s", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Infof("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status      string  `json:"status"`
	Version     string  `json:"version"`
	Uptime      float64 `json:"uptime"`
	ToolsLoaded int     `json:"tools_loaded"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Version:     s.version,
		Uptime:      time.Since(s.startedAt).Seconds(),
		ToolsLoaded: s.registry.Len(),
	})
}

type statusResponse struct {
	browser.StatusSnapshot
	ServerMode string `json:"server_mode"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		StatusSnapshot: s.status(),
		ServerMode:     "http",
	})
}

type toolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	list := s.registry.List()
	out := make([]toolInfo, 0, len(list))
	for _, t := range list {
		out = append(out, toolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			Category:    tools.CategoryOf(t),
			InputSchema: t.Schema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": out})
}

type toolRequest struct {
	Arguments map[string]interface{} `json:"arguments"`
}

type toolResponse struct {
	Result  string `json:"result,omitempty"`
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req toolRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeToolError(w, name, types.Wrap(types.CodeInvalidArgument, err, "invalid request body"))
			return
		}
	}

	result, err := s.registry.Invoke(r.Context(), name, tools.Arguments(req.Arguments))
	if err != nil {
		writeToolError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, toolResponse{Result: result, Tool: name, Success: true})
}

func writeToolError(w http.ResponseWriter, name string, err error) {
	code := types.CodeOf(err)
	writeJSON(w, statusFor(code), toolResponse{
		Tool:    name,
		Success: false,
		Error:   err.Error(),
		Code:    string(code),
	})
}

func statusFor(code types.ErrorCode) int {
	switch code {
	case types.CodeUnknownTool:
		return http.StatusNotFound
	case types.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Infof("%s %s %d %s %v", r.Method, r.URL.Path, ww.Status(), r.RemoteAddr, time.Since(start))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
