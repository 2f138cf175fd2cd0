// Package server is the HTTP transport for a compiled route table. It
// owns listener lifecycle, response serialization, and the operational
// endpoints (metrics, OpenAPI document, documentation UI); all routing
// and pipeline decisions stay in the router's dispatch engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strada-dev/strada/pkg/middleware"
	"github.com/strada-dev/strada/pkg/router"
)

// Server serves a compiled route table over HTTP.
type Server struct {
	config  *ServerConfig
	engine  *router.Engine
	logger  *slog.Logger
	handler http.Handler
	http    *http.Server
}

// New builds a server around a compiled route table. The config is
// cloned; later mutation of the caller's copy has no effect.
func New(table *router.Table, cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	cfg = cfg.Clone()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine := router.NewEngine(table, router.EngineConfig{
		Global: cfg.Global,
		Logger: logger,
		Debug:  cfg.Debug,
	})

	s := &Server{
		config: cfg,
		engine: engine,
		logger: logger,
	}

	handler, err := s.buildHandler(table)
	if err != nil {
		return nil, err
	}
	s.handler = handler
	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// buildHandler mounts the operational endpoints on a chi mux and routes
// everything else through the dispatch engine.
func (s *Server) buildHandler(table *router.Table) (http.Handler, error) {
	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)

	if s.config.Metrics {
		registry := s.config.MetricsRegistry
		if registry == nil {
			registry = prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		mux.Use(middleware.Metrics(
			middleware.WithRegistry(registry),
			middleware.WithRouteTemplate(s.routeTemplate),
		))
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	if s.config.Tracing {
		mux.Use(middleware.Tracing(middleware.WithSpanRoute(s.routeTemplate)))
	}

	if docs := s.config.Docs; docs != nil && docs.Enabled {
		spec, err := router.GenerateOpenAPI(table, router.OpenAPIInfo{
			Title:       docs.Title,
			Description: docs.Description,
			Version:     docs.Version,
		})
		if err != nil {
			return nil, fmt.Errorf("generate openapi document: %w", err)
		}
		ui := []byte(router.SwaggerUIHTML(docs.Title, docs.SpecPath))

		mux.Method(http.MethodGet, docs.SpecPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write(spec)
		}))
		mux.Method(http.MethodGet, docs.UIPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(ui)
		}))
	}

	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeResponse(w, s.engine.Dispatch(r))
	})
	mux.NotFound(dispatch)
	mux.MethodNotAllowed(dispatch)

	return mux, nil
}

// routeTemplate resolves a request to its route pattern for metric and
// span labels, so dynamic segments do not explode label cardinality.
func (s *Server) routeTemplate(r *http.Request) string {
	method, ok := router.ParseMethod(r.Method)
	if !ok {
		return ""
	}
	match := s.engine.Table().Match(method, r.URL.Path)
	if match.Route == nil {
		return ""
	}
	return match.Route.Path()
}

// writeResponse serializes an engine response: []byte and string bodies
// are written verbatim, everything else as JSON.
func (s *Server) writeResponse(w http.ResponseWriter, resp *router.Response) {
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	switch body := resp.Body.(type) {
	case nil:
		w.WriteHeader(resp.Status)
	case []byte:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.WriteHeader(resp.Status)
		w.Write(body)
	case string:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.WriteHeader(resp.Status)
		w.Write([]byte(body))
	default:
		data, err := json.Marshal(body)
		if err != nil {
			s.logger.Error("response serialization failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal server error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		w.Write(data)
	}
}

// Handler returns the server's root handler, for mounting in a larger
// mux or driving with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Engine returns the server's dispatch engine.
func (s *Server) Engine() *router.Engine {
	return s.engine
}

// ListenAndServe starts serving and blocks until the listener fails or
// Shutdown is called. http.ErrServerClosed is not reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "address", s.config.Address)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests, bounded by the
// configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
