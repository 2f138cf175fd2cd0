package server

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/strada-dev/strada/pkg/router"
)

// DocsConfig holds configuration for the generated API documentation
// endpoints.
type DocsConfig struct {
	// Enabled serves /openapi.json and the documentation UI.
	// Default: true.
	Enabled bool

	// Title is the API title in the generated document.
	// Default: "API".
	Title string

	// Description is the API description in the generated document.
	Description string

	// Version is the API version in the generated document.
	// Default: "1.0.0".
	Version string

	// SpecPath is the path the OpenAPI document is served at.
	// Default: "/openapi.json".
	SpecPath string

	// UIPath is the path the documentation UI is served at.
	// Default: "/docs".
	UIPath string
}

// DefaultDocsConfig returns a DocsConfig with sensible defaults.
func DefaultDocsConfig() *DocsConfig {
	return &DocsConfig{
		Enabled:  true,
		Title:    "API",
		Version:  "1.0.0",
		SpecPath: "/openapi.json",
		UIPath:   "/docs",
	}
}

// Clone returns a copy of the DocsConfig.
func (c *DocsConfig) Clone() *DocsConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the address to listen on (e.g., ":8080").
	// Default: ":8080".
	Address string

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle limit.
	// Default: 2 minutes.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Logger receives server lifecycle and request error logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Docs configures the documentation endpoints.
	// Default: DefaultDocsConfig().
	Docs *DocsConfig

	// Metrics enables the Prometheus /metrics endpoint and per-request
	// instrumentation.
	// Default: true.
	Metrics bool

	// MetricsRegistry is the Prometheus registry to register collectors
	// with. Default: a fresh registry per server.
	MetricsRegistry *prometheus.Registry

	// Tracing enables per-request OpenTelemetry spans.
	// Default: false.
	Tracing bool

	// Global is the global request middleware, applied to every route
	// ahead of validation and route-specific middleware.
	Global []router.Middleware

	// Debug enriches 500 responses with request context.
	// Default: false.
	Debug bool
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		Docs:            DefaultDocsConfig(),
		Metrics:         true,
	}
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Docs != nil {
		clone.Docs = c.Docs.Clone()
	}
	if c.Global != nil {
		clone.Global = make([]router.Middleware, len(c.Global))
		copy(clone.Global, c.Global)
	}
	return &clone
}

// WithAddress sets the listen address and returns the config for chaining.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// WithLogger sets the logger and returns the config for chaining.
func (c *ServerConfig) WithLogger(logger *slog.Logger) *ServerConfig {
	c.Logger = logger
	return c
}

// WithDocs sets the documentation configuration and returns the config for chaining.
func (c *ServerConfig) WithDocs(docs *DocsConfig) *ServerConfig {
	c.Docs = docs
	return c
}

// WithGlobal appends global middleware and returns the config for chaining.
func (c *ServerConfig) WithGlobal(mw ...router.Middleware) *ServerConfig {
	c.Global = append(c.Global, mw...)
	return c
}

// WithDebug sets debug mode and returns the config for chaining.
func (c *ServerConfig) WithDebug(debug bool) *ServerConfig {
	c.Debug = debug
	return c
}
