package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/strada-dev/strada/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "strada.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = ""

	// DefaultRoutes is the default routes directory.
	DefaultRoutes = "routes"
)

// Config represents the complete strada.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Routes is the path to the routes directory, relative to the
	// project root.
	Routes string `json:"routes,omitempty"`

	// Prefix is prepended to every compiled route pattern, e.g. "/api".
	Prefix string `json:"prefix,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Docs contains API documentation configuration.
	Docs DocsConfig `json:"docs,omitempty"`

	// Observability contains metrics and tracing configuration.
	Observability ObservabilityConfig `json:"observability,omitempty"`

	// Debug enriches 500 responses with request context.
	Debug bool `json:"debug,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`
}

// DocsConfig contains API documentation settings.
type DocsConfig struct {
	// Enabled serves the OpenAPI document and documentation UI.
	Enabled *bool `json:"enabled,omitempty"`

	// Title is the API title in the generated document.
	Title string `json:"title,omitempty"`

	// Description is the API description in the generated document.
	Description string `json:"description,omitempty"`

	// Version is the API version in the generated document.
	Version string `json:"version,omitempty"`
}

// ObservabilityConfig contains metrics and tracing settings.
type ObservabilityConfig struct {
	// Metrics enables the Prometheus /metrics endpoint.
	Metrics *bool `json:"metrics,omitempty"`

	// Tracing enables per-request OpenTelemetry spans.
	Tracing bool `json:"tracing,omitempty"`
}

// New returns a Config with defaults applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads strada.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").WithPath(filepath.Dir(path))
		}
		return nil, errors.New("E102").WithPath(path).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").WithPath(path).Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromWorkingDir walks up from the working directory to the nearest
// strada.json and loads it.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// FindProjectRoot walks up from startDir to the nearest directory
// containing strada.json.
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E101").WithPath(startDir)
		}
		dir = parent
	}
}

// Exists reports whether dir contains a strada.json.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil && !info.IsDir()
}

// SaveTo writes the configuration to path as indented JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project root directory.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// RoutesPath returns the absolute routes directory.
func (c *Config) RoutesPath() string {
	if filepath.IsAbs(c.Routes) {
		return c.Routes
	}
	return filepath.Join(c.Dir(), c.Routes)
}

// Address returns the listen address, e.g. ":8080".
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// DocsEnabled reports whether documentation endpoints are on. They
// default to on.
func (c *Config) DocsEnabled() bool {
	return c.Docs.Enabled == nil || *c.Docs.Enabled
}

// MetricsEnabled reports whether the metrics endpoint is on. It defaults
// to on.
func (c *Config) MetricsEnabled() bool {
	return c.Observability.Metrics == nil || *c.Observability.Metrics
}

func (c *Config) applyDefaults() {
	if c.Routes == "" {
		c.Routes = DefaultRoutes
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Docs.Title == "" {
		c.Docs.Title = c.Name
		if c.Docs.Title == "" {
			c.Docs.Title = "API"
		}
	}
	if c.Docs.Version == "" {
		c.Docs.Version = c.Version
		if c.Docs.Version == "" {
			c.Docs.Version = "1.0.0"
		}
	}
}
