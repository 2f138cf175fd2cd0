package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strada-dev/strada/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"name": "shop"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Routes != DefaultRoutes {
		t.Errorf("Routes = %q, want default", cfg.Routes)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d, want default", cfg.Server.Port)
	}
	if cfg.Docs.Title != "shop" {
		t.Errorf("Docs title = %q, want project name", cfg.Docs.Title)
	}
	if !cfg.DocsEnabled() || !cfg.MetricsEnabled() {
		t.Error("docs and metrics should default to on")
	}
	if cfg.Address() != ":8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadExplicitValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"name": "shop",
		"routes": "app/routes",
		"prefix": "/api",
		"server": {"host": "127.0.0.1", "port": 9000},
		"docs": {"enabled": false, "title": "Shop API", "version": "2.1.0"},
		"observability": {"metrics": false, "tracing": true}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prefix != "/api" {
		t.Errorf("Prefix = %q", cfg.Prefix)
	}
	if cfg.Address() != "127.0.0.1:9000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.DocsEnabled() {
		t.Error("docs explicitly disabled")
	}
	if cfg.MetricsEnabled() {
		t.Error("metrics explicitly disabled")
	}
	if !cfg.Observability.Tracing {
		t.Error("tracing explicitly enabled")
	}
	if got := cfg.RoutesPath(); got != filepath.Join(dir, "app/routes") {
		t.Errorf("RoutesPath() = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	serr, ok := err.(*errors.StradaError)
	if !ok {
		t.Fatalf("error = %T, want *errors.StradaError", err)
	}
	if serr.Code != "E101" {
		t.Errorf("code = %q, want E101", serr.Code)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{broken`)

	_, err := Load(dir)
	serr, ok := err.(*errors.StradaError)
	if !ok {
		t.Fatalf("error = %T, want *errors.StradaError", err)
	}
	if serr.Code != "E102" {
		t.Errorf("code = %q, want E102", serr.Code)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestFindProjectRootMissing(t *testing.T) {
	_, err := FindProjectRoot(t.TempDir())
	if err == nil {
		t.Fatal("expected an error outside any project")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "shop"
	cfg.Prefix = "/api"

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "shop" || loaded.Prefix != "/api" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}
