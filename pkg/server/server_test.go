package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strada-dev/strada/pkg/middleware"
	"github.com/strada-dev/strada/pkg/router"
	"github.com/strada-dev/strada/pkg/schema"
)

func testTable(t *testing.T) *router.Table {
	t.Helper()

	bodySchema := schema.MustCompile(map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})

	reg := router.NewRegistry()
	reg.Register("items/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return router.JSON(http.StatusOK, map[string]any{"items": []any{}}), nil
			},
			router.MethodPOST: func(c *router.Ctx) (*router.Response, error) {
				return router.JSON(http.StatusCreated, c.Validated().Body), nil
			},
		},
		Schemas: map[router.Method]*router.MethodSchema{
			router.MethodPOST: {Body: bodySchema},
		},
	})
	reg.Register("items/[id]/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return router.JSON(http.StatusOK, map[string]any{"id": c.Param("id")}), nil
			},
		},
	})
	reg.Register("text/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return &router.Response{Status: http.StatusOK, Body: "hello"}, nil
			},
		},
	})
	reg.Register("blob/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return router.Raw(http.StatusOK, "application/pdf", []byte{0x25, 0x50}), nil
			},
		},
	})

	table, err := router.Compile(reg.FS(), reg, router.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return table
}

func testServer(t *testing.T, cfg *ServerConfig) *Server {
	t.Helper()
	srv, err := New(testTable(t), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServeMatrix(t *testing.T) {
	srv := testServer(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"collection", http.MethodGet, "/items", "", http.StatusOK},
		{"param", http.MethodGet, "/items/42", "", http.StatusOK},
		{"not found", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"method not allowed", http.MethodDelete, "/items", "", http.StatusMethodNotAllowed},
		{"validation", http.MethodPost, "/items", `{}`, http.StatusBadRequest},
		{"create", http.MethodPost, "/items", `{"name":"x"}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := do(t, srv, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestServeJSONSerialization(t *testing.T) {
	srv := testServer(t, nil)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["id"] != "42" {
		t.Errorf("body = %#v", body)
	}
}

func TestServeVerbatimBodies(t *testing.T) {
	srv := testServer(t, nil)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/text", nil))
	if rec.Body.String() != "hello" {
		t.Errorf("string body = %q, want verbatim", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/blob", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want explicit type kept", ct)
	}
	if rec.Body.Len() != 2 {
		t.Errorf("byte body length = %d, want verbatim", rec.Body.Len())
	}
}

func TestServeAllowHeader(t *testing.T) {
	srv := testServer(t, nil)

	rec := do(t, srv, httptest.NewRequest(http.MethodDelete, "/items", nil))
	if got := rec.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("Allow = %q, want %q", got, "GET, POST")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	// Serve something first so request metrics exist.
	do(t, srv, httptest.NewRequest(http.MethodGet, "/items", nil))

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "strada_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestDocsEndpoints(t *testing.T) {
	srv := testServer(t, nil)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi status = %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi document is not JSON: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v", doc["openapi"])
	}

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/docs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("docs status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "swagger-ui") {
		t.Error("docs page missing UI")
	}
}

func TestDocsDisabled(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Docs.Enabled = false
	srv := testServer(t, cfg)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("openapi status = %d, want 404 when disabled", rec.Code)
	}
}

func TestGlobalMiddlewareRuns(t *testing.T) {
	cfg := DefaultServerConfig().WithGlobal(middleware.Logging())
	srv := testServer(t, cfg)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/items", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultServerConfig().WithAddress(":9999").WithDebug(true)
	clone := cfg.Clone()

	clone.Address = ":1111"
	clone.Docs.Title = "changed"

	if cfg.Address != ":9999" {
		t.Errorf("Address = %q, clone mutated original", cfg.Address)
	}
	if cfg.Docs.Title == "changed" {
		t.Error("Docs clone shares memory with original")
	}
}
