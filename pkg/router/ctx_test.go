package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestCtx(t *testing.T, method Method, target string, body io.Reader) *Ctx {
	t.Helper()
	req := httptest.NewRequest(string(method), target, body)
	route := descriptor("/items/:id", method)
	return NewCtx(req, route, map[string]string{"id": "7"})
}

func TestCtxAccessors(t *testing.T) {
	c := newTestCtx(t, MethodGET, "/items/7?limit=5", nil)

	if c.Method() != MethodGET {
		t.Errorf("Method() = %v", c.Method())
	}
	if c.Param("id") != "7" {
		t.Errorf("Param(id) = %q", c.Param("id"))
	}
	if c.Param("missing") != "" {
		t.Errorf("Param(missing) = %q, want empty", c.Param("missing"))
	}
	if c.Query().Get("limit") != "5" {
		t.Errorf("Query limit = %q", c.Query().Get("limit"))
	}
	if c.Route().Path() != "/items/:id" {
		t.Errorf("Route path = %q", c.Route().Path())
	}
}

func TestCtxBodyBytesReadsOnce(t *testing.T) {
	reader := &countingReader{Reader: strings.NewReader(`{"a":1}`)}
	req := httptest.NewRequest(http.MethodPost, "/items/7", reader)
	c := NewCtx(req, descriptor("/items/:id", MethodPOST), nil)

	first, err := c.BodyBytes()
	if err != nil {
		t.Fatalf("BodyBytes() error = %v", err)
	}
	second, err := c.BodyBytes()
	if err != nil {
		t.Fatalf("BodyBytes() second error = %v", err)
	}
	if string(first) != `{"a":1}` || string(second) != `{"a":1}` {
		t.Errorf("bodies = %q, %q", first, second)
	}
	if reader.reads > 2 {
		// One read for content, one for EOF. More means re-reading.
		t.Errorf("underlying reader consumed %d times", reader.reads)
	}
}

type countingReader struct {
	io.Reader
	reads int
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads++
	return r.Reader.Read(p)
}

func TestCtxBodyDecodesJSON(t *testing.T) {
	c := newTestCtx(t, MethodPOST, "/items/7", strings.NewReader(`{"a":1}`))

	v, err := c.Body()
	if err != nil {
		t.Fatalf("Body() error = %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["a"] != float64(1) {
		t.Errorf("Body() = %#v", v)
	}
}

func TestCtxBodyAbsent(t *testing.T) {
	c := newTestCtx(t, MethodPOST, "/items/7", nil)

	v, err := c.Body()
	if err != nil {
		t.Fatalf("Body() error = %v", err)
	}
	if v != nil {
		t.Errorf("Body() = %#v, want nil for absent body", v)
	}
}

func TestCtxValues(t *testing.T) {
	c := newTestCtx(t, MethodGET, "/items/7", nil)

	type key struct{}
	if c.Value(key{}) != nil {
		t.Error("Value on empty ctx should be nil")
	}
	c.Set(key{}, "hello")
	if c.Value(key{}) != "hello" {
		t.Errorf("Value = %v", c.Value(key{}))
	}
}

func TestCtxPathIsCanonical(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items//7/", nil)
	c := NewCtx(req, descriptor("/items/:id", MethodGET), nil)

	if c.Path() != "/items/7" {
		t.Errorf("Path() = %q, want canonical form", c.Path())
	}
}
